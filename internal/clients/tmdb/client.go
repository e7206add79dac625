package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/marqueehq/marquee-backend/internal/pkg/httpx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
	"github.com/marqueehq/marquee-backend/internal/utils"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

const maxAttempts = 3

// Client talks to the TMDB v3 API. It is nil-safe: a nil *Client reports
// Enabled() == false and the media service skips external lookups.
type Client struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type SearchResult struct {
	TMDBID      int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	Language    string  `json:"original_language"`
	Popularity  float64 `json:"popularity"`
}

type MovieDetails struct {
	TMDBID         int
	Title          string
	ReleaseDate    string
	RuntimeMinutes int
	Genres         []string
	Language       string
	PosterPath     string
	Director       string
	Cast           []string
}

// New reads TMDB_API_KEY from the environment. A missing key disables the
// client rather than failing startup, so local development works offline.
func New(logg *logger.Logger) *Client {
	apiKey := utils.GetEnv("TMDB_API_KEY", "", logg)
	if strings.TrimSpace(apiKey) == "" {
		logg.Warn("TMDB_API_KEY not set, external movie lookups disabled")
		return nil
	}
	baseURL := utils.GetEnv("TMDB_BASE_URL", defaultBaseURL, logg)
	return &Client{
		log:        logg.With("client", "TMDBClient"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *Client) Enabled() bool { return c != nil }

func (c *Client) SearchMovies(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")

	var payload struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.getJSON(ctx, "/search/movie", q, &payload); err != nil {
		return nil, fmt.Errorf("tmdb search: %w", err)
	}
	if len(payload.Results) > limit {
		payload.Results = payload.Results[:limit]
	}
	return payload.Results, nil
}

// GetMovieDetails fetches a title with its credits in one round trip.
func (c *Client) GetMovieDetails(ctx context.Context, tmdbID int) (*MovieDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", "credits")

	var payload struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date"`
		Runtime     int    `json:"runtime"`
		PosterPath  string `json:"poster_path"`
		Language    string `json:"original_language"`
		Genres      []struct {
			Name string `json:"name"`
		} `json:"genres"`
		Credits struct {
			Cast []struct {
				Name  string `json:"name"`
				Order int    `json:"order"`
			} `json:"cast"`
			Crew []struct {
				Name string `json:"name"`
				Job  string `json:"job"`
			} `json:"crew"`
		} `json:"credits"`
	}
	if err := c.getJSON(ctx, "/movie/"+strconv.Itoa(tmdbID), q, &payload); err != nil {
		return nil, fmt.Errorf("tmdb details %d: %w", tmdbID, err)
	}

	details := &MovieDetails{
		TMDBID:         payload.ID,
		Title:          payload.Title,
		ReleaseDate:    payload.ReleaseDate,
		RuntimeMinutes: payload.Runtime,
		Language:       payload.Language,
		PosterPath:     payload.PosterPath,
	}
	for _, g := range payload.Genres {
		details.Genres = append(details.Genres, g.Name)
	}
	for _, crew := range payload.Credits.Crew {
		if crew.Job == "Director" {
			details.Director = crew.Name
			break
		}
	}
	for i, cast := range payload.Credits.Cast {
		if i >= 10 {
			break
		}
		details.Cast = append(details.Cast, cast.Name)
	}
	return details, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	q.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if !httpx.Retryable(err) || attempt == maxAttempts {
				return lastErr
			}
			time.Sleep(httpx.Backoff(nil, attempt, 500*time.Millisecond, 5*time.Second))
			continue
		}

		if httpx.RetryableStatus(resp.StatusCode) && attempt < maxAttempts {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("tmdb status %d", resp.StatusCode)
			time.Sleep(httpx.Backoff(resp, attempt, 500*time.Millisecond, 5*time.Second))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("tmdb status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode tmdb response: %w", err)
		}
		return nil
	}
	return lastErr
}

// PosterURL resolves a TMDB poster path to a full image URL.
func PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/w500" + posterPath
}
