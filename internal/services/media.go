package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/marqueehq/marquee-backend/internal/clients/redis"
	"github.com/marqueehq/marquee-backend/internal/clients/tmdb"
	mediarepo "github.com/marqueehq/marquee-backend/internal/data/repos/media"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

// localHitThreshold is the number of local matches below which a movie search
// falls through to TMDB.
const localHitThreshold = 8

// enrichTopN caps how many TMDB candidates get a full details fetch.
const enrichTopN = 5

const searchCacheTTL = 6 * time.Hour

type CreateMediaInput struct {
	Title          string
	MediaType      domain.MediaType
	ReleaseYear    *int
	Director       *string
	Genre          *string
	RuntimeMinutes *int
}

type MediaService interface {
	Search(ctx context.Context, query string, mediaType *domain.MediaType, limit int) ([]*domain.MediaItem, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.MediaItem, error)
	CreateManual(ctx context.Context, userID uuid.UUID, input CreateMediaInput) (*domain.MediaItem, error)
}

type mediaService struct {
	db        *gorm.DB
	log       *logger.Logger
	mediaRepo mediarepo.MediaRepo
	tmdb      *tmdb.Client
	cache     *redisclient.Cache
}

func NewMediaService(db *gorm.DB, log *logger.Logger, mediaRepo mediarepo.MediaRepo, tmdbClient *tmdb.Client, cache *redisclient.Cache) MediaService {
	return &mediaService{
		db:        db,
		log:       log.With("service", "MediaService"),
		mediaRepo: mediaRepo,
		tmdb:      tmdbClient,
		cache:     cache,
	}
}

// Search looks in the local catalog first and consults TMDB only when the
// catalog comes up thin. External hits are upserted so the next search for
// the same title is answered locally.
func (s *mediaService) Search(ctx context.Context, query string, mediaType *domain.MediaType, limit int) ([]*domain.MediaItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrValidation)
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	dbc := dbctx.Context{Ctx: ctx}

	local, err := s.mediaRepo.SearchByTitle(dbc, query, mediaType, limit)
	if err != nil {
		return nil, err
	}

	playsOnly := mediaType != nil && *mediaType == domain.MediaTypePlay
	if len(local) >= localHitThreshold || playsOnly || !s.tmdb.Enabled() {
		return local, nil
	}

	external, err := s.searchTMDB(ctx, query)
	if err != nil {
		// Degrade to local results rather than failing the search.
		s.log.Warn("TMDB search failed, returning local results", "query", query, "error", err)
		return local, nil
	}
	if len(external) == 0 {
		return local, nil
	}

	cached, err := s.upsertExternal(ctx, external)
	if err != nil {
		return nil, err
	}

	return mergeSearchResults(local, cached, limit), nil
}

func (s *mediaService) searchTMDB(ctx context.Context, query string) ([]tmdb.SearchResult, error) {
	cacheKey := "tmdb:search:" + strings.ToLower(query)

	var results []tmdb.SearchResult
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &results); err != nil {
		s.log.Warn("Cache read failed", "key", cacheKey, "error", err)
	} else if hit {
		return results, nil
	}

	results, err := s.tmdb.SearchMovies(ctx, query, 20)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, cacheKey, results, searchCacheTTL); err != nil {
		s.log.Warn("Cache write failed", "key", cacheKey, "error", err)
	}
	return results, nil
}

// upsertExternal turns TMDB hits into catalog rows. The top candidates are
// enriched with full details concurrently; the rest keep search-level data.
func (s *mediaService) upsertExternal(ctx context.Context, results []tmdb.SearchResult) ([]*domain.MediaItem, error) {
	details := make([]*tmdb.MovieDetails, len(results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichTopN)
	for i := range results {
		if i >= enrichTopN {
			break
		}
		i := i
		g.Go(func() error {
			d, err := s.tmdb.GetMovieDetails(gctx, results[i].TMDBID)
			if err != nil {
				// Enrichment is best-effort; the search row still lands.
				s.log.Warn("TMDB detail fetch failed", "tmdb_id", results[i].TMDBID, "error", err)
				return nil
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]*domain.MediaItem, 0, len(results))
	for i, res := range results {
		item, err := externalToMediaItem(res, details[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	var out []*domain.MediaItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.mediaRepo.UpsertByTMDBID(dbctx.Context{Ctx: ctx, Tx: tx}, items)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func externalToMediaItem(res tmdb.SearchResult, details *tmdb.MovieDetails) (*domain.MediaItem, error) {
	attrs := domain.MediaAttributes{Source: "tmdb"}
	if res.PosterPath != "" {
		poster := tmdb.PosterURL(res.PosterPath)
		attrs.PosterURL = &poster
	}
	if res.Language != "" {
		lang := res.Language
		attrs.Language = &lang
	}
	releaseDate := res.ReleaseDate

	if details != nil {
		if details.Director != "" {
			attrs.Director = &details.Director
		}
		attrs.Cast = details.Cast
		attrs.Genres = details.Genres
		if len(details.Genres) > 0 {
			attrs.Genre = &details.Genres[0]
		}
		if details.RuntimeMinutes > 0 {
			attrs.RuntimeMinutes = &details.RuntimeMinutes
		}
		if details.ReleaseDate != "" {
			releaseDate = details.ReleaseDate
		}
	}
	if releaseDate != "" {
		attrs.ReleaseDate = &releaseDate
	}

	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("marshal media attributes: %w", err)
	}

	tmdbID := res.TMDBID
	item := &domain.MediaItem{
		ID:         uuid.New(),
		TMDBID:     &tmdbID,
		Title:      res.Title,
		MediaType:  domain.MediaTypeMovie,
		Attributes: datatypes.JSON(raw),
		IsVerified: true,
	}
	if year := releaseYearOf(releaseDate); year != 0 {
		item.ReleaseYear = &year
	}
	return item, nil
}

func releaseYearOf(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// mergeSearchResults keeps local rows first and drops external duplicates of
// titles the catalog already had.
func mergeSearchResults(local, external []*domain.MediaItem, limit int) []*domain.MediaItem {
	seen := make(map[uuid.UUID]struct{}, len(local))
	seenTMDB := make(map[int]struct{}, len(local))
	out := make([]*domain.MediaItem, 0, limit)
	for _, item := range local {
		seen[item.ID] = struct{}{}
		if item.TMDBID != nil {
			seenTMDB[*item.TMDBID] = struct{}{}
		}
		out = append(out, item)
	}
	for _, item := range external {
		if len(out) >= limit {
			break
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		if item.TMDBID != nil {
			if _, dup := seenTMDB[*item.TMDBID]; dup {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func (s *mediaService) Get(ctx context.Context, id uuid.UUID) (*domain.MediaItem, error) {
	item, err := s.mediaRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMediaNotFound
	}
	return item, nil
}

// CreateManual registers a title the external catalog doesn't carry, most
// commonly a stage play. Manual rows never get a tmdb_id.
func (s *mediaService) CreateManual(ctx context.Context, userID uuid.UUID, input CreateMediaInput) (*domain.MediaItem, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !input.MediaType.Valid() {
		return nil, fmt.Errorf("%w: unknown media type %q", ErrValidation, input.MediaType)
	}

	attrs := domain.MediaAttributes{
		Source:         "manual",
		Director:       input.Director,
		Genre:          input.Genre,
		RuntimeMinutes: input.RuntimeMinutes,
	}
	if input.Genre != nil {
		attrs.Genres = []string{*input.Genre}
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("marshal media attributes: %w", err)
	}

	item := &domain.MediaItem{
		ID:              uuid.New(),
		Title:           title,
		ReleaseYear:     input.ReleaseYear,
		MediaType:       input.MediaType,
		Attributes:      datatypes.JSON(raw),
		IsUserGenerated: true,
		CreatedByUserID: &userID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.mediaRepo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, []*domain.MediaItem{item})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Manual media item created", "media_item_id", item.ID, "title", title, "type", input.MediaType)
	return item, nil
}
