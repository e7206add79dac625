package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/services"
)

func recordServiceError(t *testing.T, err error) (*httptest.ResponseRecorder, response.ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, err)

	var envelope response.ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return w, envelope
}

func TestRespondServiceErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrDuplicateRanking, http.StatusConflict, "duplicate_ranking"},
		{services.ErrRankingNotFound, http.StatusNotFound, "ranking_not_found"},
		{services.ErrInvalidNeighbor, http.StatusBadRequest, "invalid_neighbor"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{services.ErrNotWatchlistMember, http.StatusForbidden, "not_a_member"},
		{services.ErrValidation, http.StatusBadRequest, "validation_failed"},
	}
	for _, tc := range cases {
		w, envelope := recordServiceError(t, tc.err)
		if w.Code != tc.status {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.status, w.Code)
		}
		if envelope.Error.Code != tc.code {
			t.Fatalf("%v: expected code %q, got %q", tc.err, tc.code, envelope.Error.Code)
		}
	}
}

func TestRespondServiceErrorWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("%w: already ranked that title", services.ErrDuplicateRanking)
	w, envelope := recordServiceError(t, wrapped)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if envelope.Error.Code != "duplicate_ranking" {
		t.Fatalf("expected duplicate_ranking, got %q", envelope.Error.Code)
	}
}

func TestRespondServiceErrorUnknownIsInternal(t *testing.T) {
	w, envelope := recordServiceError(t, errors.New("boom"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if envelope.Error.Code != "internal_error" {
		t.Fatalf("expected internal_error, got %q", envelope.Error.Code)
	}
}
