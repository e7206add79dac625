package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/ctxutil"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
	"github.com/marqueehq/marquee-backend/internal/services"
)

type stubAuthService struct {
	userID uuid.UUID
	err    error
}

func (s *stubAuthService) Register(ctx context.Context, input services.RegisterInput) (*domain.User, string, error) {
	return nil, "", nil
}

func (s *stubAuthService) Login(ctx context.Context, usernameOrEmail, password string) (*domain.User, string, error) {
	return nil, "", nil
}

func (s *stubAuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if s.err != nil {
		return ctx, s.err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      s.userID,
	}), nil
}

func (s *stubAuthService) CurrentUser(dbc dbctx.Context) (*domain.User, error) { return nil, nil }

func (s *stubAuthService) AccessTTL() time.Duration { return time.Hour }

func authTestRouter(t *testing.T, svc services.AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	am := NewAuthMiddleware(log, svc)

	router := gin.New()
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": rd.UserID.String()})
	})
	return router
}

func TestRequireAuthMissingHeader(t *testing.T) {
	router := authTestRouter(t, &stubAuthService{userID: uuid.New()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthBadToken(t *testing.T) {
	router := authTestRouter(t, &stubAuthService{err: services.ErrInvalidToken})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer nope")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthResolvedUser(t *testing.T) {
	userID := uuid.New()
	router := authTestRouter(t, &stubAuthService{userID: userID})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthNilUser(t *testing.T) {
	router := authTestRouter(t, &stubAuthService{userID: uuid.Nil})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
