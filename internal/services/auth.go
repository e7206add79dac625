package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/ctxutil"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName *string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*domain.User, string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	CurrentUser(dbc dbctx.Context) (*domain.User, error)
	AccessTTL() time.Duration
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  userrepo.UserRepo
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo userrepo.UserRepo, jwtSecret string, accessTTL time.Duration) AuthService {
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !usernameRe.MatchString(username) {
		return nil, "", fmt.Errorf("%w: username must be 3-32 chars of a-z, 0-9, _", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		DisplayName:  input.DisplayName,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if taken, err := s.userRepo.UsernameExists(dbc, username); err != nil {
			return err
		} else if taken {
			return ErrUsernameTaken
		}
		if taken, err := s.userRepo.EmailExists(dbc, email); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}
		_, err := s.userRepo.Create(dbc, []*domain.User{user})
		return err
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("User registered", "user_id", user.ID, "username", username)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, usernameOrEmail, password string) (*domain.User, string, error) {
	handle := strings.ToLower(strings.TrimSpace(usernameOrEmail))
	dbc := dbctx.Context{Ctx: ctx}

	var user *domain.User
	var err error
	if strings.Contains(handle, "@") {
		user, err = s.userRepo.GetByEmail(dbc, handle)
	} else {
		user, err = s.userRepo.GetByUsername(dbc, handle)
	}
	if err != nil {
		return nil, "", err
	}
	if user == nil || !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SetContextFromToken verifies a bearer token and attaches the caller's
// identity to the request context.
func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ctx, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, ErrInvalidToken
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (s *authService) CurrentUser(dbc dbctx.Context) (*domain.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(dbc, rd.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) AccessTTL() time.Duration { return s.accessTTL }

func (s *authService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}
