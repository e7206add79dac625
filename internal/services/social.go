package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rankingrepo "github.com/marqueehq/marquee-backend/internal/data/repos/ranking"
	userrepo "github.com/marqueehq/marquee-backend/internal/data/repos/user"
	"github.com/marqueehq/marquee-backend/internal/domain"
	"github.com/marqueehq/marquee-backend/internal/pkg/dbctx"
	"github.com/marqueehq/marquee-backend/internal/pkg/logger"
)

type Profile struct {
	User           *domain.User `json:"user"`
	FollowerCount  int64        `json:"follower_count"`
	FollowingCount int64        `json:"following_count"`
	RankingCount   int64        `json:"ranking_count"`
	IsFollowing    bool         `json:"is_following"`
	IsMutual       bool         `json:"is_mutual"`
}

type UserSearchResult struct {
	User        *domain.User `json:"user"`
	IsFollowing bool         `json:"is_following"`
}

type UpdateProfileInput struct {
	DisplayName         *string
	Bio                 *string
	AvatarURL           *string
	OnboardingCompleted *bool
}

type SocialService interface {
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	Following(ctx context.Context, userID uuid.UUID) ([]*domain.User, error)
	Followers(ctx context.Context, userID uuid.UUID) ([]*domain.User, error)
	Feed(ctx context.Context, viewerID uuid.UUID, limit int) ([]*domain.Ranking, error)
	Leaderboard(ctx context.Context, viewerID uuid.UUID, limit int) ([]*domain.Ranking, error)
	SearchUsers(ctx context.Context, viewerID uuid.UUID, query string, limit int) ([]*UserSearchResult, error)
	GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error)
}

type socialService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    userrepo.UserRepo
	followRepo  userrepo.FollowRepo
	rankingRepo rankingrepo.RankingRepo
}

func NewSocialService(db *gorm.DB, log *logger.Logger, userRepo userrepo.UserRepo, followRepo userrepo.FollowRepo, rankingRepo rankingrepo.RankingRepo) SocialService {
	return &socialService{
		db:          db,
		log:         log.With("service", "SocialService"),
		userRepo:    userRepo,
		followRepo:  followRepo,
		rankingRepo: rankingRepo,
	}
}

func (s *socialService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return fmt.Errorf("%w: cannot follow yourself", ErrValidation)
	}
	dbc := dbctx.Context{Ctx: ctx}

	target, err := s.userRepo.GetByID(dbc, followingID)
	if err != nil {
		return err
	}
	if target == nil || !target.IsActive {
		return ErrUserNotFound
	}

	if err := s.followRepo.Create(dbc, &domain.Follow{
		ID:          uuid.New(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}); err != nil {
		return err
	}
	s.log.Info("Follow created", "follower_id", followerID, "following_id", followingID)
	return nil
}

func (s *socialService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	return s.followRepo.Delete(dbctx.Context{Ctx: ctx}, followerID, followingID)
}

func (s *socialService) Following(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	return s.followRepo.ListFollowing(dbctx.Context{Ctx: ctx}, userID)
}

func (s *socialService) Followers(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	return s.followRepo.ListFollowers(dbctx.Context{Ctx: ctx}, userID)
}

// Feed returns the latest placements made by people the viewer follows.
func (s *socialService) Feed(ctx context.Context, viewerID uuid.UUID, limit int) ([]*domain.Ranking, error) {
	dbc := dbctx.Context{Ctx: ctx}
	followed, err := s.followRepo.ListFollowingIDs(dbc, viewerID)
	if err != nil {
		return nil, err
	}
	return s.rankingRepo.ListRecentByUsers(dbc, followed, limit)
}

// Leaderboard surfaces S-tier picks across the viewer's circle, viewer
// included.
func (s *socialService) Leaderboard(ctx context.Context, viewerID uuid.UUID, limit int) ([]*domain.Ranking, error) {
	dbc := dbctx.Context{Ctx: ctx}
	followed, err := s.followRepo.ListFollowingIDs(dbc, viewerID)
	if err != nil {
		return nil, err
	}
	circle := append(followed, viewerID)

	rows, err := s.rankingRepo.ListRecentByUsers(dbc, circle, 0)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	out := make([]*domain.Ranking, 0, limit)
	for _, row := range rows {
		if row.Tier != domain.TierS {
			continue
		}
		out = append(out, row)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *socialService) SearchUsers(ctx context.Context, viewerID uuid.UUID, query string, limit int) ([]*UserSearchResult, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrValidation)
	}
	dbc := dbctx.Context{Ctx: ctx}

	users, err := s.userRepo.SearchByUsername(dbc, query, limit)
	if err != nil {
		return nil, err
	}
	followedIDs, err := s.followRepo.ListFollowingIDs(dbc, viewerID)
	if err != nil {
		return nil, err
	}
	followed := make(map[uuid.UUID]struct{}, len(followedIDs))
	for _, id := range followedIDs {
		followed[id] = struct{}{}
	}

	out := make([]*UserSearchResult, 0, len(users))
	for _, u := range users {
		if u.ID == viewerID || !u.IsActive {
			continue
		}
		_, isFollowing := followed[u.ID]
		out = append(out, &UserSearchResult{User: u, IsFollowing: isFollowing})
	}
	return out, nil
}

func (s *socialService) GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*Profile, error) {
	dbc := dbctx.Context{Ctx: ctx}

	user, err := s.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserNotFound
	}

	followers, following, err := s.followRepo.Counts(dbc, userID)
	if err != nil {
		return nil, err
	}
	rankings, err := s.rankingRepo.CountByUser(dbc, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		User:           user,
		FollowerCount:  followers,
		FollowingCount: following,
		RankingCount:   rankings,
	}
	if viewerID != userID {
		if profile.IsFollowing, err = s.followRepo.Exists(dbc, viewerID, userID); err != nil {
			return nil, err
		}
		followsBack, err := s.followRepo.Exists(dbc, userID, viewerID)
		if err != nil {
			return nil, err
		}
		profile.IsMutual = profile.IsFollowing && followsBack
	}
	return profile, nil
}

func (s *socialService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	updates := map[string]interface{}{}
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if len(name) > 60 {
			return nil, fmt.Errorf("%w: display name too long", ErrValidation)
		}
		updates["display_name"] = name
	}
	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		if len(bio) > 280 {
			return nil, fmt.Errorf("%w: bio too long", ErrValidation)
		}
		updates["bio"] = bio
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*input.AvatarURL)
	}
	if input.OnboardingCompleted != nil {
		updates["onboarding_completed"] = *input.OnboardingCompleted
	}

	dbc := dbctx.Context{Ctx: ctx}
	if err := s.userRepo.UpdateProfile(dbc, userID, updates); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
