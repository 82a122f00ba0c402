package service

import (
	"context"
	"log"
	"strings"

	"livestock/internal/domain"
	"livestock/internal/redis"
	"livestock/internal/repository"
)

// ProfileService handles transporter profiles and settings.
type ProfileService struct {
	userRepo     repository.UserRepository
	profileCache redis.ProfileCacheInterface
}

// NewProfileService creates a new ProfileService. profileCache may be nil.
func NewProfileService(userRepo repository.UserRepository, profileCache redis.ProfileCacheInterface) *ProfileService {
	return &ProfileService{
		userRepo:     userRepo,
		profileCache: profileCache,
	}
}

// GetProfile retrieves a profile by user ID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfileRequest contains the editable profile fields.
type UpdateProfileRequest struct {
	UserID  string
	Name    string
	Vehicle *domain.VehicleDetails // Optional: nil keeps the current vehicle
}

// UpdateProfile sets the display name and vehicle details.
func (s *ProfileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.User, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if err := s.userRepo.UpdateProfile(ctx, req.UserID, name, req.Vehicle); err != nil {
		return nil, err
	}

	return s.reload(ctx, req.UserID)
}

// UpdateSettings replaces a user's preference toggles.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID string, settings domain.UserSettings) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if err := s.userRepo.UpdateSettings(ctx, userID, settings); err != nil {
		return nil, err
	}

	return s.reload(ctx, userID)
}

// SetOnline marks a transporter available or unavailable for new jobs.
func (s *ProfileService) SetOnline(ctx context.Context, userID string, online bool) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if err := s.userRepo.SetOnline(ctx, userID, online); err != nil {
		return nil, err
	}

	return s.reload(ctx, userID)
}

// RegisterPushToken adds a device token to a user's token set.
func (s *ProfileService) RegisterPushToken(ctx context.Context, userID, token string) error {
	if userID == "" {
		return ErrInvalidUserID
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidPushToken
	}

	if err := s.userRepo.AddPushToken(ctx, userID, token); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *ProfileService) reload(ctx context.Context, userID string) (*domain.User, error) {
	s.invalidate(ctx, userID)
	return s.userRepo.GetByID(ctx, userID)
}

func (s *ProfileService) invalidate(ctx context.Context, userID string) {
	if s.profileCache == nil {
		return
	}
	if err := s.profileCache.InvalidateProfile(ctx, userID); err != nil {
		log.Printf("[PROFILE] cache invalidation failed: user=%s err=%v", userID, err)
	}
}
