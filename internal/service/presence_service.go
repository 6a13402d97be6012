package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/counter-app/internal/domain"
	"github.com/dom/counter-app/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PresenceService tracks which users have been seen recently. Writes are
// last-writer-wins.
type PresenceService struct {
	userRepo repository.UserRepository
	window   time.Duration
	limit    int
	now      func() time.Time
}

func NewPresenceService(userRepo repository.UserRepository, window time.Duration, limit int) *PresenceService {
	if window <= 0 {
		window = domain.DefaultPresenceWindow
	}
	if limit <= 0 {
		limit = domain.DefaultActiveUsersLimit
	}
	return &PresenceService{
		userRepo: userRepo,
		window:   window,
		limit:    limit,
		now:      time.Now,
	}
}

// Heartbeat marks the user as active now
func (s *PresenceService) Heartbeat(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Touch(s.now())
	if err := s.userRepo.UpdatePresence(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// MarkInactive clears the active flag and keeps the last seen time
func (s *PresenceService) MarkInactive(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.MarkInactive()
	if err := s.userRepo.UpdatePresence(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListActive returns other users seen within the presence window, most
// recent first.
func (s *PresenceService) ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.User, error) {
	now := s.now()
	users, err := s.userRepo.ListActiveSince(ctx, userID, now.Add(-s.window), s.limit)
	if err != nil {
		return nil, err
	}
	return domain.FilterActive(users, userID, now, s.window, s.limit), nil
}

func (s *PresenceService) load(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
