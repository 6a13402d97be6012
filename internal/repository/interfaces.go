package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dom/counter-app/internal/domain"
	"github.com/google/uuid"
)

// ErrVersionConflict is returned when a conditional write finds that the
// stored version no longer matches the one the caller loaded.
var ErrVersionConflict = errors.New("version conflict")

// ErrDuplicateKey is returned when a write violates a unique index
var ErrDuplicateKey = errors.New("duplicate key")

type UserRepository interface {
	// Create and Update return ErrDuplicateKey when the username or email
	// is already taken.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByEmailOrUsername reports whether another user (not excludeID)
	// already holds the email or username.
	ExistsByEmailOrUsername(ctx context.Context, email, username string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePresence(ctx context.Context, user *domain.User) error
	// ListActiveSince returns active users seen at or after since, newest
	// first, excluding excludeID.
	ListActiveSince(ctx context.Context, excludeID uuid.UUID, since time.Time, limit int) ([]*domain.User, error)
}

type CounterRepository interface {
	Create(ctx context.Context, counter *domain.Counter) error
	GetByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*domain.Counter, error)
	GetFirstByUserID(ctx context.Context, userID uuid.UUID) (*domain.Counter, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Counter, error)
	// Save persists the aggregate if the stored version still equals
	// counter.Version, then bumps counter.Version. ErrVersionConflict
	// otherwise.
	Save(ctx context.Context, counter *domain.Counter) error
}

type Repositories struct {
	User    UserRepository
	Counter CounterRepository
}
