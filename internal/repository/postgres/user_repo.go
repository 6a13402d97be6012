package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dom/counter-app/internal/domain"
	"github.com/dom/counter-app/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("(email = ? OR username = ?) AND id <> ?", email, username, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return translateDuplicate(r.db.WithContext(ctx).Save(user).Error)
}

// translateDuplicate relies on the connection being opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicateKey
	}
	return err
}

// UpdatePresence writes only the presence columns so a heartbeat never
// overwrites a concurrent profile edit.
func (r *userRepository) UpdatePresence(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"last_active_at": user.LastActiveAt,
			"is_active":      user.IsActive,
		}).Error
}

func (r *userRepository) ListActiveSince(ctx context.Context, excludeID uuid.UUID, since time.Time, limit int) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND last_active_at >= ? AND id <> ?", true, since, excludeID).
		Order("last_active_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
