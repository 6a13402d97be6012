package postgres

import (
	"context"
	"time"

	"github.com/dom/counter-app/internal/domain"
	"github.com/dom/counter-app/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type counterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) *counterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) Create(ctx context.Context, counter *domain.Counter) error {
	return r.db.WithContext(ctx).Create(counter).Error
}

func (r *counterRepository) GetByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*domain.Counter, error) {
	var counter domain.Counter
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&counter).Error
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

// GetFirstByUserID returns the user's oldest counter
func (r *counterRepository) GetFirstByUserID(ctx context.Context, userID uuid.UUID) (*domain.Counter, error) {
	var counter domain.Counter
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&counter).Error
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *counterRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Counter, error) {
	var counters []*domain.Counter
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&counters).Error
	if err != nil {
		return nil, err
	}
	return counters, nil
}

func (r *counterRepository) Save(ctx context.Context, counter *domain.Counter) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&domain.Counter{}).
		Where("id = ? AND version = ?", counter.ID, counter.Version).
		Updates(map[string]interface{}{
			"name":           counter.Name,
			"description":    counter.Description,
			"current_count":  counter.CurrentCount,
			"is_active":      counter.IsActive,
			"last_operation": counter.LastOperation,
			"history":        counter.History,
			"custom_buttons": counter.CustomButtons,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrVersionConflict
	}

	counter.Version++
	counter.UpdatedAt = now
	return nil
}
