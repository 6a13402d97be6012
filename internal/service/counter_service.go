package service

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dom/counter-app/internal/domain"
	"github.com/dom/counter-app/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCounterNotFound = errors.New("counter not found")
	ErrVersionConflict = errors.New("counter was modified by another request")
)

// CounterService loads a counter snapshot, applies one transition and
// writes it back guarded by the counter version.
type CounterService struct {
	counterRepo repository.CounterRepository
	locks       *keyedMutex
	now         func() time.Time
	pick        domain.Picker
}

func NewCounterService(counterRepo repository.CounterRepository) *CounterService {
	return &CounterService{
		counterRepo: counterRepo,
		locks:       newKeyedMutex(),
		now:         time.Now,
		pick:        rand.IntN,
	}
}

type CreateCounterInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (s *CounterService) Create(ctx context.Context, userID uuid.UUID, input CreateCounterInput) (*domain.Counter, error) {
	counter := domain.NewCounter(userID, strings.TrimSpace(input.Name), input.Description, s.now())
	if err := s.counterRepo.Create(ctx, counter); err != nil {
		return nil, err
	}
	return counter, nil
}

func (s *CounterService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Counter, error) {
	return s.counterRepo.ListByUserID(ctx, userID)
}

// Get returns the counter if userID owns it. Missing and foreign counters
// are both reported as ErrCounterNotFound.
func (s *CounterService) Get(ctx context.Context, userID, counterID uuid.UUID) (*domain.Counter, error) {
	counter, err := s.counterRepo.GetByIDAndUserID(ctx, counterID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCounterNotFound
		}
		return nil, err
	}
	return counter, nil
}

// GetOrCreateDefault returns the user's oldest counter, creating one named
// DefaultCounterName when the user has none. Calls for the same user are
// serialized so concurrent first visits create a single counter.
func (s *CounterService) GetOrCreateDefault(ctx context.Context, userID uuid.UUID) (*domain.Counter, error) {
	unlock, err := s.locks.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	counter, err := s.counterRepo.GetFirstByUserID(ctx, userID)
	if err == nil {
		return counter, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.Create(ctx, userID, CreateCounterInput{Name: domain.DefaultCounterName})
}

// ApplyDelta adds amount to the counter using an increment, decrement or
// custom operation.
func (s *CounterService) ApplyDelta(ctx context.Context, userID, counterID uuid.UUID, amount int64, op domain.OperationType) (*domain.Counter, error) {
	return s.mutate(ctx, userID, counterID, func(c *domain.Counter) error {
		_, err := c.ApplyDelta(amount, op, s.now())
		return err
	})
}

func (s *CounterService) Reset(ctx context.Context, userID, counterID uuid.UUID) (*domain.Counter, error) {
	return s.mutate(ctx, userID, counterID, func(c *domain.Counter) error {
		c.Reset(s.now())
		return nil
	})
}

func (s *CounterService) AddButton(ctx context.Context, userID, counterID uuid.UUID, amount int64, label *string) (*domain.Counter, error) {
	if label != nil {
		trimmed := strings.TrimSpace(*label)
		label = &trimmed
		if trimmed == "" {
			label = nil
		}
	}
	return s.mutate(ctx, userID, counterID, func(c *domain.Counter) error {
		_, err := c.AddCustomButton(amount, label, s.now())
		return err
	})
}

func (s *CounterService) RemoveButton(ctx context.Context, userID, counterID, buttonID uuid.UUID) (*domain.Counter, error) {
	return s.mutate(ctx, userID, counterID, func(c *domain.Counter) error {
		return c.RemoveCustomButton(buttonID)
	})
}

// Personality describes the counter's current mood. When amount is given
// a click reaction for it is included.
func (s *CounterService) Personality(ctx context.Context, userID, counterID uuid.UUID, amount *int64) (*domain.Personality, error) {
	counter, err := s.Get(ctx, userID, counterID)
	if err != nil {
		return nil, err
	}

	p := domain.PersonalityFor(counter.CurrentCount, s.pick)
	if amount != nil {
		reaction := domain.ClickReaction(*amount)
		p.Reaction = &reaction
	}
	return &p, nil
}

func (s *CounterService) mutate(ctx context.Context, userID, counterID uuid.UUID, apply func(*domain.Counter) error) (*domain.Counter, error) {
	unlock, err := s.locks.Lock(ctx, counterID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	counter, err := s.Get(ctx, userID, counterID)
	if err != nil {
		return nil, err
	}
	if err := apply(counter); err != nil {
		return nil, err
	}
	if replayed, ok := counter.Replay(); !ok || replayed != counter.CurrentCount {
		log.Printf("WARN [CounterService.mutate] history of counter %s does not replay to %d", counter.ID, counter.CurrentCount)
	}

	if err := s.counterRepo.Save(ctx, counter); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		return nil, err
	}
	return counter, nil
}
