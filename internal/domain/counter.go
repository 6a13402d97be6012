package domain

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const DefaultCounterName = "My Counter"

type OperationType string

const (
	OperationIncrement OperationType = "increment"
	OperationDecrement OperationType = "decrement"
	OperationReset     OperationType = "reset"
	OperationCustom    OperationType = "custom"
)

// IsValid checks if an operation type is known
func (o OperationType) IsValid() bool {
	switch o {
	case OperationIncrement, OperationDecrement, OperationReset, OperationCustom:
		return true
	}
	return false
}

// IsDelta reports whether the operation can be applied through ApplyDelta
func (o OperationType) IsDelta() bool {
	return o == OperationIncrement || o == OperationDecrement || o == OperationCustom
}

// HistoryEntry is an immutable record of one counter transition
type HistoryEntry struct {
	ID            uuid.UUID     `json:"id"`
	OperationType OperationType `json:"operationType"`
	Amount        int64         `json:"amount"`
	PreviousValue int64         `json:"previousValue"`
	NewValue      int64         `json:"newValue"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// CustomButton is a saved shortcut that applies a fixed amount
type CustomButton struct {
	ID        uuid.UUID `json:"id"`
	Amount    int64     `json:"amount"`
	Label     *string   `json:"label"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

// Counter is the aggregate root for a user's running total. History and
// CustomButtons are persisted together with the counter row, and Version
// guards every write.
type Counter struct {
	ID            uuid.UUID                         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        uuid.UUID                         `json:"userId" gorm:"type:uuid;index;not null"`
	Name          string                            `json:"name" gorm:"not null;default:'My Counter'"`
	Description   *string                           `json:"description"`
	CurrentCount  int64                             `json:"currentCount" gorm:"not null;default:0"`
	IsActive      bool                              `json:"isActive" gorm:"not null;default:true"`
	LastOperation *string                           `json:"lastOperation"`
	History       datatypes.JSONSlice[HistoryEntry] `json:"history" gorm:"type:jsonb;not null;default:'[]'"`
	CustomButtons datatypes.JSONSlice[CustomButton] `json:"customButtons" gorm:"type:jsonb;not null;default:'[]'"`
	Version       int64                             `json:"version" gorm:"not null;default:1"`
	CreatedAt     time.Time                         `json:"createdAt"`
	UpdatedAt     time.Time                         `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (Counter) TableName() string {
	return "counters"
}

// NewCounter creates an empty counter owned by userID. A blank name falls
// back to DefaultCounterName.
func NewCounter(userID uuid.UUID, name string, description *string, now time.Time) *Counter {
	if name == "" {
		name = DefaultCounterName
	}
	return &Counter{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		Description:   description,
		IsActive:      true,
		History:       datatypes.JSONSlice[HistoryEntry]{},
		CustomButtons: datatypes.JSONSlice[CustomButton]{},
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyDelta adds amount to the count and records the transition. Zero is
// a valid amount and still produces a history entry.
func (c *Counter) ApplyDelta(amount int64, op OperationType, now time.Time) (HistoryEntry, error) {
	if !op.IsDelta() {
		return HistoryEntry{}, ErrInvalidOperationType
	}
	if (amount > 0 && c.CurrentCount > math.MaxInt64-amount) ||
		(amount < 0 && c.CurrentCount < math.MinInt64-amount) {
		return HistoryEntry{}, ErrCountOverflow
	}

	previous := c.CurrentCount
	c.CurrentCount += amount
	return c.appendHistory(op, amount, previous, now), nil
}

// Reset zeroes the count and appends a reset entry. Earlier history is
// kept, so the log still replays to the current value.
func (c *Counter) Reset(now time.Time) HistoryEntry {
	previous := c.CurrentCount
	c.CurrentCount = 0
	return c.appendHistory(OperationReset, 0, previous, now)
}

func (c *Counter) appendHistory(op OperationType, amount, previous int64, now time.Time) HistoryEntry {
	entry := HistoryEntry{
		ID:            uuid.New(),
		OperationType: op,
		Amount:        amount,
		PreviousValue: previous,
		NewValue:      c.CurrentCount,
		CreatedAt:     now,
	}
	c.History = append(c.History, entry)

	summary := fmt.Sprintf("%s: %d", op, amount)
	c.LastOperation = &summary
	return entry
}

// AddCustomButton appends a button. Its order is the number of buttons
// present at append time, so after removals orders may leave gaps or repeat.
func (c *Counter) AddCustomButton(amount int64, label *string, now time.Time) (CustomButton, error) {
	if amount == 0 {
		return CustomButton{}, ErrZeroButtonAmount
	}

	button := CustomButton{
		ID:        uuid.New(),
		Amount:    amount,
		Label:     label,
		Order:     len(c.CustomButtons),
		CreatedAt: now,
	}
	c.CustomButtons = append(c.CustomButtons, button)
	return button, nil
}

// RemoveCustomButton deletes the first button with the given id. Orders of
// the remaining buttons are not renumbered.
func (c *Counter) RemoveCustomButton(id uuid.UUID) error {
	for i, b := range c.CustomButtons {
		if b.ID == id {
			buttons := make(datatypes.JSONSlice[CustomButton], 0, len(c.CustomButtons)-1)
			buttons = append(buttons, c.CustomButtons[:i]...)
			buttons = append(buttons, c.CustomButtons[i+1:]...)
			c.CustomButtons = buttons
			return nil
		}
	}
	return ErrButtonNotFound
}

// SortedButtons returns the buttons in display order
func (c *Counter) SortedButtons() []CustomButton {
	buttons := make([]CustomButton, len(c.CustomButtons))
	copy(buttons, c.CustomButtons)
	sort.SliceStable(buttons, func(i, j int) bool {
		return buttons[i].Order < buttons[j].Order
	})
	return buttons
}

// Replay walks the history from zero and returns the value it ends on.
// ok is false when an entry does not start where the previous one ended.
func (c *Counter) Replay() (value int64, ok bool) {
	for _, e := range c.History {
		if e.PreviousValue != value {
			return value, false
		}
		value = e.NewValue
	}
	return value, true
}

// IsOwnedBy reports whether userID owns the counter
func (c *Counter) IsOwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}
