package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6

	// bcrypt only accepts passwords up to this many bytes
	MaxPasswordBytes = 72
)

type User struct {
	ID             uuid.UUID                       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username       string                          `json:"username" gorm:"uniqueIndex;not null"`
	Email          string                          `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string                          `json:"-" gorm:"not null"`
	ProfilePicture *string                         `json:"profilePicture"`
	LastActiveAt   time.Time                       `json:"lastActiveAt" gorm:"index;not null"`
	IsActive       bool                            `json:"isActive" gorm:"not null;default:true"`
	Preferences    datatypes.JSONType[Preferences] `json:"preferences" gorm:"type:jsonb"`
	CreatedAt      time.Time                       `json:"createdAt"`
	UpdatedAt      time.Time                       `json:"updatedAt"`
}

// Preferences are stored with the user but only Theme and
// DefaultIncrementAmount influence client behavior today.
type Preferences struct {
	Theme                  string `json:"theme"`
	DefaultIncrementAmount int64  `json:"defaultIncrementAmount"`
	HistoryRetentionDays   int    `json:"historyRetentionDays"`
	NotificationsEnabled   bool   `json:"notificationsEnabled"`
}

// PreferencesPatch carries optional preference updates. Nil fields keep
// the stored value.
type PreferencesPatch struct {
	Theme                  *string `json:"theme"`
	DefaultIncrementAmount *int64  `json:"defaultIncrementAmount"`
	HistoryRetentionDays   *int    `json:"historyRetentionDays"`
	NotificationsEnabled   *bool   `json:"notificationsEnabled"`
}

// DefaultPreferences returns the preferences assigned at registration
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:                  "light",
		DefaultIncrementAmount: 1,
		HistoryRetentionDays:   30,
		NotificationsEnabled:   true,
	}
}

// Merge applies the non-nil fields of patch on top of p
func (p Preferences) Merge(patch PreferencesPatch) (Preferences, error) {
	if patch.Theme != nil && strings.TrimSpace(*patch.Theme) != "" {
		p.Theme = strings.TrimSpace(*patch.Theme)
	}
	if patch.DefaultIncrementAmount != nil {
		if *patch.DefaultIncrementAmount == 0 {
			return p, ErrInvalidIncrement
		}
		p.DefaultIncrementAmount = *patch.DefaultIncrementAmount
	}
	if patch.HistoryRetentionDays != nil {
		if *patch.HistoryRetentionDays <= 0 {
			return p, ErrInvalidRetention
		}
		p.HistoryRetentionDays = *patch.HistoryRetentionDays
	}
	if patch.NotificationsEnabled != nil {
		p.NotificationsEnabled = *patch.NotificationsEnabled
	}
	return p, nil
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a user that is active as of now
func NewUser(username, email, passwordHash string, now time.Time) *User {
	return &User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(username),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		LastActiveAt: now,
		IsActive:     true,
		Preferences:  datatypes.NewJSONType(DefaultPreferences()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
