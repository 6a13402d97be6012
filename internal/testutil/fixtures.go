package testutil

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/counter-app/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username     string
	email        string
	password     string
	lastActiveAt time.Time
	active       bool
}

// NewUserBuilder creates a new UserBuilder with unique defaults
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username:     fmt.Sprintf("testuser_%s", suffix),
		email:        fmt.Sprintf("testuser_%s@example.com", suffix),
		password:     "testpassword123",
		lastActiveAt: time.Now(),
		active:       true,
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithLastActiveAt sets when the user was last seen
func (b *UserBuilder) WithLastActiveAt(at time.Time) *UserBuilder {
	b.lastActiveAt = at
	return b
}

// Inactive marks the user as logged out
func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := domain.NewUser(b.username, b.email, string(hashedPassword), b.lastActiveAt)
	if !b.active {
		user.MarkInactive()
	}

	// GORM skips zero values on insert, so the inactive flag needs its own update.
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if !b.active {
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to mark user inactive: %v", err)
		}
	}

	return user, b.password
}

// AuthResponse matches the data of a register or login response
type AuthResponse struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// BuildAndAuthenticate registers the user via the API and returns the user
// and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	resp := ts.Do(t, http.MethodPost, "/users/register", "", map[string]string{
		"username": b.username,
		"email":    b.email,
		"password": b.password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	DecodeData(t, resp, &authResp)

	userID, err := uuid.Parse(authResp.User.ID)
	if err != nil {
		t.Fatalf("invalid user id %q: %v", authResp.User.ID, err)
	}

	return &domain.User{
		ID:       userID,
		Username: authResp.User.Username,
		Email:    authResp.User.Email,
	}, authResp.Token
}

// CounterBuilder creates test counters with a builder pattern
type CounterBuilder struct {
	owner   *domain.User
	name    string
	deltas  []int64
	buttons []int64
}

// NewCounterBuilder creates a new CounterBuilder with default values
func NewCounterBuilder() *CounterBuilder {
	return &CounterBuilder{name: domain.DefaultCounterName}
}

// WithOwner sets the owning user
func (b *CounterBuilder) WithOwner(user *domain.User) *CounterBuilder {
	b.owner = user
	return b
}

// WithName sets the counter name
func (b *CounterBuilder) WithName(name string) *CounterBuilder {
	b.name = name
	return b
}

// WithDeltas applies the amounts as custom operations before saving
func (b *CounterBuilder) WithDeltas(amounts ...int64) *CounterBuilder {
	b.deltas = append(b.deltas, amounts...)
	return b
}

// WithButtons adds unlabeled custom buttons with the given amounts
func (b *CounterBuilder) WithButtons(amounts ...int64) *CounterBuilder {
	b.buttons = append(b.buttons, amounts...)
	return b
}

// Build creates the counter in the database
func (b *CounterBuilder) Build(t *testing.T, db *gorm.DB) *domain.Counter {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.owner = user
	}

	now := time.Now()
	counter := domain.NewCounter(b.owner.ID, b.name, nil, now)
	for _, amount := range b.deltas {
		if _, err := counter.ApplyDelta(amount, domain.OperationCustom, now); err != nil {
			t.Fatalf("failed to apply delta %d: %v", amount, err)
		}
	}
	for _, amount := range b.buttons {
		if _, err := counter.AddCustomButton(amount, nil, now); err != nil {
			t.Fatalf("failed to add button %d: %v", amount, err)
		}
	}

	if err := db.Create(counter).Error; err != nil {
		t.Fatalf("failed to create counter: %v", err)
	}

	return counter
}
