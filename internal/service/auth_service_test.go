package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dom/counter-app/internal/repository/postgres"
	"github.com/dom/counter-app/internal/service"
	"github.com/dom/counter-app/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     service.RegisterInput
		setup     func()
		wantErr   error
		checkUser bool
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Username: " newuser ",
				Email:    "New@Example.com",
				Password: "password123",
			},
			checkUser: true,
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Username: "another",
				Email:    "existing@example.com",
				Password: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("existing@example.com").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrUserExists,
		},
		{
			name: "duplicate email with different case",
			input: service.RegisterInput{
				Username: "another",
				Email:    "EXISTING@example.com",
				Password: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("existing@example.com").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrUserExists,
		},
		{
			name:    "short username",
			input:   service.RegisterInput{Username: "ab", Email: "ab@example.com", Password: "password123"},
			wantErr: service.ErrValidation,
		},
		{
			name:    "invalid email",
			input:   service.RegisterInput{Username: "abc", Email: "nope", Password: "password123"},
			wantErr: service.ErrValidation,
		},
		{
			name:    "short password",
			input:   service.RegisterInput{Username: "abc", Email: "abc@example.com", Password: "12345"},
			wantErr: service.ErrValidation,
		},
		{
			name:    "password longer than bcrypt accepts",
			input:   service.RegisterInput{Username: "abc", Email: "abc@example.com", Password: strings.Repeat("p", 73)},
			wantErr: service.ErrValidation,
		},
		{
			name:    "multibyte password counted in characters",
			input:   service.RegisterInput{Username: "abc", Email: "abc@example.com", Password: "ééé"},
			wantErr: service.ErrValidation,
		},
		{
			name:  "password at the byte limit",
			input: service.RegisterInput{Username: "abc", Email: "abc@example.com", Password: strings.Repeat("p", 72)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			result, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			if tt.checkUser {
				assert.Equal(t, "newuser", result.User.Username)
				assert.Equal(t, "new@example.com", result.User.Email)
				assert.True(t, result.User.IsActive)
				assert.NotEqual(t, "password123", result.User.PasswordHash)
				assert.NotEmpty(t, result.AccessToken)
				assert.Equal(t, "light", result.User.Preferences.Data().Theme)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		WithLastActiveAt(time.Now().Add(-time.Hour)).
		Inactive().
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "successful login",
			input: service.LoginInput{Email: user.Email, Password: rawPassword},
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Email: user.Email, Password: "wrongpassword"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "non-existent user",
			input:   service.LoginInput{Email: "nobody@example.com", Password: "anypassword"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "missing email",
			input:   service.LoginInput{Password: "anypassword"},
			wantErr: service.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.AccessToken)

			stored, err := repos.User.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.True(t, stored.IsActive, "login touches presence")
			assert.WithinDuration(t, time.Now(), stored.LastActiveAt, time.Minute)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	result, err := authService.Register(ctx, service.RegisterInput{
		Username: "tokenuser",
		Email:    "token@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	secret := []byte(cfg.JWTSecret)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid token", token: result.AccessToken},
		{name: "invalid token", token: "invalid.token.here", wantErr: true},
		{name: "malformed token", token: "notavalidjwt", wantErr: true},
		{name: "empty token", token: "", wantErr: true},
		{
			name:    "wrong secret",
			token:   sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": result.User.ID.String()}),
			wantErr: true,
		},
		{
			name:    "other hmac algorithm",
			token:   sign(jwt.SigningMethodHS512, secret, jwt.MapClaims{"sub": result.User.ID.String()}),
			wantErr: true,
		},
		{
			name:    "expired",
			token:   sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": result.User.ID.String(), "exp": time.Now().Add(-time.Hour).Unix()}),
			wantErr: true,
		},
		{
			name:    "subject is not a uuid",
			token:   sign(jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "alice"}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := authService.ValidateToken(tt.token)

			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidToken)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, result.User.ID, userID)
		})
	}
}

func TestAuthService_GetUserByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, testutil.TestConfig())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	got, err := authService.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	_, err = authService.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
