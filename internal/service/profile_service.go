package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dom/counter-app/internal/domain"
	"github.com/dom/counter-app/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService struct {
	userRepo repository.UserRepository
	auth     *AuthService
}

func NewProfileService(userRepo repository.UserRepository, auth *AuthService) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		auth:     auth,
	}
}

// UpdateProfileInput contains optional profile changes. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	Username       *string                  `json:"username"`
	Email          *string                  `json:"email"`
	Password       *string                  `json:"password"`
	ProfilePicture *string                  `json:"profilePicture"`
	Preferences    *domain.PreferencesPatch `json:"preferences"`
}

// GetProfile returns the user without its password hash
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the changes, re-checks uniqueness and returns the
// stored user with a fresh token.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*AuthResult, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if utf8.RuneCountInString(username) < domain.MinUsernameLength {
			return nil, fmt.Errorf("%w: %v", ErrValidation, domain.ErrInvalidUsername)
		}
		user.Username = username
	}

	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, domain.ErrInvalidEmail)
		}
		user.Email = email
	}

	if input.Username != nil || input.Email != nil {
		exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, user.Email, user.Username, user.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUserExists
		}
	}

	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	if input.ProfilePicture != nil {
		picture := strings.TrimSpace(*input.ProfilePicture)
		if picture == "" {
			user.ProfilePicture = nil
		} else {
			user.ProfilePicture = &picture
		}
	}

	if input.Preferences != nil {
		merged, err := user.Preferences.Data().Merge(*input.Preferences)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		user.Preferences = datatypes.NewJSONType(merged)
	}

	user.UpdatedAt = s.auth.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return s.auth.issueToken(user)
}
