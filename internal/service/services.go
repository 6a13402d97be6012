package service

import (
	"github.com/dom/counter-app/internal/config"
	"github.com/dom/counter-app/internal/repository"
)

type Services struct {
	Auth     *AuthService
	Profile  *ProfileService
	Presence *PresenceService
	Counter  *CounterService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	auth := NewAuthService(repos.User, cfg)
	return &Services{
		Auth:     auth,
		Profile:  NewProfileService(repos.User, auth),
		Presence: NewPresenceService(repos.User, cfg.PresenceWindow, cfg.ActiveUsersLimit),
		Counter:  NewCounterService(repos.Counter),
	}
}
