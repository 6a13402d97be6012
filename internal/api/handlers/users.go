package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dom/counter-app/internal/api/middleware"
	"github.com/dom/counter-app/internal/api/response"
	"github.com/dom/counter-app/internal/service"
	"github.com/google/uuid"
)

type UserHandler struct {
	profileService  *service.ProfileService
	presenceService *service.PresenceService
}

func NewUserHandler(profileService *service.ProfileService, presenceService *service.PresenceService) *UserHandler {
	return &UserHandler{
		profileService:  profileService,
		presenceService: presenceService,
	}
}

// ActiveUserResponse is what other users see in the active users list
type ActiveUserResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	ProfilePicture *string   `json:"profilePicture"`
	LastActiveAt   time.Time `json:"lastActiveAt"`
}

// PresenceResponse reports the caller's own presence after a change
type PresenceResponse struct {
	IsActive     bool      `json:"isActive"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "users.GetProfile", err)
		return
	}

	response.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req service.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.profileService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, "users.UpdateProfile", err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

func (h *UserHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.presenceService.ListActive(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "users.ListActive", err)
		return
	}

	resp := make([]ActiveUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, ActiveUserResponse{
			ID:             u.ID,
			Username:       u.Username,
			ProfilePicture: u.ProfilePicture,
			LastActiveAt:   u.LastActiveAt,
		})
	}

	response.JSON(w, http.StatusOK, resp)
}

func (h *UserHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.presenceService.Heartbeat(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "users.Heartbeat", err)
		return
	}

	response.JSON(w, http.StatusOK, PresenceResponse{IsActive: user.IsActive, LastActiveAt: user.LastActiveAt})
}

func (h *UserHandler) MarkInactive(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.presenceService.MarkInactive(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "users.MarkInactive", err)
		return
	}

	response.JSON(w, http.StatusOK, PresenceResponse{IsActive: user.IsActive, LastActiveAt: user.LastActiveAt})
}
