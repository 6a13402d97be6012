package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dom/counter-app/internal/api/response"
	"github.com/dom/counter-app/internal/domain"
	"github.com/dom/counter-app/internal/service"
)

// writeServiceError maps service and domain errors to a status code and
// envelope. Anything unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.Error(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, domain.ErrInvalidOperationType),
		errors.Is(err, domain.ErrZeroButtonAmount),
		errors.Is(err, domain.ErrCountOverflow):
		response.Error(w, http.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		response.Error(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrCounterNotFound):
		response.Error(w, http.StatusNotFound, "Counter not found")
	case errors.Is(err, domain.ErrButtonNotFound):
		response.Error(w, http.StatusNotFound, "Button not found")
	case errors.Is(err, service.ErrUserExists):
		response.Error(w, http.StatusConflict, "User already exists")
	case errors.Is(err, service.ErrVersionConflict):
		response.Error(w, http.StatusConflict, "Counter was modified by another request, please retry")
	default:
		log.Printf("ERROR [%s] %v", op, err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// validationMessage strips the ErrValidation prefix from a wrapped error
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	return capitalize(msg)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
