package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/counter-app/internal/api/middleware"
	"github.com/dom/counter-app/internal/api/response"
	"github.com/dom/counter-app/internal/domain"
	"github.com/dom/counter-app/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CounterHandler struct {
	counterService *service.CounterService
}

func NewCounterHandler(counterService *service.CounterService) *CounterHandler {
	return &CounterHandler{counterService: counterService}
}

type CreateCounterRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdateValueRequest struct {
	Amount        *Amount `json:"amount"`
	OperationType string  `json:"operationType"`
}

type AddButtonRequest struct {
	Amount *Amount `json:"amount"`
	Label  *string `json:"label"`
	Name   *string `json:"name"`
}

// CounterResponse is a counter with its buttons in display order
type CounterResponse struct {
	*domain.Counter
	CustomButtons []domain.CustomButton `json:"customButtons"`
}

func newCounterResponse(c *domain.Counter) CounterResponse {
	return CounterResponse{Counter: c, CustomButtons: c.SortedButtons()}
}

func (h *CounterHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateCounterRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	counter, err := h.counterService.Create(r.Context(), userID, service.CreateCounterInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, "counter.Create", err)
		return
	}

	response.JSON(w, http.StatusCreated, newCounterResponse(counter))
}

func (h *CounterHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	counters, err := h.counterService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "counter.List", err)
		return
	}

	resp := make([]CounterResponse, 0, len(counters))
	for _, c := range counters {
		resp = append(resp, newCounterResponse(c))
	}
	response.JSON(w, http.StatusOK, resp)
}

func (h *CounterHandler) GetDefault(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	counter, err := h.counterService.GetOrCreateDefault(r.Context(), userID)
	if err != nil {
		writeServiceError(w, "counter.GetDefault", err)
		return
	}

	response.JSON(w, http.StatusOK, newCounterResponse(counter))
}

func (h *CounterHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, counterID, ok := h.identify(w, r)
	if !ok {
		return
	}

	counter, err := h.counterService.Get(r.Context(), userID, counterID)
	if err != nil {
		writeServiceError(w, "counter.Get", err)
		return
	}

	response.JSON(w, http.StatusOK, newCounterResponse(counter))
}

func (h *CounterHandler) UpdateValue(w http.ResponseWriter, r *http.Request) {
	userID, counterID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req UpdateValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Amount == nil {
		response.Error(w, http.StatusBadRequest, "Amount is required")
		return
	}
	op := domain.OperationType(req.OperationType)
	if op == "" {
		op = domain.OperationCustom
	}
	if !op.IsDelta() {
		response.Error(w, http.StatusBadRequest, "Invalid operation type")
		return
	}

	counter, err := h.counterService.ApplyDelta(r.Context(), userID, counterID, req.Amount.Value, op)
	if err != nil {
		writeServiceError(w, "counter.UpdateValue", err)
		return
	}

	response.JSON(w, http.StatusOK, newCounterResponse(counter))
}

func (h *CounterHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, counterID, ok := h.identify(w, r)
	if !ok {
		return
	}

	counter, err := h.counterService.Reset(r.Context(), userID, counterID)
	if err != nil {
		writeServiceError(w, "counter.Reset", err)
		return
	}

	response.JSON(w, http.StatusOK, newCounterResponse(counter))
}

func (h *CounterHandler) AddButton(w http.ResponseWriter, r *http.Request) {
	userID, counterID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req AddButtonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Amount == nil {
		response.Error(w, http.StatusBadRequest, "Amount is required")
		return
	}
	label := req.Label
	if label == nil {
		label = req.Name
	}

	counter, err := h.counterService.AddButton(r.Context(), userID, counterID, req.Amount.Value, label)
	if err != nil {
		writeServiceError(w, "counter.AddButton", err)
		return
	}

	response.JSON(w, http.StatusOK, newCounterResponse(counter))
}

func (h *CounterHandler) RemoveButton(w http.ResponseWriter, r *http.Request) {
	userID, counterID, ok := h.identify(w, r)
	if !ok {
		return
	}

	buttonID, err := uuid.Parse(chi.URLParam(r, "buttonId"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "Button not found")
		return
	}

	counter, err := h.counterService.RemoveButton(r.Context(), userID, counterID, buttonID)
	if err != nil {
		writeServiceError(w, "counter.RemoveButton", err)
		return
	}

	response.JSON(w, http.StatusOK, newCounterResponse(counter))
}

func (h *CounterHandler) Personality(w http.ResponseWriter, r *http.Request) {
	userID, counterID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var amount *int64
	if raw := r.URL.Query().Get("amount"); raw != "" {
		v, err := parseAmount(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Amount must be an integer")
			return
		}
		amount = &v
	}

	p, err := h.counterService.Personality(r.Context(), userID, counterID, amount)
	if err != nil {
		writeServiceError(w, "counter.Personality", err)
		return
	}

	response.JSON(w, http.StatusOK, p)
}

// identify reads the caller and the {id} path parameter. A malformed id
// is reported like a missing counter.
func (h *CounterHandler) identify(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	counterID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "Counter not found")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, counterID, true
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errInvalidAmount) {
		response.Error(w, http.StatusBadRequest, "Amount must be an integer")
		return
	}
	response.Error(w, http.StatusBadRequest, "Invalid request body")
}
