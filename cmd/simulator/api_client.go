package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Counter struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	CurrentCount  int64          `json:"currentCount"`
	CustomButtons []CustomButton `json:"customButtons"`
}

type CustomButton struct {
	ID     string  `json:"id"`
	Amount int64   `json:"amount"`
	Label  *string `json:"label"`
}

type ActiveUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// RegisterUser creates a new user account with a unique name
func (c *APIClient) RegisterUser(baseName string) (*User, string, error) {
	username := fmt.Sprintf("%s_%d", baseName, time.Now().UnixNano()%100000)

	body := map[string]string{
		"username": username,
		"email":    username + "@simulator.local",
		"password": "testpassword123",
	}

	var result AuthResponse
	if err := c.do(http.MethodPost, "/users/register", "", body, http.StatusCreated, &result); err != nil {
		return nil, "", fmt.Errorf("register failed: %w", err)
	}
	return &result.User, result.Token, nil
}

// DefaultCounter returns the user's counter, creating it on first use
func (c *APIClient) DefaultCounter(token string) (*Counter, error) {
	var counter Counter
	if err := c.do(http.MethodGet, "/counters/default", token, nil, http.StatusOK, &counter); err != nil {
		return nil, err
	}
	return &counter, nil
}

// UpdateValue applies amount to the counter
func (c *APIClient) UpdateValue(token, counterID string, amount int64, operationType string) (*Counter, error) {
	body := map[string]interface{}{
		"amount":        amount,
		"operationType": operationType,
	}

	var counter Counter
	if err := c.do(http.MethodPut, "/counters/"+counterID+"/value", token, body, http.StatusOK, &counter); err != nil {
		return nil, err
	}
	return &counter, nil
}

// Reset zeroes the counter
func (c *APIClient) Reset(token, counterID string) (*Counter, error) {
	var counter Counter
	if err := c.do(http.MethodPut, "/counters/"+counterID+"/reset", token, nil, http.StatusOK, &counter); err != nil {
		return nil, err
	}
	return &counter, nil
}

// AddButton saves a custom button on the counter
func (c *APIClient) AddButton(token, counterID string, amount int64, label string) (*Counter, error) {
	body := map[string]interface{}{
		"amount": amount,
		"label":  label,
	}

	var counter Counter
	if err := c.do(http.MethodPost, "/counters/"+counterID+"/buttons", token, body, http.StatusOK, &counter); err != nil {
		return nil, err
	}
	return &counter, nil
}

// Heartbeat marks the user active
func (c *APIClient) Heartbeat(token string) error {
	return c.do(http.MethodPut, "/users/activity", token, nil, http.StatusOK, nil)
}

// MarkInactive marks the user as gone
func (c *APIClient) MarkInactive(token string) error {
	return c.do(http.MethodPut, "/users/inactive", token, nil, http.StatusOK, nil)
}

// ActiveUsers lists the other users currently online
func (c *APIClient) ActiveUsers(token string) ([]ActiveUser, error) {
	var users []ActiveUser
	if err := c.do(http.MethodGet, "/users/active", token, nil, http.StatusOK, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// do sends a request and decodes the envelope data into out when out is non-nil
func (c *APIClient) do(method, path, token string, body interface{}, wantStatus int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: failed to decode response (status %d): %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode != wantStatus || !env.Success {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, env.Error)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
