package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the shape of every API response body
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// DecodeEnvelope reads the response body as an envelope
func DecodeEnvelope(t *testing.T, resp *http.Response) Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env), "failed to unmarshal response: %s", string(body))
	return env
}

// DecodeData verifies a successful envelope and decodes its data into v
func DecodeData(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	env := DecodeEnvelope(t, resp)
	require.True(t, env.Success, "expected success, got error %q", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, v), "failed to unmarshal data: %s", string(env.Data))
}

// AssertErrorResponse verifies a failed envelope with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	env := DecodeEnvelope(t, resp)
	assert.False(t, env.Success, "expected success=false")
	assert.Contains(t, env.Error, expectedMessage, "error message mismatch")
}

// AssertReplays checks that a history replays from zero to want
func AssertReplays(t *testing.T, history []HistoryEntryView, want int64) {
	t.Helper()

	var value int64
	for i, e := range history {
		require.Equal(t, value, e.PreviousValue, "entry %d does not continue from the previous value", i)
		value = e.NewValue
	}
	assert.Equal(t, want, value, "history does not replay to the current count")
}

// HistoryEntryView is the client view of a history entry
type HistoryEntryView struct {
	ID            string `json:"id"`
	OperationType string `json:"operationType"`
	Amount        int64  `json:"amount"`
	PreviousValue int64  `json:"previousValue"`
	NewValue      int64  `json:"newValue"`
}

// CounterView is the client view of a counter
type CounterView struct {
	ID            string             `json:"id"`
	UserID        string             `json:"userId"`
	Name          string             `json:"name"`
	CurrentCount  int64              `json:"currentCount"`
	LastOperation *string            `json:"lastOperation"`
	Version       int64              `json:"version"`
	History       []HistoryEntryView `json:"history"`
	CustomButtons []struct {
		ID     string  `json:"id"`
		Amount int64   `json:"amount"`
		Label  *string `json:"label"`
		Order  int     `json:"order"`
	} `json:"customButtons"`
}
