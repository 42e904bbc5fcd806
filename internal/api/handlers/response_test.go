package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeroQue/academy-player/internal/client"
	"github.com/NeroQue/academy-player/internal/player"
	"github.com/NeroQue/academy-player/pkg/session"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ValidationError{Message: "bad"}, http.StatusBadRequest},
		{"unauthorized", fmt.Errorf("get lesson: %w", client.ErrUnauthorized), http.StatusUnauthorized},
		{"no session", session.ErrNoSession, http.StatusUnauthorized},
		{"lesson missing", fmt.Errorf("%w: l9", player.ErrLessonNotFound), http.StatusNotFound},
		{"in flight", player.ErrToggleInFlight, http.StatusConflict},
		{"write failed", fmt.Errorf("%w: boom", player.ErrWriteFailed), http.StatusBadGateway},
		{"backend status", &client.APIError{StatusCode: 503, Message: "down"}, http.StatusBadGateway},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := classify(tt.err)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, message)
		})
	}
}

func TestSendFailureEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	SendFailure(rec, "test", player.ErrNothingOpen)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "No lesson is open", body.Message)
}
