package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/NeroQue/academy-player/internal/client"
	"github.com/NeroQue/academy-player/internal/player"
	"github.com/NeroQue/academy-player/internal/services"
	"github.com/NeroQue/academy-player/pkg/session"
)

// Common response structures for consistency across all handlers
type ErrorResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// Helper functions for consistent response handling

// SendErrorResponse sends a consistent error response with logging
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, logMessage string, err error) {
	// Log the detailed error
	if err != nil {
		slog.Warn(logMessage, "status", statusCode, "error", err)
	} else {
		slog.Warn(logMessage, "status", statusCode)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Message: message,
		Success: false,
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		slog.Error("failed to encode error response", "error", encodeErr)
	}
}

// SendSuccessResponse sends a consistent success response with logging
func SendSuccessResponse(w http.ResponseWriter, message string, data interface{}, logMessage string) {
	sendData(w, http.StatusOK, message, data, logMessage)
}

// SendCreatedResponse sends a consistent response for created resources
func SendCreatedResponse(w http.ResponseWriter, message string, data interface{}, logMessage string) {
	sendData(w, http.StatusCreated, message, data, logMessage)
}

func sendData(w http.ResponseWriter, statusCode int, message string, data interface{}, logMessage string) {
	slog.Debug(logMessage)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := SuccessResponse{
		Message: message,
		Success: true,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// headers are gone already, nothing left but logging
		slog.Error("failed to encode response", "error", err)
	}
}

// SendFailure maps an error from the player stack onto a status code
func SendFailure(w http.ResponseWriter, logMessage string, err error) {
	status, message := classify(err)
	SendErrorResponse(w, message, status, logMessage, err)
}

func classify(err error) (int, string) {
	var apiErr *client.APIError
	var validation *ValidationError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, services.ErrEmptyToken),
		errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, player.ErrEmptyComment):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, client.ErrUnauthorized),
		errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrTokenExpired):
		return http.StatusUnauthorized, "Not logged in or session expired"
	case errors.Is(err, player.ErrLessonNotFound), errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound, "Lesson or course not found"
	case errors.Is(err, player.ErrToggleInFlight):
		return http.StatusConflict, "A change for this lesson is still being saved"
	case errors.Is(err, player.ErrNothingOpen):
		return http.StatusConflict, "No lesson is open"
	case errors.Is(err, player.ErrStaleResponse):
		return http.StatusConflict, "A newer request replaced this one"
	case errors.Is(err, player.ErrNoNextLesson):
		return http.StatusConflict, "This is the last lesson of the course"
	case errors.Is(err, player.ErrWriteFailed),
		errors.Is(err, player.ErrOutlineUnavailable),
		errors.As(err, &apiErr):
		return http.StatusBadGateway, "The academy backend could not complete the request"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

// ValidateJSONBody validates and decodes JSON request body
func ValidateJSONBody(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return &ValidationError{Message: "Request body is required"}
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields() // Strict validation

	if err := decoder.Decode(dest); err != nil {
		return &ValidationError{Message: "Invalid JSON format: " + err.Error()}
	}

	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
