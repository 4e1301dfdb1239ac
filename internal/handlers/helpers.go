package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"summarization-hub/internal/models"
	"summarization-hub/internal/services"
)

// eventSource hands out a progress sink for a subject. The websocket hub implements it.
type eventSource interface {
	Sink(ctx context.Context, subject string) services.EventSink
}

func sinkFor(ctx context.Context, events eventSource, subject string) services.EventSink {
	if events == nil {
		return nil
	}
	return events.Sink(ctx, subject)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// classifyError maps a service error to its HTTP status, code and user-facing message.
func classifyError(err error) (int, string, string) {
	var (
		validation  *services.ValidationError
		invalidURL  *services.InvalidURLError
		resolution  *services.ResolutionError
		extraction  *services.ExtractionError
		generation  *services.GenerationError
		notFound    *services.NotFoundError
		unavailable *services.UnavailableError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed"
	case errors.As(err, &invalidURL):
		return http.StatusBadRequest, "INVALID_URL", "Invalid YouTube URL. Please enter a valid YouTube URL."
	case errors.As(err, &resolution):
		return http.StatusUnprocessableEntity, "RESOLUTION_FAILED", "Could not extract video ID from URL. Please check the URL format."
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity, "EXTRACTION_FAILED", fmt.Sprintf("Error extracting text from PDF: %v", extraction.Err)
	case errors.As(err, &generation):
		return http.StatusBadGateway, "GENERATION_FAILED", "Error with the language model. Please try again."
	case errors.As(err, &notFound):
		return http.StatusNotFound, "NOT_FOUND", notFound.Message
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, "HISTORY_DISABLED", unavailable.Message
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classifyError(err)

	var validation *services.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, status, errorRespWithFields(code, message, validation.Fields, r))
		return
	}
	writeJSON(w, status, errorResp(code, message, r))
}

// failRequest reports err on the progress stream and as the HTTP response.
func failRequest(w http.ResponseWriter, r *http.Request, events services.EventSink, err error) {
	if events != nil {
		_, code, message := classifyError(err)
		events(models.PipelineEvent{
			Type:    models.EventError,
			Message: message,
			Failure: &models.ErrorEvent{ErrorCode: code, ErrorMessage: message},
		})
	}
	handleServiceError(w, r, err)
}
