package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"summarization-hub/internal/middleware"
	"summarization-hub/internal/models"
)

type artifactReader interface {
	Get(ctx context.Context, subject string, id uuid.UUID) (*models.Artifact, error)
	List(ctx context.Context, subject string, limit, offset int) ([]*models.Artifact, error)
}

type ArtifactHandler struct {
	artifacts artifactReader
}

func NewArtifactHandler(artifacts artifactReader) *ArtifactHandler {
	return &ArtifactHandler{artifacts: artifacts}
}

func (h *ArtifactHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.artifacts.List(r.Context(), middleware.GetSubject(r.Context()), limit, offset)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*models.Artifact{}
	}

	writeJSON(w, http.StatusOK, models.ArtifactListResponse{
		Items:  items,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *ArtifactHandler) Get(w http.ResponseWriter, r *http.Request) {
	artifact, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

// Download serves the artifact as a file. txt is the raw model output.
func (h *ArtifactHandler) Download(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "txt"
	}
	if format != "txt" && format != "json" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"format": "Format must be txt or json"}, r))
		return
	}

	artifact, ok := h.load(w, r)
	if !ok {
		return
	}

	var (
		body        []byte
		contentType string
	)
	if format == "json" {
		var err error
		body, err = json.MarshalIndent(downloadPayload(artifact), "", "  ")
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to encode artifact", r))
			return
		}
		contentType = "application/json"
	} else {
		body = []byte(artifact.Output)
		contentType = "text/plain; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, downloadName(artifact.Kind, format)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *ArtifactHandler) load(w http.ResponseWriter, r *http.Request) (*models.Artifact, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid artifact ID", r))
		return nil, false
	}

	artifact, err := h.artifacts.Get(r.Context(), middleware.GetSubject(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}
	return artifact, true
}

func downloadName(kind models.ArtifactKind, format string) string {
	switch kind {
	case models.KindQuiz:
		return "generated_quiz." + format
	case models.KindFlashcards:
		return "flashcards." + format
	default:
		return "summary." + format
	}
}

func downloadPayload(a *models.Artifact) interface{} {
	switch a.Kind {
	case models.KindFlashcards:
		if a.Flashcards == nil {
			return []models.Flashcard{}
		}
		return a.Flashcards
	case models.KindQuiz:
		if a.Questions == nil {
			return []models.QuizQuestion{}
		}
		return a.Questions
	default:
		return map[string]string{"summary": a.Output}
	}
}
