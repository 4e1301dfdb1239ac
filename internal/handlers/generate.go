package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"summarization-hub/internal/middleware"
	"summarization-hub/internal/models"
	"summarization-hub/internal/services"
)

type artifactCreator interface {
	Create(ctx context.Context, subject string, source models.SourceMeta, req models.GenerationRequest, events services.EventSink) (*models.Artifact, error)
}

type GenerateHandler struct {
	artifacts artifactCreator
	events    eventSource
}

func NewGenerateHandler(artifacts artifactCreator, events eventSource) *GenerateHandler {
	return &GenerateHandler{artifacts: artifacts, events: events}
}

func (h *GenerateHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	checkContent(fields, req.Content)
	length, ok := models.ParseLengthTier(req.Length)
	if !ok {
		fields["length"] = "Length must be short, medium, or long"
	}
	source := parseSource(fields, req.SourceKind, req.SourceTitle)
	if len(fields) > 0 {
		handleServiceError(w, r, &services.ValidationError{Fields: fields})
		return
	}

	h.create(w, r, source, models.GenerationRequest{
		Kind:    models.KindSummary,
		Content: req.Content,
		Length:  length,
	})
}

func (h *GenerateHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	checkContent(fields, req.Content)
	count := checkCount(fields, "num_questions", req.NumQuestions,
		models.MinQuizQuestions, models.MaxQuizQuestions, models.DefaultQuizQuestions)
	source := parseSource(fields, req.SourceKind, req.SourceTitle)
	if len(fields) > 0 {
		handleServiceError(w, r, &services.ValidationError{Fields: fields})
		return
	}

	h.create(w, r, source, models.GenerationRequest{
		Kind:      models.KindQuiz,
		Content:   req.Content,
		ItemCount: count,
	})
}

func (h *GenerateHandler) Flashcards(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	checkContent(fields, req.Content)
	count := checkCount(fields, "num_cards", req.NumCards,
		models.MinFlashcards, models.MaxFlashcards, models.DefaultFlashcards)
	source := parseSource(fields, req.SourceKind, req.SourceTitle)
	if len(fields) > 0 {
		handleServiceError(w, r, &services.ValidationError{Fields: fields})
		return
	}

	h.create(w, r, source, models.GenerationRequest{
		Kind:      models.KindFlashcards,
		Content:   req.Content,
		ItemCount: count,
	})
}

func (h *GenerateHandler) create(w http.ResponseWriter, r *http.Request, source models.SourceMeta, req models.GenerationRequest) {
	subject := middleware.GetSubject(r.Context())
	stream := sinkFor(r.Context(), h.events, subject)

	artifact, err := h.artifacts.Create(r.Context(), subject, source, req, stream)
	if err != nil {
		failRequest(w, r, stream, err)
		return
	}

	writeJSON(w, http.StatusCreated, artifact)
}

func checkContent(fields map[string]string, content string) {
	if strings.TrimSpace(content) == "" {
		fields["content"] = "Content is required"
	}
}

// checkCount applies the default for a missing count and range-checks the rest.
func checkCount(fields map[string]string, name string, n, lo, hi, def int) int {
	if n == 0 {
		return def
	}
	if n < lo || n > hi {
		fields[name] = fmt.Sprintf("Must be between %d and %d", lo, hi)
	}
	return n
}

func parseSource(fields map[string]string, kind, title string) models.SourceMeta {
	meta := models.SourceMeta{Kind: models.SourceText, Title: strings.TrimSpace(title)}
	switch models.SourceKind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", models.SourceText:
	case models.SourcePDF:
		meta.Kind = models.SourcePDF
	case models.SourceYouTube:
		meta.Kind = models.SourceYouTube
	default:
		fields["source"] = "Source must be text, pdf, or youtube"
	}
	return meta
}
