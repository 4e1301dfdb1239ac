package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"summarization-hub/internal/middleware"
	"summarization-hub/internal/models"
	"summarization-hub/internal/services"
)

type contentExtractor interface {
	ExtractText(ctx context.Context, src models.ContentSource, events services.EventSink) (*services.Extraction, error)
}

type ContentHandler struct {
	pipeline       contentExtractor
	events         eventSource
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewContentHandler builds the extraction endpoints. events may be nil.
func NewContentHandler(pipeline contentExtractor, events eventSource, maxUploadBytes int64, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		pipeline:       pipeline,
		events:         events,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *ContentHandler) Text(w http.ResponseWriter, r *http.Request) {
	var req models.ExtractTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		handleServiceError(w, r, &services.ValidationError{Fields: map[string]string{"text": "Text is required"}})
		return
	}

	h.extract(w, r, models.TextSource(req.Text), "")
}

func (h *ContentHandler) PDF(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", h.tooLargeMessage(), r))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", h.tooLargeMessage(), r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		handleServiceError(w, r, &services.ValidationError{Fields: map[string]string{"file": "Only PDF files are supported"}})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Warn("failed to read upload", zap.String("filename", header.Filename), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not read uploaded file", r))
		return
	}

	h.extract(w, r, models.PDFSource(data), strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)))
}

func (h *ContentHandler) YouTube(w http.ResponseWriter, r *http.Request) {
	var req models.ExtractYouTubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		handleServiceError(w, r, &services.ValidationError{Fields: map[string]string{"url": "URL is required"}})
		return
	}

	h.extract(w, r, models.YouTubeSource(url), "")
}

func (h *ContentHandler) extract(w http.ResponseWriter, r *http.Request, src models.ContentSource, title string) {
	subject := middleware.GetSubject(r.Context())
	stream := sinkFor(r.Context(), h.events, subject)
	warnings := []string{}

	result, err := h.pipeline.ExtractText(r.Context(), src, services.Collect(&warnings, stream))
	if err != nil {
		failRequest(w, r, stream, err)
		return
	}

	if strings.TrimSpace(result.Content) == "" {
		warnings = append(warnings, "No text could be extracted from this source.")
	}

	resp := models.ExtractResponse{
		Source:   src.Kind,
		Content:  result.Content,
		Title:    title,
		Video:    result.Video,
		Warnings: warnings,
	}
	if result.Video != nil {
		resp.Title = result.Video.Title
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ContentHandler) tooLargeMessage() string {
	return fmt.Sprintf("File size exceeds %dMB limit", h.maxUploadBytes/(1024*1024))
}
