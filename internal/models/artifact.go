package models

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is one generated summary, quiz, or flashcard set.
type Artifact struct {
	ID           uuid.UUID      `json:"id"`
	Subject      string         `json:"subject"`
	Kind         ArtifactKind   `json:"kind"`
	Source       SourceKind     `json:"source,omitempty"`
	SourceTitle  string         `json:"source_title,omitempty"`
	Length       LengthTier     `json:"length,omitempty"`
	ItemCount    int            `json:"item_count,omitempty"`
	Output       string         `json:"output"`
	Flashcards   []Flashcard    `json:"flashcards,omitempty"`
	Questions    []QuizQuestion `json:"questions,omitempty"`
	ContentChars int            `json:"content_chars"`
	CreatedAt    time.Time      `json:"created_at"`
}

// SourceMeta describes where the generated content came from.
type SourceMeta struct {
	Kind  SourceKind
	Title string
}

type ArtifactListResponse struct {
	Items  []*Artifact `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

type EventType string

const (
	EventStatus    EventType = "status"
	EventWarning   EventType = "warning"
	EventInfo      EventType = "info"
	EventCompleted EventType = "completed"
	EventError     EventType = "error"
)

// PipelineEvent reports progress while a request runs. Completed and Failure
// carry the structured payload of completed and error events.
type PipelineEvent struct {
	Type      EventType       `json:"type"`
	Step      string          `json:"step,omitempty"`
	Message   string          `json:"message"`
	Completed *CompletedEvent `json:"-"`
	Failure   *ErrorEvent     `json:"-"`
}

// WSPayload is what a socket receives for the event.
func (e PipelineEvent) WSPayload() interface{} {
	switch {
	case e.Completed != nil:
		return e.Completed
	case e.Failure != nil:
		return e.Failure
	}
	return e
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type CompletedEvent struct {
	ArtifactID uuid.UUID    `json:"artifact_id"`
	Kind       ArtifactKind `json:"kind"`
}

type ErrorEvent struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
