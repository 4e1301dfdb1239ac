package models

import "strings"

type ArtifactKind string

const (
	KindSummary    ArtifactKind = "summary"
	KindQuiz       ArtifactKind = "quiz"
	KindFlashcards ArtifactKind = "flashcards"
)

func (k ArtifactKind) Valid() bool {
	switch k {
	case KindSummary, KindQuiz, KindFlashcards:
		return true
	}
	return false
}

type LengthTier string

const (
	LengthShort  LengthTier = "short"
	LengthMedium LengthTier = "medium"
	LengthLong   LengthTier = "long"
)

// ParseLengthTier accepts the tier names case-insensitively. Empty input is medium.
func ParseLengthTier(s string) (LengthTier, bool) {
	switch LengthTier(strings.ToLower(strings.TrimSpace(s))) {
	case "", LengthMedium:
		return LengthMedium, true
	case LengthShort:
		return LengthShort, true
	case LengthLong:
		return LengthLong, true
	}
	return LengthMedium, false
}

const (
	MinQuizQuestions     = 3
	MaxQuizQuestions     = 10
	DefaultQuizQuestions = 5

	MinFlashcards     = 5
	MaxFlashcards     = 20
	DefaultFlashcards = 10
)

// GenerationRequest is what the pipeline turns into a prompt.
// Length applies to summaries, ItemCount to quizzes and flashcards.
type GenerationRequest struct {
	Kind      ArtifactKind
	Content   string
	Length    LengthTier
	ItemCount int
}

type GenerateSummaryRequest struct {
	Content     string `json:"content"`
	Length      string `json:"length"`
	SourceKind  string `json:"source"`
	SourceTitle string `json:"source_title"`
}
