package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"summarization-hub/internal/models"
	"summarization-hub/internal/repository"
)

// ArtifactStore keeps recent artifacts around for download.
type ArtifactStore interface {
	Save(ctx context.Context, a *models.Artifact) error
	Get(ctx context.Context, id uuid.UUID) (*models.Artifact, error)
}

// ArtifactHistory is the durable record of generated artifacts.
type ArtifactHistory interface {
	Insert(ctx context.Context, a *models.Artifact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artifact, error)
	ListBySubject(ctx context.Context, subject string, limit, offset int) ([]*models.Artifact, error)
}

type ArtifactService struct {
	pipeline *Pipeline
	store    ArtifactStore
	history  ArtifactHistory
	logger   *zap.Logger
	now      func() time.Time
}

// NewArtifactService wires the generation flow. history may be nil.
func NewArtifactService(pipeline *Pipeline, store ArtifactStore, history ArtifactHistory, logger *zap.Logger) *ArtifactService {
	return &ArtifactService{
		pipeline: pipeline,
		store:    store,
		history:  history,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ArtifactService) HistoryEnabled() bool {
	return s.history != nil
}

// Create generates an artifact for req and records it. Storage failures are
// logged and reported as warnings; only generation failures are returned.
func (s *ArtifactService) Create(ctx context.Context, subject string, source models.SourceMeta, req models.GenerationRequest, events EventSink) (*models.Artifact, error) {
	if !req.Kind.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"kind": "Kind must be summary, quiz, or flashcards"}}
	}

	out, err := s.pipeline.Generate(ctx, req, events)
	if err != nil {
		return nil, err
	}

	a := &models.Artifact{
		ID:           uuid.New(),
		Subject:      subject,
		Kind:         req.Kind,
		Source:       source.Kind,
		SourceTitle:  source.Title,
		Output:       out,
		ContentChars: utf8.RuneCountInString(req.Content),
		CreatedAt:    s.now().UTC(),
	}
	if req.Kind == models.KindSummary {
		a.Length = req.Length
	} else {
		a.ItemCount = req.ItemCount
	}
	s.attachParsed(a)

	log := s.logger.With(zap.String("artifact_id", a.ID.String()), zap.String("kind", string(a.Kind)))

	if err := s.store.Save(ctx, a); err != nil {
		log.Error("failed to cache artifact", zap.Error(err))
		events.warn("store", "The result could not be saved for download.")
	}

	if s.history != nil {
		if err := s.history.Insert(ctx, a); err != nil {
			log.Error("failed to record artifact history", zap.Error(err))
		}
	}

	if events != nil {
		events(models.PipelineEvent{
			Type:      models.EventCompleted,
			Step:      "done",
			Message:   "Your " + string(a.Kind) + " is ready.",
			Completed: &models.CompletedEvent{ArtifactID: a.ID, Kind: a.Kind},
		})
	}
	return a, nil
}

// attachParsed fills the structured view of the raw output.
func (s *ArtifactService) attachParsed(a *models.Artifact) {
	switch a.Kind {
	case models.KindFlashcards:
		a.Flashcards = ParseFlashcards(a.Output)
		if headers := countCardHeaders(a.Output); headers > len(a.Flashcards) {
			s.logger.Debug("dropped incomplete flashcards",
				zap.Int("headers", headers),
				zap.Int("parsed", len(a.Flashcards)),
			)
		}
	case models.KindQuiz:
		a.Questions = ParseQuiz(a.Output)
	}
}

func countCardHeaders(raw string) int {
	n := 0
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "CARD") {
			n++
		}
	}
	return n
}

// Get looks in the download cache first, then in history.
func (s *ArtifactService) Get(ctx context.Context, subject string, id uuid.UUID) (*models.Artifact, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil && s.history != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("artifact cache read failed, falling back to history",
				zap.String("artifact_id", id.String()),
				zap.Error(err),
			)
		}
		a, err = s.history.GetByID(ctx, id)
		if err == nil {
			s.attachParsed(a)
		}
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Artifact not found"}
	}
	if err != nil {
		return nil, err
	}

	if a.Subject != subject {
		return nil, &NotFoundError{Message: "Artifact not found"}
	}
	return a, nil
}

func (s *ArtifactService) List(ctx context.Context, subject string, limit, offset int) ([]*models.Artifact, error) {
	if !s.HistoryEnabled() {
		return nil, &UnavailableError{Message: "History is not enabled on this server"}
	}

	items, err := s.history.ListBySubject(ctx, subject, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, a := range items {
		s.attachParsed(a)
	}
	return items, nil
}
