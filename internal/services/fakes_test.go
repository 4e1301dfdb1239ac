package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"summarization-hub/internal/models"
	"summarization-hub/internal/repository"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (g *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeMetadata struct {
	meta  *VideoMetadata
	err   error
	calls int
	ids   []string
}

func (f *fakeMetadata) FetchMetadata(_ context.Context, videoID string) (*VideoMetadata, error) {
	f.calls++
	f.ids = append(f.ids, videoID)
	return f.meta, f.err
}

type fakeTranscripts struct {
	fragments []string
	err       error
	calls     int
}

func (f *fakeTranscripts) FetchTranscript(_ context.Context, _ string) ([]string, error) {
	f.calls++
	return f.fragments, f.err
}

type fakeStore struct {
	items   map[uuid.UUID]*models.Artifact
	saveErr error
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[uuid.UUID]*models.Artifact{}}
}

func (s *fakeStore) Save(_ context.Context, a *models.Artifact) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items[a.ID] = a
	return nil
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID) (*models.Artifact, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if a, ok := s.items[id]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

type fakeHistory struct {
	items     []*models.Artifact
	insertErr error
}

func (h *fakeHistory) Insert(_ context.Context, a *models.Artifact) error {
	if h.insertErr != nil {
		return h.insertErr
	}
	// history keeps the raw output only
	stored := *a
	stored.Flashcards = nil
	stored.Questions = nil
	h.items = append(h.items, &stored)
	return nil
}

func (h *fakeHistory) GetByID(_ context.Context, id uuid.UUID) (*models.Artifact, error) {
	for _, a := range h.items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (h *fakeHistory) ListBySubject(_ context.Context, subject string, limit, offset int) ([]*models.Artifact, error) {
	var out []*models.Artifact
	for _, a := range h.items {
		if a.Subject == subject {
			out = append(out, a)
		}
	}
	if offset >= len(out) {
		return []*models.Artifact{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var errUpstream = errors.New("upstream unavailable")

// recordEvents returns a sink and a pointer to everything it received.
func recordEvents() (EventSink, *[]models.PipelineEvent) {
	var events []models.PipelineEvent
	return func(ev models.PipelineEvent) { events = append(events, ev) }, &events
}
