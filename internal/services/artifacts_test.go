package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"summarization-hub/internal/models"
)

const flashcardReply = "CARD 1\nFront: Osmosis\nBack: Diffusion of water\nCARD 2\nFront: Half card\n"

func newTestArtifactService(gen *fakeGenerator, store *fakeStore, history ArtifactHistory) *ArtifactService {
	svc := NewArtifactService(newTestPipeline(&fakeMetadata{}, &fakeTranscripts{}, gen), store, history, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestArtifactService_CreateFlashcards(t *testing.T) {
	store := newFakeStore()
	history := &fakeHistory{}
	svc := newTestArtifactService(&fakeGenerator{reply: flashcardReply}, store, history)
	sink, events := recordEvents()

	a, err := svc.Create(context.Background(), "user-1",
		models.SourceMeta{Kind: models.SourceText, Title: "Biology"},
		models.GenerationRequest{Kind: models.KindFlashcards, Content: "cells", ItemCount: 5},
		sink,
	)
	require.NoError(t, err)

	assert.Equal(t, flashcardReply, a.Output)
	assert.Equal(t, []models.Flashcard{{Front: "Osmosis", Back: "Diffusion of water"}}, a.Flashcards)
	assert.Equal(t, 5, a.ItemCount)
	assert.Empty(t, a.Length)
	assert.Equal(t, 5, a.ContentChars)
	assert.Equal(t, "user-1", a.Subject)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), a.CreatedAt)

	assert.Contains(t, store.items, a.ID)
	require.Len(t, history.items, 1)

	last := (*events)[len(*events)-1]
	assert.Equal(t, models.EventCompleted, last.Type)
	require.NotNil(t, last.Completed)
	assert.Equal(t, models.CompletedEvent{ArtifactID: a.ID, Kind: models.KindFlashcards}, *last.Completed)
}

func TestArtifactService_CreateQuiz(t *testing.T) {
	reply := "Q1: 2+2?\nA: 3\nB: 4\nC: 5\nD: 6\nCorrect Answer: B\nExplanation: arithmetic"
	svc := newTestArtifactService(&fakeGenerator{reply: reply}, newFakeStore(), nil)

	a, err := svc.Create(context.Background(), "user-1", models.SourceMeta{Kind: models.SourceText},
		models.GenerationRequest{Kind: models.KindQuiz, Content: "math", ItemCount: 3}, nil)
	require.NoError(t, err)

	require.Len(t, a.Questions, 1)
	assert.Equal(t, "B", a.Questions[0].CorrectAnswer)
	assert.Nil(t, a.Flashcards)
}

func TestArtifactService_CreateSummaryKeepsLength(t *testing.T) {
	svc := newTestArtifactService(&fakeGenerator{reply: "Short."}, newFakeStore(), nil)

	a, err := svc.Create(context.Background(), "user-1", models.SourceMeta{Kind: models.SourcePDF},
		models.GenerationRequest{Kind: models.KindSummary, Content: "long text", Length: models.LengthShort}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.LengthShort, a.Length)
	assert.Zero(t, a.ItemCount)
	assert.Equal(t, "Short.", a.Output)
}

func TestArtifactService_StorageFailuresAreNotFatal(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("redis down")
	history := &fakeHistory{insertErr: errors.New("postgres down")}
	svc := newTestArtifactService(&fakeGenerator{reply: "ok"}, store, history)

	var warnings []string
	a, err := svc.Create(context.Background(), "user-1", models.SourceMeta{Kind: models.SourceText},
		models.GenerationRequest{Kind: models.KindSummary, Content: "x"}, Collect(&warnings, nil))

	require.NoError(t, err)
	assert.Equal(t, "ok", a.Output)
	assert.Equal(t, []string{"The result could not be saved for download."}, warnings)
}

func TestArtifactService_GenerationFailure(t *testing.T) {
	store := newFakeStore()
	svc := newTestArtifactService(&fakeGenerator{err: errUpstream}, store, nil)

	_, err := svc.Create(context.Background(), "user-1", models.SourceMeta{Kind: models.SourceText},
		models.GenerationRequest{Kind: models.KindSummary, Content: "x"}, nil)

	var genErr *GenerationError
	assert.True(t, errors.As(err, &genErr))
	assert.Empty(t, store.items)
}

func TestArtifactService_Get(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	history := &fakeHistory{}
	svc := newTestArtifactService(&fakeGenerator{reply: flashcardReply}, store, history)

	a, err := svc.Create(ctx, "owner", models.SourceMeta{Kind: models.SourceText},
		models.GenerationRequest{Kind: models.KindFlashcards, Content: "x", ItemCount: 5}, nil)
	require.NoError(t, err)

	t.Run("from cache", func(t *testing.T) {
		got, err := svc.Get(ctx, "owner", a.ID)
		require.NoError(t, err)
		assert.Same(t, a, got)
	})

	t.Run("other subject", func(t *testing.T) {
		_, err := svc.Get(ctx, "intruder", a.ID)
		var nf *NotFoundError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("history reparses after cache expiry", func(t *testing.T) {
		delete(store.items, a.ID)

		got, err := svc.Get(ctx, "owner", a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.Flashcards, got.Flashcards)
	})

	t.Run("history serves reads while the cache is down", func(t *testing.T) {
		store.items[a.ID] = a
		store.getErr = errors.New("redis: connection refused")
		defer func() { store.getErr = nil }()

		got, err := svc.Get(ctx, "owner", a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, a.Flashcards, got.Flashcards)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Get(ctx, "owner", uuid.New())
		var nf *NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

func TestArtifactService_GetWithoutHistory(t *testing.T) {
	svc := newTestArtifactService(&fakeGenerator{}, newFakeStore(), nil)

	_, err := svc.Get(context.Background(), "owner", uuid.New())
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestArtifactService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("history disabled", func(t *testing.T) {
		svc := newTestArtifactService(&fakeGenerator{}, newFakeStore(), nil)
		assert.False(t, svc.HistoryEnabled())

		_, err := svc.List(ctx, "owner", 20, 0)
		var unavailable *UnavailableError
		assert.True(t, errors.As(err, &unavailable))
	})

	t.Run("scoped to subject", func(t *testing.T) {
		history := &fakeHistory{}
		svc := newTestArtifactService(&fakeGenerator{reply: "text"}, newFakeStore(), history)
		for _, subject := range []string{"a", "b", "a"} {
			_, err := svc.Create(ctx, subject, models.SourceMeta{Kind: models.SourceText},
				models.GenerationRequest{Kind: models.KindSummary, Content: "x"}, nil)
			require.NoError(t, err)
		}

		items, err := svc.List(ctx, "a", 20, 0)
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = svc.List(ctx, "a", 20, 5)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestArtifactService_GetCacheErrorWithoutHistory(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("redis: connection refused")
	svc := newTestArtifactService(&fakeGenerator{}, store, nil)

	_, err := svc.Get(context.Background(), "owner", uuid.New())
	assert.EqualError(t, err, "redis: connection refused")
}

func TestArtifactService_ListReparsesStructuredOutput(t *testing.T) {
	ctx := context.Background()
	history := &fakeHistory{}
	svc := newTestArtifactService(&fakeGenerator{reply: "CARD 1\nFront: a\nBack: b"}, newFakeStore(), history)

	_, err := svc.Create(ctx, "owner", models.SourceMeta{Kind: models.SourceText},
		models.GenerationRequest{Kind: models.KindFlashcards, Content: "x", ItemCount: 5}, nil)
	require.NoError(t, err)

	items, err := svc.List(ctx, "owner", 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []models.Flashcard{{Front: "a", Back: "b"}}, items[0].Flashcards)
}

func TestArtifactService_CreateRejectsUnknownKind(t *testing.T) {
	gen := &fakeGenerator{reply: "text"}
	svc := newTestArtifactService(gen, newFakeStore(), nil)

	_, err := svc.Create(context.Background(), "owner", models.SourceMeta{Kind: models.SourceText},
		models.GenerationRequest{Kind: "essay", Content: "x"}, nil)

	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Contains(t, validation.Fields, "kind")
	assert.Zero(t, gen.calls())
}
