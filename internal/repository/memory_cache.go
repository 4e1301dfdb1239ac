package repository

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"summarization-hub/internal/models"
)

// MemoryArtifactStore is an in-process LRU with per-entry expiry, used when
// Redis is not configured.
type MemoryArtifactStore struct {
	mu         sync.Mutex
	entries    map[uuid.UUID]*list.Element
	order      *list.List
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

type memoryEntry struct {
	artifact  *models.Artifact
	expiresAt time.Time
}

func NewMemoryArtifactStore(maxEntries int, ttl time.Duration) *MemoryArtifactStore {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &MemoryArtifactStore{
		entries:    make(map[uuid.UUID]*list.Element, maxEntries),
		order:      list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *MemoryArtifactStore) Save(_ context.Context, a *models.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expiresAt := now.Add(s.ttl)

	if elem, ok := s.entries[a.ID]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.artifact = a
		entry.expiresAt = expiresAt
		s.order.MoveToFront(elem)
		return nil
	}

	s.entries[a.ID] = s.order.PushFront(&memoryEntry{artifact: a, expiresAt: expiresAt})

	s.evictExpiredLocked(now)
	s.enforceSizeLimitLocked()
	return nil
}

func (s *MemoryArtifactStore) Get(_ context.Context, id uuid.UUID) (*models.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}

	entry := elem.Value.(*memoryEntry)
	if s.now().After(entry.expiresAt) {
		s.removeElement(elem)
		return nil, ErrNotFound
	}

	s.order.MoveToFront(elem)
	return entry.artifact, nil
}

func (s *MemoryArtifactStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryArtifactStore) evictExpiredLocked(now time.Time) {
	for elem := s.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*memoryEntry).expiresAt) {
			s.removeElement(elem)
		}
		elem = prev
	}
}

func (s *MemoryArtifactStore) enforceSizeLimitLocked() {
	for len(s.entries) > s.maxEntries {
		elem := s.order.Back()
		if elem == nil {
			return
		}
		s.removeElement(elem)
	}
}

func (s *MemoryArtifactStore) removeElement(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	delete(s.entries, entry.artifact.ID)
	s.order.Remove(elem)
}
