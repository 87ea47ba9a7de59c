package in_mem

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/storage"
	"github.com/google/uuid"
)

type InMemStorer struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]storage.Record
	now         func() time.Time
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		storage: make(map[uuid.UUID]storage.Record),
		now:     time.Now,
	}
}

func (s *InMemStorer) Save(_ context.Context, rec storage.Record) (uuid.UUID, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	rec = rec.Prepare(s.now())
	if _, exists := s.storage[rec.ID]; exists {
		return uuid.Nil, fmt.Errorf("evaluation %s already stored", rec.ID)
	}
	s.storage[rec.ID] = rec

	slog.Debug("Evaluation stored in memory", "id", rec.ID, "task", rec.Task, "participant", rec.Participant)
	return rec.ID, nil
}

func (s *InMemStorer) Get(_ context.Context, id uuid.UUID) (storage.Record, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	rec, ok := s.storage[id]
	if !ok {
		return storage.Record{}, fmt.Errorf("evaluation %s: %w", id, storage.ErrNotFound)
	}
	return rec, nil
}

func (s *InMemStorer) Leaderboard(_ context.Context, task annotation.Task, round annotation.Round, limit int) ([]storage.Record, error) {
	s.storageLock.RLock()
	matching := make([]storage.Record, 0, len(s.storage))
	for _, rec := range s.storage {
		if rec.Task == task && rec.Round == round {
			matching = append(matching, rec)
		}
	}
	s.storageLock.RUnlock()

	return storage.BestPerParticipant(matching, limit), nil
}
