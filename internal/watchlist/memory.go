package watchlist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a development and test implementation of Store.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[string]Item // id -> item
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{items: make(map[string]Item)}
}

func (s *InMemoryStore) Add(_ context.Context, it Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.UserID == it.UserID && existing.MalID == it.MalID {
			return Item{}, ErrDuplicate
		}
	}

	it.ID = uuid.NewString()
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now
	s.items[it.ID] = it
	return it, nil
}

func (s *InMemoryStore) List(_ context.Context, userID, status string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Item{}
	for _, it := range s.items {
		if it.UserID != userID {
			continue
		}
		if status != "" && it.Status != status {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, itemID string, upd Update) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID]
	if !ok {
		return Item{}, ErrNotFound
	}

	if upd.Status != nil {
		it.Status = *upd.Status
	}
	if upd.CurrentEpisode != nil {
		it.CurrentEpisode = *upd.CurrentEpisode
	}
	if upd.Score != nil {
		it.Score = upd.Score
	}
	if upd.Notes != nil {
		it.Notes = upd.Notes
	}
	if upd.FinishDate != nil {
		it.FinishDate = upd.FinishDate
	}

	// Guard against coarse clocks so updated_at strictly increases.
	now := time.Now().UTC()
	if !now.After(it.UpdatedAt) {
		now = it.UpdatedAt.Add(time.Microsecond)
	}
	it.UpdatedAt = now

	s.items[itemID] = it
	return it, nil
}

func (s *InMemoryStore) Remove(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}
