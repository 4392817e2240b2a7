package watchlist

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryStore_AddAssignsIDAndTimestamps(t *testing.T) {
	s := NewInMemoryStore()
	got, err := s.Add(context.Background(), Item{UserID: "u1", MalID: 20, AnimeTitle: "Naruto", Status: StatusWatching})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.ID == "" {
		t.Fatal("expected generated id")
	}
	if got.CreatedAt.IsZero() || !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("expected created_at == updated_at, got %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestInMemoryStore_DuplicatePairRejected(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	if _, err := s.Add(ctx, Item{UserID: "u1", MalID: 20, AnimeTitle: "Naruto", Status: StatusWatching}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	_, err := s.Add(ctx, Item{UserID: "u1", MalID: 20, AnimeTitle: "Naruto again", Status: StatusCompleted})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same title for a different user is fine.
	if _, err := s.Add(ctx, Item{UserID: "u2", MalID: 20, AnimeTitle: "Naruto", Status: StatusWatching}); err != nil {
		t.Fatalf("other user add: %v", err)
	}

	items, err := s.List(ctx, "u1", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].AnimeTitle != "Naruto" {
		t.Fatalf("failed add must leave the list unchanged: %+v", items)
	}
}

func TestInMemoryStore_UpdateOnlyChangesSuppliedFields(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	notes := "classic"
	added, err := s.Add(ctx, Item{UserID: "u1", MalID: 1, AnimeTitle: "Cowboy Bebop", Status: StatusWatching, CurrentEpisode: 3, Notes: &notes})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	ep := 10
	got, err := s.Update(ctx, added.ID, Update{CurrentEpisode: &ep})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.CurrentEpisode != 10 {
		t.Fatalf("expected episode 10, got %d", got.CurrentEpisode)
	}
	if got.Status != StatusWatching {
		t.Fatalf("untouched status changed: %q", got.Status)
	}
	if got.Notes == nil || *got.Notes != "classic" {
		t.Fatalf("untouched notes changed: %v", got.Notes)
	}
	if !got.UpdatedAt.After(added.UpdatedAt) {
		t.Fatalf("updated_at must strictly increase: %v -> %v", added.UpdatedAt, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(added.CreatedAt) {
		t.Fatal("created_at must not change on update")
	}
}

func TestInMemoryStore_UpdateMissingID(t *testing.T) {
	s := NewInMemoryStore()
	st := StatusCompleted
	_, err := s.Update(context.Background(), "nope", Update{Status: &st})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryStore_RemoveMissingID(t *testing.T) {
	s := NewInMemoryStore()
	if err := s.Remove(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryStore_ListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	a, _ := s.Add(ctx, Item{UserID: "u1", MalID: 1, AnimeTitle: "A", Status: StatusWatching})
	_, _ = s.Add(ctx, Item{UserID: "u1", MalID: 2, AnimeTitle: "B", Status: StatusCompleted})
	_, _ = s.Add(ctx, Item{UserID: "u1", MalID: 3, AnimeTitle: "C", Status: StatusWatching})
	if _, err := s.Add(ctx, Item{UserID: "other", MalID: 4, AnimeTitle: "D", Status: StatusWatching}); err != nil {
		t.Fatalf("add: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	if _, err := s.Update(ctx, a.ID, Update{}); err != nil {
		t.Fatalf("touch a: %v", err)
	}

	items, err := s.List(ctx, "u1", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != a.ID {
		t.Fatalf("most recently updated must come first, got %q", items[0].AnimeTitle)
	}
	for i := 1; i < len(items); i++ {
		if items[i].UpdatedAt.After(items[i-1].UpdatedAt) {
			t.Fatalf("items not in updated_at desc order at %d", i)
		}
	}

	watching, err := s.List(ctx, "u1", StatusWatching)
	if err != nil {
		t.Fatalf("list watching: %v", err)
	}
	if len(watching) != 2 {
		t.Fatalf("expected 2 watching items, got %d", len(watching))
	}
	for _, it := range watching {
		if it.Status != StatusWatching {
			t.Fatalf("filter leaked status %q", it.Status)
		}
	}
	empty, err := s.List(ctx, "nobody", "")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}
