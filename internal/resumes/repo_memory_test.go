package resumes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryRepoCreateListGet(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		rec := Record{ID: id, WorkHistory: []WorkHistoryEntry{NewWorkHistoryEntry("Acme", "Dev")}}
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "a" || list[1].ID != "b" || list[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", list)
	}

	list[0].FullName = "mutated"
	list[0].WorkHistory[0].CompanyName = "mutated"
	got, err := repo.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FullName != "" || got.WorkHistory[0].CompanyName != "Acme" {
		t.Fatalf("stored record was mutated through List: %+v", got)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Create(ctx, Record{ID: "b"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if list, _ := repo.List(ctx); len(list) != 3 {
		t.Fatalf("duplicate changed the store: %d records", len(list))
	}
}

func TestMemoryRepoConcurrentCreate(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := repo.Create(ctx, Record{ID: fmt.Sprintf("r%03d", i)}); err != nil {
				t.Errorf("create: %v", err)
			}
		}(i)
	}
	wg.Wait()

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != n {
		t.Fatalf("expected %d records, got %d", n, len(list))
	}
	seen := make(map[string]struct{}, n)
	for _, rec := range list {
		seen[rec.ID] = struct{}{}
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}
}

func TestMemoryRepoHonorsCanceledContext(t *testing.T) {
	repo := NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Create(ctx, Record{ID: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
