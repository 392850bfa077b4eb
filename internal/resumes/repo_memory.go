package resumes

import (
	"context"
	"sync"
)

// MemoryRepo stores records in memory for the life of the process and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]int)}
}

// Create appends the record. An id already present is rejected with ErrDuplicateID.
func (r *MemoryRepo) Create(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[record.ID]; exists {
		return ErrDuplicateID
	}
	r.byID[record.ID] = len(r.records)
	r.records = append(r.records, record.clone())
	return nil
}

// List returns all records in insertion order.
func (r *MemoryRepo) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.clone()
	}
	return out, nil
}

// GetByID returns the record with the given id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r.records[idx].clone(), nil
}

var _ Repo = (*MemoryRepo)(nil)
