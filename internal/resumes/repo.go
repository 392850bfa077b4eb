package resumes

import "context"

// Repo defines storage operations for resume records.
type Repo interface {
	Create(ctx context.Context, record Record) error
	List(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
}
