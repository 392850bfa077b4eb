package ids

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator issues record identifiers.
type Generator interface {
	NewID() string
}

// UUIDGenerator issues 32-char lowercase hex ids from random UUIDv4 values.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Sequence issues predictable ids such as "rec0001", for tests and tooling.
type Sequence struct {
	Prefix string
	n      atomic.Uint64
}

func (s *Sequence) NewID() string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "rec"
	}
	return fmt.Sprintf("%s%04d", prefix, s.n.Add(1))
}

var (
	_ Generator = UUIDGenerator{}
	_ Generator = (*Sequence)(nil)
)
