package health

import (
	"context"

	"resume-builder/internal/resumes"
)

// Status is the payload served by GET /health.
type Status struct {
	OK          bool   `json:"ok"`
	Env         string `json:"env"`
	ObjectStore string `json:"objectStore"`
	LLMProvider string `json:"llmProvider"`
	Resumes     int    `json:"resumes"`
}

// Service encapsulates health-related checks.
type Service struct {
	Env         string
	ObjectStore string
	LLMProvider string
	Repo        resumes.Repo
}

// Status reports the wiring and the number of stored resumes.
// A failing repo turns OK off but still returns the rest of the payload.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{
		OK:          true,
		Env:         s.Env,
		ObjectStore: s.ObjectStore,
		LLMProvider: s.LLMProvider,
	}
	if s.Repo == nil {
		return st
	}
	records, err := s.Repo.List(ctx)
	if err != nil {
		st.OK = false
		return st
	}
	st.Resumes = len(records)
	return st
}
