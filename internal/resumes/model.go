package resumes

import (
	"encoding/json"
	"time"
)

// RawFields carries the text fields of a create request as submitted.
type RawFields struct {
	FullName            string
	CurrentPosition     string
	CurrentLength       string
	CurrentTechnologies string
	WorkHistory         string
}

// WorkHistoryEntry is one prior employer. The submitted object is kept
// as-is so unknown keys survive into the record.
type WorkHistoryEntry struct {
	CompanyName string
	Position    string
	raw         json.RawMessage
}

// NewWorkHistoryEntry builds an entry with no submitted object behind it.
func NewWorkHistoryEntry(companyName, position string) WorkHistoryEntry {
	return WorkHistoryEntry{CompanyName: companyName, Position: position}
}

// MarshalJSON re-emits the submitted object, or {name, position} when there is none.
func (e WorkHistoryEntry) MarshalJSON() ([]byte, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}
	return json.Marshal(struct {
		Name     string `json:"name"`
		Position string `json:"position"`
	}{Name: e.CompanyName, Position: e.Position})
}

func (e WorkHistoryEntry) clone() WorkHistoryEntry {
	out := e
	if e.raw != nil {
		out.raw = append(json.RawMessage(nil), e.raw...)
	}
	return out
}

// ValidatedInput is the normalized profile that prompts are built from.
type ValidatedInput struct {
	FullName            string
	CurrentPosition     string
	CurrentLength       string
	CurrentTechnologies string
	WorkHistory         []WorkHistoryEntry
}

// Record is a created resume.
type Record struct {
	ID                  string             `json:"id"`
	FullName            string             `json:"fullName"`
	ImageURL            string             `json:"imageUrl"`
	CurrentPosition     string             `json:"currentPosition"`
	CurrentLength       string             `json:"currentLength"`
	CurrentTechnologies string             `json:"currentTechnologies"`
	WorkHistory         []WorkHistoryEntry `json:"workHistory"`
	Objective           string             `json:"objective"`
	Keypoints           string             `json:"keypoints"`
	JobResponsibilities string             `json:"jobResponsibilities"`
	CreatedAt           time.Time          `json:"createdAt"`
}

func (r Record) clone() Record {
	out := r
	out.WorkHistory = make([]WorkHistoryEntry, len(r.WorkHistory))
	for i, entry := range r.WorkHistory {
		out.WorkHistory[i] = entry.clone()
	}
	return out
}
