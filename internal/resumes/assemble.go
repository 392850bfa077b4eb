package resumes

import "time"

// Narratives are the three generated texts for one request.
type Narratives struct {
	Objective           string
	Keypoints           string
	JobResponsibilities string
}

// Assemble merges the validated input, image reference and narratives into a Record.
func Assemble(id, imageURL string, input ValidatedInput, n Narratives, createdAt time.Time) Record {
	history := make([]WorkHistoryEntry, len(input.WorkHistory))
	for i, entry := range input.WorkHistory {
		history[i] = entry.clone()
	}
	return Record{
		ID:                  id,
		FullName:            input.FullName,
		ImageURL:            imageURL,
		CurrentPosition:     input.CurrentPosition,
		CurrentLength:       input.CurrentLength,
		CurrentTechnologies: input.CurrentTechnologies,
		WorkHistory:         history,
		Objective:           n.Objective,
		Keypoints:           n.Keypoints,
		JobResponsibilities: n.JobResponsibilities,
		CreatedAt:           createdAt.UTC(),
	}
}
