package resumes

import (
	"fmt"
	"strings"
)

// Prompt kinds, one per generated narrative.
const (
	KindObjective           = "objective"
	KindKeypoints           = "keypoints"
	KindJobResponsibilities = "jobResponsibilities"
)

// PromptSet holds the three generation prompts for one request.
type PromptSet struct {
	Objective           string
	Keypoints           string
	JobResponsibilities string
}

// BuildPrompts renders the prompts for input. Equal inputs yield equal prompts.
func BuildPrompts(input ValidatedInput) PromptSet {
	return PromptSet{
		Objective: fmt.Sprintf(
			"I am writing a resume. My name is %s, I work as a %s with %s years of experience. I work with technologies like %s. Write a 100-word summary about me in first person.",
			input.FullName, input.CurrentPosition, input.CurrentLength, input.CurrentTechnologies,
		),
		Keypoints: fmt.Sprintf(
			"Give 10 strong bullet points for my resume based on this: I am %s, working as a %s for %s years using %s.",
			input.FullName, input.CurrentPosition, input.CurrentLength, input.CurrentTechnologies,
		),
		JobResponsibilities: jobResponsibilitiesPrompt(input.WorkHistory),
	}
}

func jobResponsibilitiesPrompt(history []WorkHistoryEntry) string {
	parts := make([]string, 0, len(history))
	for _, entry := range history {
		parts = append(parts, entry.CompanyName+" as "+entry.Position)
	}
	return fmt.Sprintf(
		"I worked at %d companies: %s. Write ~50 words for each company in first person, describing my success at each.",
		len(history), strings.Join(parts, ", "),
	)
}
