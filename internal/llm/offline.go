package llm

import (
	"context"
	"strings"
)

// Canned narratives returned by OfflineClient.
const (
	OfflineObjective           = "I'm a passionate developer with strong experience in modern tech."
	OfflineKeypoints           = "- Built scalable web apps\n- Collaborated with cross-functional teams\n- Led deployments"
	OfflineJobResponsibilities = "At XYZ Corp, I improved performance by 40%. At ABC Inc, I mentored 3 junior devs."
)

// OfflineClient answers without a backend, for local runs without an API key.
type OfflineClient struct{}

// Generate picks a canned narrative matching the prompt.
func (OfflineClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch {
	case strings.Contains(prompt, "bullet points"):
		return OfflineKeypoints, nil
	case strings.Contains(prompt, "companies"):
		return OfflineJobResponsibilities, nil
	default:
		return OfflineObjective, nil
	}
}

var _ Generator = OfflineClient{}
