package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/llm"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/telemetry"
)

// profileFile is the input document. workHistory may be a JSON array or the string form the API accepts.
type profileFile struct {
	FullName            string          `json:"fullName"`
	CurrentPosition     string          `json:"currentPosition"`
	CurrentLength       string          `json:"currentLength"`
	CurrentTechnologies string          `json:"currentTechnologies"`
	WorkHistory         json.RawMessage `json:"workHistory"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var inputPath string

	root := &cobra.Command{
		Use:           "prompttest",
		Short:         "Render and try the resume generation prompts",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "path to a profile JSON file (- for stdin)")
	_ = root.MarkPersistentFlagRequired("input")

	render := &cobra.Command{
		Use:   "render",
		Short: "Print the three prompts for a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts, err := loadPrompts(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "== %s ==\n%s\n\n", resumes.KindObjective, prompts.Objective)
			fmt.Fprintf(out, "== %s ==\n%s\n\n", resumes.KindKeypoints, prompts.Keypoints)
			fmt.Fprintf(out, "== %s ==\n%s\n", resumes.KindJobResponsibilities, prompts.JobResponsibilities)
			return nil
		},
	}

	var provider, model string
	run := &cobra.Command{
		Use:   "run",
		Short: "Send the prompts to the configured backend and print the narratives as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts, err := loadPrompts(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}
			cfg := config.Load()
			if provider != "" {
				cfg.LLMProvider = provider
				cfg.LLMModel = config.DefaultModel(provider)
			}
			if model != "" {
				cfg.LLMModel = model
			}
			telemetry.Configure(cfg.Env)
			restore := telemetry.SetOutput(cmd.ErrOrStderr())
			defer restore()

			gen, used, err := bootstrap.BuildGenerator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			narratives, err := generateAll(cmd.Context(), gen, prompts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"provider":                      used,
				resumes.KindObjective:           narratives.Objective,
				resumes.KindKeypoints:           narratives.Keypoints,
				resumes.KindJobResponsibilities: narratives.JobResponsibilities,
			})
		},
	}
	run.Flags().StringVar(&provider, "provider", "", "override LLM_PROVIDER (openai, gemini, anthropic, offline)")
	run.Flags().StringVar(&model, "model", "", "override LLM_MODEL")

	root.AddCommand(render, run)
	return root
}

func loadPrompts(stdin io.Reader, path string) (resumes.PromptSet, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return resumes.PromptSet{}, fmt.Errorf("read input: %w", err)
	}

	var profile profileFile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return resumes.PromptSet{}, fmt.Errorf("parse input: %w", err)
	}

	history := string(bytes.TrimSpace(profile.WorkHistory))
	if strings.HasPrefix(history, `"`) {
		if err := json.Unmarshal(profile.WorkHistory, &history); err != nil {
			return resumes.PromptSet{}, fmt.Errorf("parse workHistory: %w", err)
		}
	}

	input, err := resumes.Validate(resumes.RawFields{
		FullName:            profile.FullName,
		CurrentPosition:     profile.CurrentPosition,
		CurrentLength:       profile.CurrentLength,
		CurrentTechnologies: profile.CurrentTechnologies,
		WorkHistory:         history,
	})
	if err != nil {
		return resumes.PromptSet{}, err
	}
	return resumes.BuildPrompts(input), nil
}

func generateAll(ctx context.Context, gen llm.Generator, prompts resumes.PromptSet) (resumes.Narratives, error) {
	var n resumes.Narratives
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := gen.Generate(llm.WithPromptKind(gctx, resumes.KindObjective), prompts.Objective)
		n.Objective = text
		return err
	})
	g.Go(func() error {
		text, err := gen.Generate(llm.WithPromptKind(gctx, resumes.KindKeypoints), prompts.Keypoints)
		n.Keypoints = text
		return err
	})
	g.Go(func() error {
		text, err := gen.Generate(llm.WithPromptKind(gctx, resumes.KindJobResponsibilities), prompts.JobResponsibilities)
		n.JobResponsibilities = text
		return err
	})
	if err := g.Wait(); err != nil {
		return resumes.Narratives{}, err
	}
	return n, nil
}
