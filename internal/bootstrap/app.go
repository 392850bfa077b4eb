package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/health"
	"resume-builder/internal/ids"
	"resume-builder/internal/llm"
	anthropicllm "resume-builder/internal/llm/anthropic"
	geminillm "resume-builder/internal/llm/gemini"
	openaillm "resume-builder/internal/llm/openai"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/object"
	gcsstore "resume-builder/internal/shared/storage/object/gcs"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/uploads"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	Store          object.ObjectStore
	Generator      llm.Generator
	Provider       string
	ResumesRepo    resumes.Repo
	UploadsService *uploads.Service
	ResumesService *resumes.Service
	ResumesHandler *resumes.Handler
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.UploadsRoute) == "" {
		cfg.UploadsRoute = "/uploads"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = uploads.DefaultMaxBytes
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := context.Background()

	store, uploadsDir, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	generator, provider, err := BuildGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo := resumes.NewMemoryRepo()
	uploadSvc := uploads.NewService(store, cfg.MaxUploadBytes)
	resumeSvc := &resumes.Service{
		Repo:      repo,
		Uploads:   uploadSvc,
		Generator: generator,
		IDs:       ids.UUIDGenerator{},
	}
	handler := resumes.NewHandler(resumeSvc, cfg.MaxUploadBytes)
	healthSvc := &health.Service{
		Env:         cfg.Env,
		ObjectStore: cfg.ObjectStoreType,
		LLMProvider: provider,
		Repo:        repo,
	}

	app := &App{
		Config:         cfg,
		Store:          store,
		Generator:      generator,
		Provider:       provider,
		ResumesRepo:    repo,
		UploadsService: uploadSvc,
		ResumesService: resumeSvc,
		ResumesHandler: handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		ResumeHandler: handler,
		Health:        healthSvc,
		UploadsDir:    uploadsDir,
		RateLimiter:   middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"object_store": cfg.ObjectStoreType,
		"llm_provider": provider,
		"llm_model":    cfg.LLMModel,
	})
	return app, nil
}

// buildStore returns the object store and, for the local backend, the directory to serve statically.
func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, string, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("s3 store: %w", err)
		}
		return store, "", nil
	case "gcs":
		store, err := gcsstore.New(ctx, gcsstore.Options{
			Bucket:        cfg.GCSBucket,
			Prefix:        cfg.GCSPrefix,
			PublicBaseURL: cfg.GCSPublicBaseURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("gcs store: %w", err)
		}
		return store, "", nil
	default:
		baseURL := strings.TrimRight(cfg.PublicBaseURL, "/") + cfg.UploadsRoute
		return localstore.New(cfg.LocalStoreDir, baseURL), cfg.LocalStoreDir, nil
	}
}

// BuildGenerator returns the configured backend wrapped with timeout and retries.
// Dev-like environments fall back to the offline generator when the provider key is missing.
func BuildGenerator(ctx context.Context, cfg config.Config) (llm.Generator, string, error) {
	provider := cfg.LLMProvider
	model := cfg.LLMModel
	if strings.TrimSpace(model) == "" {
		model = config.DefaultModel(provider)
	}

	var (
		base llm.Generator
		err  error
	)
	switch provider {
	case "offline":
		base = llm.OfflineClient{}
	case "gemini":
		if missingKey(cfg.GeminiAPIKey) {
			return offlineOrFail(cfg, provider, "GEMINI_API_KEY")
		}
		base, err = geminillm.NewClient(ctx, geminillm.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       model,
			Temperature: cfg.LLMTemperature,
		})
	case "anthropic":
		if missingKey(cfg.AnthropicKey) {
			return offlineOrFail(cfg, provider, "ANTHROPIC_API_KEY")
		}
		base, err = anthropicllm.NewClient(anthropicllm.Config{
			APIKey:      cfg.AnthropicKey,
			Model:       model,
			Temperature: cfg.LLMTemperature,
		})
	default:
		provider = "openai"
		if missingKey(cfg.OpenAIAPIKey) {
			return offlineOrFail(cfg, provider, "OPENAI_API_KEY")
		}
		base, err = openaillm.NewClient(openaillm.Config{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       model,
			BaseURL:     cfg.OpenAIBaseURL,
			Temperature: cfg.LLMTemperature,
		})
	}
	if err != nil {
		return nil, "", err
	}
	return llm.NewRetrying(base, provider, model, cfg.LLMTimeout, cfg.LLMMaxRetries), provider, nil
}

func offlineOrFail(cfg config.Config, provider, keyName string) (llm.Generator, string, error) {
	if !cfg.IsDevLike() {
		return nil, "", fmt.Errorf("%s is required for LLM_PROVIDER=%s", keyName, provider)
	}
	telemetry.Warn("bootstrap.llm_offline_fallback", map[string]any{
		"provider": provider,
		"missing":  keyName,
	})
	return llm.NewRetrying(llm.OfflineClient{}, "offline", "offline", cfg.LLMTimeout, 0), "offline", nil
}

func missingKey(key string) bool {
	return strings.TrimSpace(key) == ""
}
