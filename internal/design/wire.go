package design

import (
	"context"
	"fmt"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/infra/credentials"
	"interiorai/internal/metrics"
	"interiorai/internal/prompt"
	"interiorai/internal/providers/architect"
	"interiorai/internal/providers/image"
	"interiorai/internal/providers/replicate"
	"interiorai/internal/providers/surveyor"
	"interiorai/internal/providers/video"
)

// WireOptions are the process-level dependencies of a Stack. Store and
// Credentials may be nil.
type WireOptions struct {
	Config      *infra.Config
	Logger      *infra.Logger
	Metrics     *metrics.Collector
	Store       domain.DocumentStore
	Credentials *credentials.Store
}

// Stack is a fully wired pipeline plus the registry pieces the CLI and the
// version watcher reuse.
type Stack struct {
	Service   *Service
	Replicate *replicate.Client
	Versions  *replicate.VersionResolver
}

// Wire builds the provider clients and the design service from config.
// Provider keys come from the environment first and the credentials store
// second.
func Wire(ctx context.Context, opts WireOptions) (*Stack, error) {
	cfg := opts.Config
	logger := infra.OrDiscard(opts.Logger)

	replicateKey, err := opts.Credentials.Resolve(ctx, credentials.ProviderReplicate, cfg.ReplicateAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("design: replicate key lookup failed")
	}
	hfKey, err := opts.Credentials.Resolve(ctx, credentials.ProviderHuggingFace, cfg.HuggingFaceAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("design: huggingface key lookup failed")
	}
	if replicateKey == "" {
		logger.Warn().Msg("design: replicate key missing, photo redesigns fall back to HuggingFace")
	}

	var vocab *prompt.Vocabulary
	if cfg.VocabularyPath != "" {
		vocab, err = prompt.LoadVocabulary(cfg.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("design: vocabulary: %w", err)
		}
	}

	client := replicate.NewClient(replicate.Options{
		APIKey:       replicateKey,
		BaseURL:      cfg.ReplicateBaseURL,
		Logger:       logger,
		Metrics:      opts.Metrics,
		PollInterval: cfg.PollInterval,
	})
	versions := replicate.NewVersionResolver(client, replicate.NewMemoryVersionCache(), logger, opts.Metrics)

	chain := image.NewChain(logger, opts.Metrics,
		image.NewReplicateTier(client, versions),
		image.NewHuggingFaceTier(image.HuggingFaceOptions{
			APIKey:  hfKey,
			BaseURL: cfg.HuggingFaceBaseURL,
			Logger:  logger,
		}),
		image.NewPollinationsTier(cfg.PollinationsBaseURL, nil),
	)

	svc := NewService(Options{
		Composer:  prompt.NewComposer(vocab),
		Analyzer:  architect.NewAnalyzer(client, versions, logger),
		Surveyor:  surveyor.New(client, versions, logger),
		Images:    chain,
		Video:     video.NewSVD(client, versions),
		Persister: NewPersister(opts.Store, logger),
		Logger:    logger,
		Metrics:   opts.Metrics,
	})
	return &Stack{Service: svc, Replicate: client, Versions: versions}, nil
}
