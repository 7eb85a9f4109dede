package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/karev/applicant-sync/internal/ai"
	"github.com/karev/applicant-sync/internal/ai/gemini"
	"github.com/karev/applicant-sync/internal/airtable"
	"github.com/karev/applicant-sync/internal/applicant"
	"github.com/karev/applicant-sync/internal/evaluator"
	"github.com/karev/applicant-sync/internal/logger"
	"github.com/karev/applicant-sync/internal/secrets"
	"github.com/karev/applicant-sync/internal/shortlist"
	"github.com/karev/applicant-sync/internal/syncer"
)

// runtime carries everything a subcommand needs once configuration and
// credentials are resolved.
type runtime struct {
	ctx    context.Context
	config *Config
	store  *applicant.Store
	logger *zap.Logger
}

// newRuntime assembles the shared runtime for a subcommand invocation. It
// terminates the process on configuration errors.
func newRuntime() *runtime {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-file"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	logger.Info("starting the applicant-sync", zap.String("version", version))

	token, err := resolveAirtableKey(config)
	if err != nil {
		logger.Fatal(
			"loading airtable api key",
			zap.Error(err),
			zap.String("hint", "set AIRTABLE_API_KEY or AIRTABLE_API_KEY_FILE, or the airtable section in the configuration file"),
		)
	}

	baseID := setting(config.airtable().BaseID, "airtable.base-id")
	if baseID == "" {
		logger.Fatal(
			"airtable base id is required",
			zap.String("hint", "set AIRTABLE_BASE_ID or the airtable.base-id key in the configuration file"),
		)
	}

	// Secrets stay out of the log; everything else in the resolved
	// configuration is fair game for debugging.
	logger.Debug("resolved configuration",
		zap.String("airtable_base", baseID),
		zap.String("gemini_model", geminiModel(config)),
		zap.Int("llm_max_retries", viper.GetInt("ai.max-retries")),
		zap.Duration("llm_initial_backoff", viper.GetDuration("ai.initial-backoff")),
	)

	client := airtable.New(ctx, logger, token, baseID)

	return &runtime{
		ctx:    ctx,
		config: config,
		store:  applicant.NewStore(client),
		logger: logger,
	}
}

func (r *runtime) syncer() *syncer.Syncer {
	return syncer.New(r.store, r.logger)
}

func (r *runtime) shortlister() *shortlist.Shortlister {
	return shortlist.New(r.store, r.logger)
}

func (r *runtime) evaluator() (*evaluator.Evaluator, error) {
	generator, err := r.generator()
	if err != nil {
		return nil, err
	}

	return evaluator.New(r.store, generator, r.evaluatorConfig(), r.logger), nil
}

func (r *runtime) generator() (ai.Generator, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: setting(r.config.gemini().APIKey, "ai.gemini.api-key"),
		File:  setting(r.config.gemini().APIKeyFile, "ai.gemini.api-key-file"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set GEMINI_API_KEY or GEMINI_API_KEY_FILE, or the ai.gemini section in the configuration file)", err)
	}

	model := geminiModel(r.config)

	client, err := gemini.New(r.ctx, apiKey, model, logger.WithCommonFields(r.logger, "gemini", model))
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (r *runtime) evaluatorConfig() evaluator.Config {
	aiConfig := r.config.aiConfig()

	maxRetries := aiConfig.MaxRetries
	if maxRetries <= 0 {
		maxRetries = viper.GetInt("ai.max-retries")
	}

	backoff := aiConfig.InitialBackoff
	if backoff <= 0 {
		backoff = viper.GetDuration("ai.initial-backoff")
	}

	maxTokens := r.config.gemini().MaxTokens
	if maxTokens <= 0 {
		maxTokens = viper.GetInt32("ai.gemini.max-tokens")
	}

	return evaluator.Config{
		MaxRetries:     maxRetries,
		InitialBackoff: backoff,
		MaxTokens:      maxTokens,
	}
}

func (c *Config) airtable() *AirtableConfig {
	if c.Airtable != nil {
		return c.Airtable
	}

	return &AirtableConfig{}
}

func (c *Config) aiConfig() *AIConfig {
	if c.AI != nil {
		return c.AI
	}

	return &AIConfig{}
}

func (c *Config) gemini() *GeminiConfig {
	if aiConfig := c.aiConfig(); aiConfig.Gemini != nil {
		return aiConfig.Gemini
	}

	return &GeminiConfig{}
}

func resolveAirtableKey(config *Config) (string, error) {
	return secrets.Load(secrets.Source{
		Name:  "airtable api key",
		Value: setting(config.airtable().APIKey, "airtable.api-key"),
		File:  setting(config.airtable().APIKeyFile, "airtable.api-key-file"),
	})
}

func geminiModel(config *Config) string {
	if model := setting(config.gemini().Model, "ai.gemini.model"); model != "" {
		return model
	}

	return gemini.DefaultModel
}

// setting prefers the unmarshaled config value and falls back to the bound
// viper key, so environment-only runs work without a config file.
func setting(configValue, viperKey string) string {
	if configValue != "" {
		return configValue
	}

	return viper.GetString(viperKey)
}
