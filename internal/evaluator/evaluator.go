// Package evaluator reviews applicant snapshots with an LLM and stores the
// structured result back on the applicant record.
package evaluator

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/karev/applicant-sync/internal/ai"
	"github.com/karev/applicant-sync/internal/airtable"
	"github.com/karev/applicant-sync/internal/applicant"
	"github.com/karev/applicant-sync/internal/logger"
	"github.com/karev/applicant-sync/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	systemInstruction  = "You are a helpful recruiting analyst assistant."
	profilePlaceholder = "{{PROFILE_JSON}}"

	defaultMaxRetries     = 3
	defaultInitialBackoff = time.Second
	defaultMaxTokens      = 1000
	temperature           = 0.7
)

// wait is swapped in tests to keep retry backoff instant.
var wait = utils.WaitFor

// nowUTC is swapped in tests to pin evaluation timestamps.
var nowUTC = func() time.Time { return time.Now().UTC() }

// Config tunes the retry loop and the completion request. Zero members fall
// back to defaults.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxTokens      int32
}

// Evaluator runs LLM reviews of applicant snapshots.
type Evaluator struct {
	store     *applicant.Store
	generator ai.Generator
	config    Config
	logger    *zap.Logger
}

// New returns an evaluator over the given store and provider.
func New(store *applicant.Store, generator ai.Generator, config Config, log *zap.Logger) *Evaluator {
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaultMaxRetries
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = defaultInitialBackoff
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaultMaxTokens
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Evaluator{store: store, generator: generator, config: config, logger: log}
}

// Run reviews one applicant's snapshot unless the stored evaluation is
// already newer than the snapshot. The parsed review lands in the LLM
// columns; a response without a usable score clears the stored one.
func (e *Evaluator) Run(ctx context.Context, id string) error {
	log := logger.WithApplicant(e.logger, id)

	record, err := e.store.FindApplicant(id)
	if err != nil {
		return err
	}

	raw := strings.TrimSpace(record.String(applicant.FieldCompressedJSON))
	if raw == "" {
		return fmt.Errorf("applicant %s has no compressed profile", id)
	}

	if e.upToDate(log, record) {
		log.Info("evaluation is current, skipping")
		return nil
	}

	prompt := strings.ReplaceAll(promptTemplate, profilePlaceholder, raw)

	text, err := e.complete(ctx, log, prompt)
	if err != nil {
		return err
	}

	review := parseReview(log, text)

	if review.Issues != "" && !strings.EqualFold(review.Issues, "none") {
		log.Warn("model flagged data issues", zap.String("issues", review.Issues))
	}

	fields := map[string]any{
		applicant.FieldLLMSummary:       review.Summary,
		applicant.FieldLLMScore:         nil,
		applicant.FieldLLMFollowUps:     strings.Join(review.FollowUps, "\n"),
		applicant.FieldLLMLastEvaluated: nowUTC().Format(time.RFC3339),
	}
	if review.Score != nil {
		fields[applicant.FieldLLMScore] = *review.Score
	}

	if _, err := e.store.Applicants.Update(record.ID, fields); err != nil {
		return fmt.Errorf("storing evaluation: %w", err)
	}

	log.Info("stored llm evaluation", zap.Intp("score", review.Score))

	return nil
}

// upToDate reports whether the stored evaluation already covers the current
// snapshot. Missing or unreadable timestamps force a fresh evaluation.
func (e *Evaluator) upToDate(log *zap.Logger, record *airtable.Record) bool {
	modifiedRaw := record.String(applicant.FieldLastModified)
	evaluatedRaw := record.String(applicant.FieldLLMLastEvaluated)
	if modifiedRaw == "" || evaluatedRaw == "" {
		return false
	}

	modified, modifiedOK := record.Time(applicant.FieldLastModified)
	evaluated, evaluatedOK := record.Time(applicant.FieldLLMLastEvaluated)
	if !modifiedOK || !evaluatedOK {
		log.Warn("unreadable evaluation timestamps, evaluating anyway",
			zap.String("last_modified", modifiedRaw),
			zap.String("last_evaluated", evaluatedRaw))
		return false
	}

	return !evaluated.Before(modified)
}

// complete calls the provider, retrying only errors the provider marks as
// API errors. The backoff doubles between attempts.
func (e *Evaluator) complete(ctx context.Context, log *zap.Logger, prompt string) (string, error) {
	request := ai.Request{
		System:      systemInstruction,
		Prompt:      prompt,
		MaxTokens:   e.config.MaxTokens,
		Temperature: temperature,
	}

	backoff := e.config.InitialBackoff
	for attempt := 1; ; attempt++ {
		text, err := e.generator.Complete(ctx, request)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				return "", errors.New("llm returned an empty response")
			}

			return text, nil
		}

		if !ai.IsAPIError(err) {
			return "", fmt.Errorf("llm request failed: %w", err)
		}

		if attempt >= e.config.MaxRetries {
			return "", fmt.Errorf("llm request failed after %d attempts: %w", attempt, err)
		}

		log.Warn("llm request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		if err := wait(ctx, backoff); err != nil {
			return "", err
		}
		backoff *= 2
	}
}
