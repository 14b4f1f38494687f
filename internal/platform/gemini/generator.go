// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/studydeck/studydeck-api/internal/config"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/generation"
	"google.golang.org/genai"
)

// promptData is the data passed to the prompt template.
type promptData struct {
	DocumentText string
}

// draftSchema is the JSON shape each card takes in the model's response array.
type draftSchema struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Type     string   `json:"type,omitempty"`
	Options  []string `json:"options,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// Generator implements generation.Generator using Google's Gemini API to
// produce flashcard drafts from document text.
type Generator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// Verify interface compliance at compile time
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a new Generator with the provided dependencies.
// It loads and parses the prompt template and initializes the Gemini client.
// Returns an error wrapping generation.ErrInvalidConfig if the configuration
// is unusable.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.PromptTemplatePath == "" {
		return nil, fmt.Errorf("%w: prompt template path cannot be empty", generation.ErrInvalidConfig)
	}

	templateContent, err := os.ReadFile(cfg.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			generation.ErrInvalidConfig, cfg.PromptTemplatePath, err)
	}

	promptTemplate, err := template.New("flashcard").Parse(string(templateContent))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateDrafts implements generation.Generator.GenerateDrafts.
func (g *Generator) GenerateDrafts(
	ctx context.Context,
	documentText string,
) ([]domain.DraftCard, error) {
	prompt, err := g.createPrompt(documentText)
	if err != nil {
		return nil, err
	}

	text, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	drafts, err := parseDrafts(text)
	if err != nil {
		return nil, err
	}

	validated, err := generation.ValidateDrafts(drafts)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "generated flashcard drafts",
		slog.Int("draft_count", len(validated)),
		slog.Int("document_chars", len(documentText)))
	return validated, nil
}

// createPrompt renders the prompt template with the (possibly truncated)
// document text.
func (g *Generator) createPrompt(documentText string) (string, error) {
	if documentText == "" {
		return "", generation.ErrEmptyDocument
	}

	if max := g.config.MaxDocumentChars; max > 0 && len(documentText) > max {
		documentText = documentText[:max]
	}

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, promptData{DocumentText: documentText}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callWithRetry makes a call to the Gemini API with exponential backoff and
// jitter. Transient upstream errors are retried up to config.MaxRetries times;
// permanent errors (blocked content, unusable responses) return immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		text, err := g.callOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		// Only upstream failures are worth retrying.
		if !errors.Is(err, generation.ErrUpstreamFailure) {
			return "", err
		}

		if attempt == maxRetries {
			break
		}

		// delay = baseDelay * 2^attempt * jitter in [0.5, 1.0)
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		g.logger.WarnContext(ctx, "Gemini call failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrUpstreamFailure, ctx.Err())
		}
	}

	return "", fmt.Errorf("%w: exceeded %d attempts: %v",
		generation.ErrUpstreamFailure, maxRetries+1, lastErr)
}

// callOnce performs a single Gemini API call and extracts the response text.
func (g *Generator) callOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.3),
		})
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrUpstreamFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrMalformedOutput)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: generation stopped by safety filters", generation.ErrContentBlocked)
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrMalformedOutput)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	return text.String(), nil
}

// parseDrafts parses the model's response text into draft cards. The model is
// asked for a bare JSON array but sometimes wraps it in a markdown code fence,
// which is stripped before parsing.
func parseDrafts(text string) ([]domain.DraftCard, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var schemas []draftSchema
	if err := json.Unmarshal([]byte(cleaned), &schemas); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON array of cards: %v",
			generation.ErrMalformedOutput, err)
	}

	drafts := make([]domain.DraftCard, 0, len(schemas))
	for _, s := range schemas {
		drafts = append(drafts, domain.DraftCard{
			Question: s.Question,
			Answer:   s.Answer,
			Type:     domain.CardType(s.Type),
			Options:  s.Options,
			Source:   s.Source,
		})
	}

	return drafts, nil
}
