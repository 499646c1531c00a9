package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultModel is the generation model used unless overridden by config.
const DefaultModel = "gemini-2.5-flash"

// DiagnosticModels is the fixed list the diagnostics endpoint probes,
// in order of preference.
var DiagnosticModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-2.0-flash-001",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash-lite-001",
}

const (
	generateTimeout = 90 * time.Second
	probeTimeout    = 30 * time.Second
)

var (
	// ErrUnconfigured means no API credential was present at startup.
	ErrUnconfigured = errors.New("gemini api key is not configured")
	// ErrEmptyResponse means the provider answered 2xx with no usable text.
	ErrEmptyResponse = errors.New("gemini returned no usable content")
	// ErrTimeout means the provider did not answer within the call's bound.
	ErrTimeout = errors.New("gemini call timed out")
)

// QuotaError is a rate/quota rejection from the provider. RetryAfter is a
// hint and may be empty.
type QuotaError struct {
	RetryAfter string
	Message    string
}

func (e *QuotaError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("gemini quota exceeded (retry after %s): %s", e.RetryAfter, e.Message)
	}
	return "gemini quota exceeded: " + e.Message
}

// ProviderError is any other non-2xx or transport-level failure.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("gemini api error %d: %s", e.Code, e.Message)
	}
	return "gemini api error: " + e.Message
}

// GeminiService is a thin client over the generative language API. It holds
// no mutable state beyond the connection, so one instance serves all
// requests concurrently. A service constructed without an API key stays
// usable: every call returns ErrUnconfigured and handlers degrade.
type GeminiService struct {
	client    *genai.Client
	modelName string
	log       zerolog.Logger
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, log zerolog.Logger) (*GeminiService, error) {
	if modelName == "" {
		modelName = DefaultModel
	}

	s := &GeminiService{
		modelName: modelName,
		log:       log.With().Str("component", "gemini").Logger(),
	}

	if apiKey == "" {
		return s, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	s.client = client
	return s, nil
}

// Configured reports whether an API credential was supplied.
func (s *GeminiService) Configured() bool {
	return s != nil && s.client != nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Generate sends one prompt and returns the model's raw text. No retries
// are performed; the caller decides whether to fall back or surface the
// error. The call is bounded by a 90 second timeout.
func (s *GeminiService) Generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	return s.generate(ctx, s.modelName, prompt, maxTokens, generateTimeout)
}

// Probe performs a tiny test generation against a specific model, used by
// the diagnostics endpoint. Bounded by a shorter 30 second timeout.
func (s *GeminiService) Probe(ctx context.Context, modelName string) (string, time.Duration, error) {
	start := time.Now()
	text, err := s.generate(ctx, modelName, "Напиши одно слово: 'Работает'", 50, probeTimeout)
	return text, time.Since(start), err
}

func (s *GeminiService) generate(ctx context.Context, modelName, prompt string, maxTokens int32, timeout time.Duration) (string, error) {
	if !s.Configured() {
		return "", ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model := s.client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetMaxOutputTokens(maxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		mapped := mapProviderError(err)
		s.log.Warn().Err(mapped).Str("model", modelName).Msg("Gemini call failed")
		return "", mapped
	}

	text := joinParts(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func mapProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == 429 {
			return &QuotaError{
				RetryAfter: gerr.Header.Get("Retry-After"),
				Message:    gerr.Message,
			}
		}
		return &ProviderError{Code: gerr.Code, Message: gerr.Message}
	}

	return &ProviderError{Message: err.Error()}
}

func joinParts(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
