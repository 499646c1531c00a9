package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/services"
)

// prober extends generator with the per-model test call used by the
// diagnostics endpoint.
type prober interface {
	generator
	Probe(ctx context.Context, modelName string) (string, time.Duration, error)
}

type modelProbeResult struct {
	Model        string  `json:"model"`
	Status       string  `json:"status"`
	ResponseTime float64 `json:"response_time"`
	Response     string  `json:"response,omitempty"`
	Error        string  `json:"error,omitempty"`
}

type diagnosticsReport struct {
	Timestamp      string             `json:"timestamp"`
	APIKeyPresent  bool               `json:"api_key_present"`
	ModelsTested   []modelProbeResult `json:"models_tested"`
	WorkingModels  []string           `json:"working_models"`
	Errors         []string           `json:"errors"`
	Recommendation string             `json:"recommendation,omitempty"`
	Success        bool               `json:"success"`
}

type DiagnosticsHandler struct {
	ai  prober
	log zerolog.Logger
}

func NewDiagnosticsHandler(ai prober, log zerolog.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		ai:  ai,
		log: log.With().Str("handler", "diagnostics").Logger(),
	}
}

// CheckAPI is a quick connectivity probe against the configured model.
func (h *DiagnosticsHandler) CheckAPI(w http.ResponseWriter, r *http.Request) {
	if !h.ai.Configured() {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"api_key_configured": false,
			"api_working":        false,
			"message":            "API ключ не настроен",
		})
		return
	}

	_, err := h.ai.Generate(r.Context(), "Ответь одно слово: работает", 10)
	message := "API доступен"
	if err != nil {
		message = "API не отвечает"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"api_key_configured": true,
		"api_working":        err == nil,
		"message":            message,
	})
}

// Run probes the fixed model list one by one and reports per-model
// status, latency and a recommendation.
func (h *DiagnosticsHandler) Run(w http.ResponseWriter, r *http.Request) {
	report := diagnosticsReport{
		Timestamp:     time.Now().Format(time.RFC3339),
		ModelsTested:  []modelProbeResult{},
		WorkingModels: []string{},
		Errors:        []string{},
	}

	if !h.ai.Configured() {
		report.Errors = append(report.Errors, "API ключ Gemini не найден в .env файле")
		writeJSON(w, http.StatusInternalServerError, report)
		return
	}
	report.APIKeyPresent = true

	for _, modelName := range services.DiagnosticModels {
		h.log.Info().Str("model", modelName).Msg("probing model")

		text, elapsed, err := h.ai.Probe(r.Context(), modelName)
		result := modelProbeResult{
			Model:        modelName,
			ResponseTime: math.Round(elapsed.Seconds()*100) / 100,
		}

		if err == nil {
			result.Status = "работает"
			result.Response = truncateRunes(text, 100)
			report.WorkingModels = append(report.WorkingModels, modelName)
		} else {
			result.Status, result.Error = probeFailure(err)
		}

		report.ModelsTested = append(report.ModelsTested, result)
	}

	if len(report.WorkingModels) > 0 {
		report.Recommendation = "Рекомендуется использовать: " + report.WorkingModels[0]
		report.Success = true
	} else {
		report.Recommendation = "Ни одна модель не работает. Проверьте API ключ и квоты."
	}

	h.log.Info().Int("working", len(report.WorkingModels)).Msg("diagnostics finished")
	writeJSON(w, http.StatusOK, report)
}

func probeFailure(err error) (status, detail string) {
	var quotaErr *services.QuotaError
	var provErr *services.ProviderError

	switch {
	case errors.Is(err, services.ErrTimeout):
		return "таймаут", "Превышено время ожидания (30 сек)"
	case errors.Is(err, services.ErrEmptyResponse):
		return "пустой ответ", "Нет данных в ответе"
	case errors.As(err, &quotaErr):
		return "лимит превышен", "Превышена квота API"
	case errors.As(err, &provErr):
		switch provErr.Code {
		case http.StatusNotFound:
			return "не найдена", "Модель не существует или недоступна"
		case http.StatusForbidden:
			return "доступ запрещен", "Проверьте API ключ или права доступа"
		default:
			return "ошибка", provErr.Message
		}
	default:
		return "ошибка", err.Error()
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
