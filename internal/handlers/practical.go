package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/aiparse"
	"aiustaz-backend/internal/services"
)

// Languages the run-code endpoint accepts. Everything else would need a
// real sandbox; the client only renders these three in an iframe.
var runnableLanguages = map[string]bool{
	"html":       true,
	"css":        true,
	"javascript": true,
}

type PracticalHandler struct {
	ai  generator
	log zerolog.Logger
}

func NewPracticalHandler(ai generator, log zerolog.Logger) *PracticalHandler {
	return &PracticalHandler{
		ai:  ai,
		log: log.With().Str("handler", "practical").Logger(),
	}
}

// CheckAnswer grades a free-form answer against the task via the model.
func (h *PracticalHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Task         string `json:"task"`
		Instructions string `json:"instructions"`
		UserAnswer   string `json:"user_answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Task == "" || req.UserAnswer == "" {
		fail(w, http.StatusBadRequest, "Отсутствуют данные")
		return
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	reply, err := h.ai.Generate(r.Context(), services.BuildPracticalCheckPrompt(req.Task, req.Instructions, req.UserAnswer), 500)
	if err != nil {
		h.log.Error().Err(err).Msg("answer check failed")
		fail(w, http.StatusInternalServerError, "AI не ответил")
		return
	}

	result, ok := aiparse.ExtractObject(reply)
	if !ok {
		fail(w, http.StatusInternalServerError, "Ошибка парсинга ответа AI")
		return
	}
	isCorrect, hasVerdict := result["is_correct"]
	feedback, hasFeedback := result["feedback"]
	if !hasVerdict || !hasFeedback {
		fail(w, http.StatusInternalServerError, "Ошибка парсинга ответа AI")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"is_correct": isCorrect,
		"feedback":   feedback,
	})
}

// CheckCode reviews student code against a task. The model's verdict
// object is passed through as-is under "result".
func (h *PracticalHandler) CheckCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserCode       string `json:"user_code"`
		Task           string `json:"task"`
		Language       string `json:"language"`
		ExpectedOutput string `json:"expected_output"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.UserCode) == "" {
		fail(w, http.StatusBadRequest, "Код не может быть пустым")
		return
	}
	if req.Language == "" {
		req.Language = "python"
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	reply, err := h.ai.Generate(r.Context(), services.BuildCodeCheckPrompt(req.Task, req.Language, strings.TrimSpace(req.UserCode), req.ExpectedOutput), 2000)
	if err != nil {
		h.log.Error().Err(err).Msg("code check failed")
		fail(w, http.StatusInternalServerError, "ИИ не смог проверить код. Попробуйте позже.")
		return
	}

	result, ok := aiparse.ExtractObject(reply)
	if !ok {
		fail(w, http.StatusInternalServerError, "Не удалось обработать ответ ИИ")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// RunCode echoes browser-renderable code back for client-side preview.
// Nothing is executed server-side.
func (h *PracticalHandler) RunCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserCode string `json:"user_code"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Код не может быть пустым")
		return
	}
	if req.Language == "" {
		req.Language = "html"
	}

	if !runnableLanguages[req.Language] {
		fail(w, http.StatusBadRequest, "Запуск поддерживается только для HTML/CSS/JavaScript")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"can_run":  true,
		"code":     strings.TrimSpace(req.UserCode),
		"language": req.Language,
	})
}
