package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/aiparse"
	"aiustaz-backend/internal/models"
	"aiustaz-backend/internal/services"
)

type AssignmentsHandler struct {
	ai  generator
	log zerolog.Logger
}

func NewAssignmentsHandler(ai generator, log zerolog.Logger) *AssignmentsHandler {
	return &AssignmentsHandler{
		ai:  ai,
		log: log.With().Str("handler", "assignments").Logger(),
	}
}

// Generate produces a numbered list of exercises from document text. The
// model is told to emit "ЗАДАНИЕ N:" markers; the parser falls back to
// paragraph and chunk splitting when the markers are missing.
func (h *AssignmentsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PDFText  string `json:"pdf_text"`
		PDFName  string `json:"pdf_name"`
		Type     string `json:"assignment_type"`
		Count    int    `json:"count"`
		Level    string `json:"level"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PDFText == "" {
		fail(w, http.StatusBadRequest, "Текст не предоставлен")
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}
	if req.Language == "" {
		req.Language = "ru"
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	reply, err := h.ai.Generate(r.Context(), services.BuildAssignmentsPrompt(req.PDFText, req.Count, req.Language), 6000)
	if err != nil {
		h.log.Error().Err(err).Msg("assignment generation failed")
		fail(w, http.StatusInternalServerError, "AI не вернул ответ")
		return
	}

	assignments := aiparse.ParseAssignments(reply, req.Count, req.Language)
	if len(assignments) == 0 {
		fail(w, http.StatusInternalServerError, "Не удалось извлечь задания из ответа AI")
		return
	}

	h.log.Info().
		Str("language", req.Language).
		Int("requested", req.Count).
		Int("parsed", len(assignments)).
		Msg("assignments ready")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"assignments": assignments,
		"count":       len(assignments),
	})
}

// GeneratePractical runs a client-supplied prompt and expects a JSON
// object with an "assignments" array. When the reply cannot be decoded
// the endpoint still succeeds with a single demo assignment.
func (h *AssignmentsHandler) GeneratePractical(w http.ResponseWriter, r *http.Request) {
	prompt, ok := decodePromptBody(w, r)
	if !ok {
		return
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	reply, err := h.ai.Generate(r.Context(), prompt, 8000)
	if err != nil {
		h.log.Error().Err(err).Msg("practical assignment generation failed")
		fail(w, http.StatusInternalServerError, "Не удалось сгенерировать задания")
		return
	}

	var parsed struct {
		Assignments []models.PracticalAssignment `json:"assignments"`
	}
	if !decodeReplyObject(reply, &parsed) || len(parsed.Assignments) == 0 {
		h.log.Warn().Msg("no assignments in reply, serving demo data")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"assignments": demoPracticalAssignments(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"assignments": parsed.Assignments,
	})
}

// GenerateLaboratory is the lab-work counterpart of GeneratePractical,
// keyed on "laboratories" and given a larger output budget.
func (h *AssignmentsHandler) GenerateLaboratory(w http.ResponseWriter, r *http.Request) {
	prompt, ok := decodePromptBody(w, r)
	if !ok {
		return
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	reply, err := h.ai.Generate(r.Context(), prompt, 10000)
	if err != nil {
		h.log.Error().Err(err).Msg("laboratory generation failed")
		fail(w, http.StatusInternalServerError, "Не удалось сгенерировать лабораторные работы")
		return
	}

	var parsed struct {
		Laboratories []models.LaboratoryAssignment `json:"laboratories"`
	}
	if !decodeReplyObject(reply, &parsed) || len(parsed.Laboratories) == 0 {
		h.log.Warn().Msg("no laboratories in reply, serving demo data")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"laboratories": demoLaboratoryAssignments(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"laboratories": parsed.Laboratories,
	})
}

func decodePromptBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		fail(w, http.StatusBadRequest, "Промпт не может быть пустым")
		return "", false
	}
	return req.Prompt, true
}

// decodeReplyObject extracts the JSON object from a model reply and
// unmarshals it into out.
func decodeReplyObject(reply string, out interface{}) bool {
	raw, ok := aiparse.ExtractRaw(reply)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func demoPracticalAssignments() []models.PracticalAssignment {
	return []models.PracticalAssignment{
		{
			ID:             1,
			Title:          "Базовое упражнение",
			Description:    "Практикуйтесь в основных концепциях",
			Difficulty:     "easy",
			Objectives:     []string{"Освоить базовые навыки"},
			Instructions:   "Выполните упражнение согласно инструкциям",
			ExpectedOutput: "Получить понимание основных концепций",
			Hints:          []string{"Начните с простого"},
			EstimatedTime:  "30 минут",
		},
	}
}

func demoLaboratoryAssignments() []models.LaboratoryAssignment {
	return []models.LaboratoryAssignment{
		{
			ID:         1,
			Title:      "Лабораторная работа 1",
			Objective:  "Изучить основные принципы",
			Hypothesis: "Проверка гипотезы...",
			Duration:   "2 часа",
			Materials:  []string{"Материал 1", "Материал 2"},
			Procedures: []models.LabProcedure{
				{Step: 1, Description: "Подготовка", Details: "Подготовьте рабочее место"},
			},
			ExpectedResults: "Ожидаемые результаты",
			Rubric:          &models.LabRubric{Criteria: []models.LabRubricCriterion{}, TotalPoints: 25},
		},
	}
}
