package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/models"
	"aiustaz-backend/internal/services"
)

type CourseHandler struct {
	ai  generator
	log zerolog.Logger
}

func NewCourseHandler(ai generator, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		ai:  ai,
		log: log.With().Str("handler", "course").Logger(),
	}
}

// ExtractInfo asks the model for course metadata. A reply that cannot be
// decoded degrades to a generic descriptor instead of an error.
func (h *CourseHandler) ExtractInfo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		fail(w, http.StatusBadRequest, "Контент не может быть пустым")
		return
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	reply, err := h.ai.Generate(r.Context(), services.BuildCourseInfoPrompt(req.Content), 500)
	if err != nil {
		h.log.Error().Err(err).Msg("course info extraction failed")
		fail(w, http.StatusInternalServerError, "Не удалось определить информацию о курсе")
		return
	}

	var info models.CourseInfo
	if !decodeReplyObject(reply, &info) || info.CourseName == "" {
		info = models.CourseInfo{
			CourseName:     "Неизвестный курс",
			CourseType:     "Общий",
			Level:          "средний",
			MainTopics:     []string{},
			TargetAudience: "студенты",
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"courseInfo": info,
	})
}

// GenerateTheory returns one markdown theory page. Unlike the other
// generation endpoints the reply is plain text, not JSON.
func (h *CourseHandler) GenerateTheory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content    string `json:"content"`
		PageNumber int    `json:"pageNumber"`
		TotalPages int    `json:"totalPages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		fail(w, http.StatusBadRequest, "Контент не может быть пустым")
		return
	}
	if req.PageNumber <= 0 {
		req.PageNumber = 1
	}
	if req.TotalPages <= 0 {
		req.TotalPages = 1
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	reply, err := h.ai.Generate(r.Context(), services.BuildTheoryPrompt(req.Content, req.PageNumber, req.TotalPages), 3000)
	if err != nil {
		h.log.Error().Err(err).Msg("theory generation failed")
		fail(w, http.StatusInternalServerError, "Не удалось сгенерировать теорию")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"theory":  strings.TrimSpace(reply),
	})
}
