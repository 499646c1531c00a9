package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/aiparse"
	"aiustaz-backend/internal/models"
	"aiustaz-backend/internal/quiz"
	"aiustaz-backend/internal/services"
)

type MicrolearningHandler struct {
	ai  generator
	log zerolog.Logger
}

func NewMicrolearningHandler(ai generator, log zerolog.Logger) *MicrolearningHandler {
	return &MicrolearningHandler{
		ai:  ai,
		log: log.With().Str("handler", "microlearning").Logger(),
	}
}

// rawBundle mirrors the model's reply before quiz normalization. TextQuiz
// stays raw so the normalizer can repair shape problems per question.
type rawBundle struct {
	Theory        []models.TheoryPage    `json:"theory"`
	Flashcards    []models.Flashcard     `json:"flashcards"`
	TextQuiz      []quiz.RawQuestion     `json:"textQuiz"`
	PracticalQuiz []models.PracticalTask `json:"practicalQuiz"`
}

func (h *MicrolearningHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PDFText string `json:"pdf_text"`
		PDFName string `json:"pdf_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PDFText == "" {
		fail(w, http.StatusBadRequest, "PDF текст отсутствует")
		return
	}
	if req.PDFName == "" {
		req.PDFName = "document.pdf"
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	title := h.courseTitle(r, req.PDFText, req.PDFName)

	reply, err := h.ai.Generate(r.Context(), services.BuildMicrolearningPrompt(req.PDFText), 8000)
	if err != nil {
		h.log.Error().Err(err).Msg("bundle generation failed")
		fail(w, http.StatusInternalServerError, "AI не ответил")
		return
	}

	obj, ok := aiparse.ExtractObject(reply)
	if !ok {
		fail(w, http.StatusInternalServerError, "Ошибка создания микрообучения")
		return
	}

	var missing []string
	for _, key := range []string{"theory", "flashcards", "textQuiz", "practicalQuiz"} {
		if _, present := obj[key]; !present {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		fail(w, http.StatusInternalServerError, "Отсутствуют компоненты: "+strings.Join(missing, ", "))
		return
	}
	if _, isList := obj["theory"].([]interface{}); !isList {
		fail(w, http.StatusInternalServerError, "Неверный формат теории")
		return
	}

	bundle, err := decodeBundle(obj)
	if err != nil {
		h.log.Error().Err(err).Msg("bundle did not match the expected shape")
		fail(w, http.StatusInternalServerError, "Ошибка создания микрообучения")
		return
	}

	questions, stats := quiz.Normalize(bundle.TextQuiz)
	if stats.Reclassified > 0 || stats.Discarded > 0 || stats.Repaired > 0 {
		h.log.Info().
			Int("reclassified", stats.Reclassified).
			Int("discarded", stats.Discarded).
			Int("repaired", stats.Repaired).
			Msg("quiz questions normalized")
	}
	if len(questions) < quiz.MinQuestions {
		fail(w, http.StatusInternalServerError, fmt.Sprintf(
			"Создано только %d валидных вопросов. Попробуйте загрузить PDF заново.", len(questions)))
		return
	}

	h.log.Info().
		Str("title", title).
		Int("theory_pages", len(bundle.Theory)).
		Int("flashcards", len(bundle.Flashcards)).
		Int("text_quiz", len(questions)).
		Int("practical_quiz", len(bundle.PracticalQuiz)).
		Msg("microlearning bundle ready")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"title":   title,
		"microlearning": models.MicrolearningBundle{
			Theory:        bundle.Theory,
			Flashcards:    bundle.Flashcards,
			TextQuiz:      questions,
			PracticalQuiz: bundle.PracticalQuiz,
		},
	})
}

func (h *MicrolearningHandler) courseTitle(r *http.Request, pdfText, pdfName string) string {
	reply, err := h.ai.Generate(r.Context(), services.BuildCourseTitlePrompt(pdfText), 100)
	if err != nil {
		h.log.Warn().Err(err).Msg("course title generation failed, using file name")
		return strings.TrimSuffix(pdfName, ".pdf")
	}
	title := strings.TrimSpace(strings.Trim(strings.TrimSpace(reply), `"'`))
	if title == "" {
		return strings.TrimSuffix(pdfName, ".pdf")
	}
	return title
}

// decodeBundle round-trips the sanitized tree through JSON into typed
// structs. Extra keys from the model are dropped on the way.
func decodeBundle(obj map[string]interface{}) (*rawBundle, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var bundle rawBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}
