package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/aiparse"
	"aiustaz-backend/internal/quiz"
	"aiustaz-backend/internal/services"
)

const maxQuizUploadBytes = 20 << 20

type QuizHandler struct {
	ai      generator
	extract *services.FileExtractService
	log     zerolog.Logger
}

func NewQuizHandler(ai generator, extract *services.FileExtractService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		ai:      ai,
		extract: extract,
		log:     log.With().Str("handler", "quiz").Logger(),
	}
}

// GenerateFromFile builds a mixed-type quiz from an uploaded document.
// The reply questions go through the same normalizer as microlearning, so
// a malformed question repairs or drops instead of breaking the client.
func (h *QuizHandler) GenerateFromFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxQuizUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, http.StatusBadRequest, "Файл не загружен")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		fail(w, http.StatusBadRequest, "Файл не выбран")
		return
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	text, err := h.extract.ExtractText(header.Filename, file)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) {
			fail(w, http.StatusBadRequest, "Неподдерживаемый формат файла")
			return
		}
		h.log.Error().Err(err).Str("file", header.Filename).Msg("text extraction failed")
		fail(w, http.StatusInternalServerError, "Не удалось прочитать файл")
		return
	}

	h.log.Info().
		Str("file", header.Filename).
		Int("text_len", len(text)).
		Msg("generating quiz from file")

	reply, err := h.ai.Generate(r.Context(), services.BuildQuizFromFilePrompt(text), 8000)
	if err != nil {
		h.log.Error().Err(err).Msg("quiz generation failed")
		fail(w, http.StatusInternalServerError, "Не удалось сгенерировать тест через AI")
		return
	}

	obj, ok := aiparse.ExtractObject(reply)
	if !ok {
		fail(w, http.StatusInternalServerError, "Не удалось распознать формат ответа AI")
		return
	}
	rawQuestions, present := obj["questions"]
	if !present {
		fail(w, http.StatusInternalServerError, "Не удалось распознать формат ответа AI")
		return
	}

	questions, err := decodeRawQuestions(rawQuestions)
	if err != nil {
		fail(w, http.StatusInternalServerError, "Не удалось распознать формат ответа AI")
		return
	}

	normalized, stats := quiz.Normalize(questions)
	if stats.Discarded > 0 {
		h.log.Warn().Int("discarded", stats.Discarded).Msg("dropped malformed quiz questions")
	}
	if len(normalized) < quiz.MinQuestions {
		fail(w, http.StatusInternalServerError, fmt.Sprintf(
			"Создано только %d валидных вопросов. Попробуйте загрузить PDF заново.", len(normalized)))
		return
	}

	title, _ := obj["title"].(string)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"quiz": map[string]interface{}{
			"title":     title,
			"questions": normalized,
		},
	})
}

func decodeRawQuestions(v interface{}) ([]quiz.RawQuestion, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var questions []quiz.RawQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
