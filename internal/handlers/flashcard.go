package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/aiparse"
	"aiustaz-backend/internal/fallback"
	"aiustaz-backend/internal/models"
	"aiustaz-backend/internal/services"
)

// Title replies often come wrapped in quotes or prefixed with a label;
// both are cosmetic noise from the model and get stripped.
var (
	titleQuotes = regexp.MustCompile("^[\"'`]|[\"'`]$")
	titleEdges  = regexp.MustCompile(`^[.\-\s]+|[.\-\s]+$`)
	titlePrefix = regexp.MustCompile(`(?i)^(Название|Тема|Тематика|Курс|Карточки|Флеш-карты)[:\s]*`)
)

type FlashcardHandler struct {
	ai  generator
	log zerolog.Logger
}

func NewFlashcardHandler(ai generator, log zerolog.Logger) *FlashcardHandler {
	return &FlashcardHandler{
		ai:  ai,
		log: log.With().Str("handler", "flashcards").Logger(),
	}
}

// Generate builds a titled set of study cards from raw document text.
// Parsing failures never surface to the client: deterministic fallback
// cards are produced instead, marked with a note.
func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	pdfText := r.FormValue("pdf_text")
	if pdfText == "" {
		fail(w, http.StatusBadRequest, "Текст PDF не предоставлен")
		return
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ Gemini не настроен")
		return
	}

	title := h.generateTitle(r, pdfText)

	cards, note := h.generateCards(r, pdfText, title)
	cards = aiparse.CleanFlashcards(cards)

	h.log.Info().
		Str("title", title).
		Int("count", len(cards)).
		Msg("flashcard set ready")

	writeJSON(w, http.StatusOK, models.FlashcardSetResponse{
		Success:    true,
		Flashcards: cards,
		Title:      title,
		Count:      len(cards),
		Note:       note,
	})
}

func (h *FlashcardHandler) generateTitle(r *http.Request, pdfText string) string {
	reply, err := h.ai.Generate(r.Context(), services.BuildFlashcardTitlePrompt(pdfText), 150)
	if err != nil {
		h.log.Warn().Err(err).Msg("title generation failed, using fallback")
		return fallback.Title(pdfText)
	}

	title := strings.TrimSpace(reply)
	title = titleQuotes.ReplaceAllString(title, "")
	title = titleEdges.ReplaceAllString(title, "")
	title = titlePrefix.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)

	if len([]rune(title)) < 3 {
		return fallback.Title(pdfText)
	}
	if runes := []rune(title); len(runes) > 60 {
		title = strings.TrimSpace(string(runes[:60]))
	}
	return title
}

func (h *FlashcardHandler) generateCards(r *http.Request, pdfText, title string) ([]models.Flashcard, string) {
	const note = "Созданы базовые карточки из-за ошибки AI"

	reply, err := h.ai.Generate(r.Context(), services.BuildFlashcardsPrompt(pdfText, title), 4000)
	if err != nil {
		h.log.Warn().Err(err).Msg("card generation failed, using fallback deck")
		return fallback.Flashcards(pdfText, title), note
	}

	cards := aiparse.ParseFlashcards(reply)
	if len(cards) == 0 {
		h.log.Warn().Msg("no cards parsed from reply, using fallback deck")
		return fallback.Flashcards(pdfText, title), note
	}
	return cards, ""
}
