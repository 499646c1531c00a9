package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/services"
)

// Navigation questions get canned replies before any model call. These
// cover the platform's own UI, which the model knows nothing about, and
// they keep working when no API key is configured.
var cannedReplies = []struct {
	keywords []string
	reply    string
}{
	{
		keywords: []string{"создать курс", "создай курс", "новый курс", "сделать курс"},
		reply:    "Чтобы создать курс, нажмите на карточку **Электронный курс** на главной странице. Загрузите PDF-файл, и AI автоматически создаст полноценное микрообучение с теорией, тестами и практическими заданиями! 📚",
	},
	{
		keywords: []string{"флеш-карт", "флешкарт", "карточки"},
		reply:    "Для создания флеш-карт нажмите на карточку **Флеш-карты** на главной странице. Это интерактивный метод запоминания - на одной стороне карточки термин, на другой определение! 🎴",
	},
	{
		keywords: []string{"тест", "задани"},
		reply:    "Для создания тестовых заданий нажмите на карточку **Тестовые задания**. AI поможет создать разнообразные вопросы с мгновенной обратной связью! ✅",
	},
	{
		keywords: []string{"генератор", "генерация", "практическ"},
		reply:    "Нажмите на карточку **Генератор заданий** - AI создаст упражнения и задачи по любой теме за секунды! 💡",
	},
	{
		keywords: []string{"план урока", "учебный план"},
		reply:    "Для создания учебного плана урока нажмите на соответствующую карточку. Получите структурированный план с целями и этапами! 📝",
	},
}

type ChatHandler struct {
	ai  generator
	log zerolog.Logger
}

func NewChatHandler(ai generator, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		ai:  ai,
		log: log.With().Str("handler", "chat").Logger(),
	}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Сообщение не может быть пустым")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		fail(w, http.StatusBadRequest, "Сообщение не может быть пустым")
		return
	}

	if reply, ok := cannedReply(message); ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": reply,
		})
		return
	}

	if !h.ai.Configured() {
		fail(w, http.StatusInternalServerError, "API ключ не настроен")
		return
	}

	aiReply, err := h.ai.Generate(r.Context(), services.BuildChatPrompt(message), 500)
	if err != nil {
		h.log.Error().Err(err).Msg("chat reply failed")
		fail(w, http.StatusInternalServerError, "Не удалось получить ответ от AI. Попробуйте позже.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": strings.TrimSpace(aiReply),
	})
}

func cannedReply(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, c := range cannedReplies {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.reply, true
			}
		}
	}
	return "", false
}
