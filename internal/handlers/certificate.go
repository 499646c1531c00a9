package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aiustaz-backend/internal/services"
)

type CertificateHandler struct {
	certs *services.CertificateService
	log   zerolog.Logger
}

func NewCertificateHandler(certs *services.CertificateService, log zerolog.Logger) *CertificateHandler {
	return &CertificateHandler{
		certs: certs,
		log:   log.With().Str("handler", "certificate").Logger(),
	}
}

// Generate renders a course completion certificate and streams it back
// as a PDF attachment. Absent fields get defaults; fields sent as empty
// strings are a client error.
func (h *CertificateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentName    *string `json:"student_name"`
		CourseTitle    *string `json:"course_title"`
		CompletionDate *string `json:"completion_date"`
		Language       *string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Отсутствуют обязательные данные")
		return
	}

	studentName := stringOr(req.StudentName, "Слушатель")
	courseTitle := stringOr(req.CourseTitle, "Курс")
	completionDate := stringOr(req.CompletionDate, time.Now().Format("02.01.2006"))
	language := stringOr(req.Language, "ru")
	if language == "kz" {
		language = "kk"
	}

	if studentName == "" || courseTitle == "" {
		fail(w, http.StatusBadRequest, "Отсутствуют обязательные данные")
		return
	}

	pdfBytes, err := h.certs.Render(studentName, courseTitle, completionDate, language)
	if err != nil {
		h.log.Error().Err(err).Msg("certificate rendering failed")
		fail(w, http.StatusInternalServerError, "Ошибка генерации сертификата")
		return
	}

	filename := "Сертификат_" + strings.ReplaceAll(studentName, " ", "_") + ".pdf"

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
