package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"aiustaz-backend/internal/handlers"
	"aiustaz-backend/internal/middleware"
)

func New(
	flashcardHandler *handlers.FlashcardHandler,
	microlearningHandler *handlers.MicrolearningHandler,
	practicalHandler *handlers.PracticalHandler,
	quizHandler *handlers.QuizHandler,
	chatHandler *handlers.ChatHandler,
	assignmentsHandler *handlers.AssignmentsHandler,
	courseHandler *handlers.CourseHandler,
	diagnosticsHandler *handlers.DiagnosticsHandler,
	certificateHandler *handlers.CertificateHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// ──── Generation ────
		r.Post("/generate-flashcards", flashcardHandler.Generate)
		r.Post("/generate-microlearning", microlearningHandler.Generate)
		r.Post("/generate-quiz", quizHandler.GenerateFromFile)
		r.Post("/generate-theory", courseHandler.GenerateTheory)

		// ──── Assignments ────
		r.Post("/generate-assignments", assignmentsHandler.Generate)
		r.Post("/generate-practical-assignments", assignmentsHandler.GeneratePractical)
		r.Post("/generate-laboratory-assignments", assignmentsHandler.GenerateLaboratory)

		// ──── Checking ────
		r.Post("/check-practical-answer", practicalHandler.CheckAnswer)
		r.Post("/check-code", practicalHandler.CheckCode)
		r.Post("/run-code", practicalHandler.RunCode)

		// ──── Course ────
		r.Post("/extract-course-info", courseHandler.ExtractInfo)
		r.Post("/generate-certificate", certificateHandler.Generate)

		// ──── Chat & Diagnostics ────
		r.Post("/chat", chatHandler.Send)
		r.Get("/check-api", diagnosticsHandler.CheckAPI)
		r.Get("/diagnostics", diagnosticsHandler.Run)
	})

	return r
}
