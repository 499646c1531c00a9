package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aiustaz-backend/internal/config"
	"aiustaz-backend/internal/handlers"
	"aiustaz-backend/internal/logger"
	"aiustaz-backend/internal/router"
	"aiustaz-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("env", cfg.Env).Msg("starting Ai-Ustaz backend")

	// ──── Step 2: Initialize Gemini Client ────
	// A missing API key is not fatal: the server starts and handlers
	// answer with a configuration error or fall back where they can.
	geminiService, err := services.NewGeminiService(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		log.Fatal().Err(err).Msg("gemini client initialization failed")
	}
	defer geminiService.Close()
	if geminiService.Configured() {
		log.Info().Str("model", cfg.GeminiModel).Msg("gemini client initialized")
	} else {
		log.Warn().Msg("GEMINI_API_KEY is empty, AI generation disabled")
	}

	// ──── Step 3: Initialize Services ────
	fileExtractService := services.NewFileExtractService()
	certificateService := services.NewCertificateService(cfg.CertFontPath)

	// ──── Step 4: Initialize Handlers ────
	flashcardHandler := handlers.NewFlashcardHandler(geminiService, log)
	microlearningHandler := handlers.NewMicrolearningHandler(geminiService, log)
	practicalHandler := handlers.NewPracticalHandler(geminiService, log)
	quizHandler := handlers.NewQuizHandler(geminiService, fileExtractService, log)
	chatHandler := handlers.NewChatHandler(geminiService, log)
	assignmentsHandler := handlers.NewAssignmentsHandler(geminiService, log)
	courseHandler := handlers.NewCourseHandler(geminiService, log)
	diagnosticsHandler := handlers.NewDiagnosticsHandler(geminiService, log)
	certificateHandler := handlers.NewCertificateHandler(certificateService, log)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(
		flashcardHandler,
		microlearningHandler,
		practicalHandler,
		quizHandler,
		chatHandler,
		assignmentsHandler,
		courseHandler,
		diagnosticsHandler,
		certificateHandler,
		cfg.FrontendURL,
	)

	// Write timeout must cover the 90 second generation bound plus the
	// diagnostics sweep, which probes several models back to back.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 4 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info().Str("addr", "http://localhost:"+cfg.Port).Msg("Ai-Ustaz backend ready")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}
