package handlers

import (
	"log/slog"

	"github.com/edgard/geminibot/internal/config"
	"github.com/edgard/geminibot/internal/database"
	"github.com/edgard/geminibot/internal/extract"
	"github.com/edgard/geminibot/internal/gemini"
)

// HandlerDeps provides dependencies for Telegram command and message handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	GeminiClient gemini.Client
	Extractor    *extract.PDFExtractor
}
