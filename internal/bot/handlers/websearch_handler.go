package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/geminibot/internal/gemini"
	"github.com/edgard/geminibot/internal/reply"
)

// NewWebSearchHandler returns a handler for the /websearch command. It wraps
// the query in a fixed search prompt and replies with the composed result.
// Nothing is persisted for this command.
func NewWebSearchHandler(deps HandlerDeps) bot.HandlerFunc {
	return webSearchHandler{deps}.Handle
}

type webSearchHandler struct {
	deps HandlerDeps
}

func (h webSearchHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "websearch")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "WebSearch handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	_, args := CommandParts(update.Message.Text)

	if len(args) == 0 {
		log.InfoContext(ctx, "WebSearch requested without query", "chat_id", chatID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.WebSearchUsage)
		return
	}

	query := strings.Join(args, " ")
	log.InfoContext(ctx, "Handling /websearch command", "chat_id", chatID, "query", query)

	sendTyping(ctx, b, chatID)

	prompt := WebSearchPrompt(query)

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	result, err := h.deps.GeminiClient.GenerateText(aiCtx, prompt)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "WebSearch inference failed, using fallback", "error", err, "chat_id", chatID)
		result = ""
	}

	sendText(ctx, b, log, chatID, reply.Compose(result, h.deps.Config.Messages.WebSearchEmpty))
}

// WebSearchPrompt builds the fixed inference prompt wrapping a search query.
func WebSearchPrompt(query string) string {
	return fmt.Sprintf(gemini.WebSearchPromptFormat, query)
}
