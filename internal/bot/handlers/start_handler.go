package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/geminibot/internal/database"
)

// NewStartHandler returns a handler for the /start command. It registers or
// updates the sender's profile and prompts for a contact share.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler processes the /start command using injected dependencies.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	sender := update.Message.From
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", sender.ID)

	profile := &database.UserProfile{
		ChatID:      chatID,
		DisplayName: sender.FirstName,
		Handle:      sender.Username,
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
	err := h.deps.Store.SaveUserProfile(dbCtx, profile)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Failed to save user profile on registration", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	keyboard := &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: "Share Contact", RequestContact: true}},
		},
		OneTimeKeyboard: true,
		ResizeKeyboard:  true,
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()
	_, err = b.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.deps.Config.Messages.ContactRequest,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send contact request prompt", "error", err, "chat_id", chatID)
	}
}
