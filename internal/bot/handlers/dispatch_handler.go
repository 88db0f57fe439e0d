package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/geminibot/internal/config"
	"github.com/edgard/geminibot/internal/database"
	"github.com/edgard/geminibot/internal/extract"
	"github.com/edgard/geminibot/internal/gemini"
	"github.com/edgard/geminibot/internal/reply"
)

const (
	aiProcessingTimeout = 2 * time.Minute
	sendMessageTimeout  = 10 * time.Second
	dbSaveTimeout       = 5 * time.Second
)

// NewDispatchHandler returns the default handler: it classifies every update
// that no registered command matched and routes it to the handling routine
// for its content kind.
func NewDispatchHandler(deps HandlerDeps) bot.HandlerFunc {
	return dispatchHandler{deps}.Handle
}

type dispatchHandler struct {
	deps HandlerDeps
}

func (h dispatchHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "dispatch")

	ev, ok := Classify(update)
	if !ok {
		log.DebugContext(ctx, "Ignoring update with no dispatchable content", "update_id", update.ID)
		return
	}

	log = log.With("chat_id", ev.ChatID, "event_kind", ev.Kind.String())

	switch ev.Kind {
	case EventCommand:
		// Registered commands never reach the default handler, so anything
		// classified here is unrecognized and ignored.
		log.DebugContext(ctx, "Ignoring unrecognized command", "command", ev.Command)

	case EventContactShare:
		h.handleContact(ctx, b, log, ev)

	case EventTextMessage:
		h.handleText(ctx, b, log, ev)

	case EventPhotoMessage:
		h.handlePhoto(ctx, b, log, ev)

	case EventDocumentMessage:
		h.handleDocument(ctx, b, log, ev)

	default:
		log.WarnContext(ctx, "Classified event with unhandled kind", "update_id", update.ID)
	}
}

// handleContact records the shared phone number against the sender's profile.
func (h dispatchHandler) handleContact(ctx context.Context, b *bot.Bot, log *slog.Logger, ev Event) {
	log.InfoContext(ctx, "Handling contact share")

	profile := &database.UserProfile{
		ChatID:      ev.ChatID,
		PhoneNumber: toNullString(ev.PhoneNumber),
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
	err := h.deps.Store.SaveUserProfile(dbCtx, profile)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Failed to save contact phone number", "error", err)
		sendText(ctx, b, log, ev.ChatID, h.deps.Config.Messages.GeneralError)
		return
	}

	sendText(ctx, b, log, ev.ChatID, h.deps.Config.Messages.ContactThanks)
}

// handleText runs inference over a free-text message, appends a chat record,
// and replies with the composed result.
func (h dispatchHandler) handleText(ctx context.Context, b *bot.Bot, log *slog.Logger, ev Event) {
	log.InfoContext(ctx, "Handling text message", "message_length", len(ev.Body))

	sendTyping(ctx, b, ev.ChatID)

	msgs := h.deps.Config.Messages

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	result, err := h.deps.GeminiClient.GenerateText(aiCtx, ev.Body)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Text inference failed, using fallback", "error", err)
		result = ""
	}
	composed := reply.Compose(result, msgs.TextFallback)

	record := &database.ChatRecord{
		ChatID:      ev.ChatID,
		UserMessage: ev.Body,
		BotResponse: composed,
	}
	dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
	if err := h.deps.Store.SaveChatRecord(dbCtx, record); err != nil {
		// Record persistence is best-effort once inference completed; the
		// user still gets their reply.
		log.WarnContext(ctx, "Failed to save chat record", "error", err)
	}
	cancel()

	sendText(ctx, b, log, ev.ChatID, composed)
}

// handlePhoto downloads the photo, runs vision inference, appends an image
// record, and replies with the composed description.
func (h dispatchHandler) handlePhoto(ctx context.Context, b *bot.Bot, log *slog.Logger, ev Event) {
	log.InfoContext(ctx, "Handling photo message", "file_id", ev.FileID)

	sendTyping(ctx, b, ev.ChatID)

	msgs := h.deps.Config.Messages

	fileObj, err := ResolveFile(ctx, b, ev.FileID)
	if err != nil {
		log.ErrorContext(ctx, "Photo resolve failed", "error", err)
		sendText(ctx, b, log, ev.ChatID, msgs.DownloadError)
		return
	}

	data, mimeType, err := DownloadFile(ctx, h.deps.Config.Telegram.Token, fileObj.FilePath)
	if err != nil {
		log.ErrorContext(ctx, "Photo download failed", "error", err, "file_path", fileObj.FilePath)
		sendText(ctx, b, log, ev.ChatID, msgs.DownloadError)
		return
	}

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	result, err := h.deps.GeminiClient.GenerateImageAnalysis(aiCtx, mimeType, data)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "Image inference failed, using fallback", "error", err)
		result = ""
	}
	composed := reply.Compose(result, msgs.ImageFallback)

	record := &database.MediaRecord{
		ChatID:      ev.ChatID,
		SourceRef:   fileObj.FilePath,
		Description: composed,
		Kind:        database.MediaKindImage,
	}
	dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
	if err := h.deps.Store.SaveMediaRecord(dbCtx, record); err != nil {
		log.WarnContext(ctx, "Failed to save image record", "error", err)
	}
	cancel()

	sendText(ctx, b, log, ev.ChatID, composed)
}

// handleDocument extracts text from a supported document and summarizes it,
// appends a document record, and replies with the composed description.
// Unsupported document types skip download and inference entirely but still
// produce a record.
func (h dispatchHandler) handleDocument(ctx context.Context, b *bot.Bot, log *slog.Logger, ev Event) {
	log.InfoContext(ctx, "Handling document message", "file_name", ev.Filename)

	sendTyping(ctx, b, ev.ChatID)

	msgs := h.deps.Config.Messages

	fileObj, err := ResolveFile(ctx, b, ev.FileID)
	if err != nil {
		log.ErrorContext(ctx, "Document resolve failed", "error", err)
		sendText(ctx, b, log, ev.ChatID, msgs.GeneralError)
		return
	}

	var composed string
	if !IsSupportedDocument(ev.Filename) {
		log.InfoContext(ctx, "Unsupported document type", "file_name", ev.Filename)
		composed = reply.Compose("", msgs.UnsupportedDocument)
	} else {
		data, _, err := DownloadFile(ctx, h.deps.Config.Telegram.Token, fileObj.FilePath)
		if err != nil {
			log.ErrorContext(ctx, "Document download failed", "error", err, "file_path", fileObj.FilePath)
			sendText(ctx, b, log, ev.ChatID, msgs.GeneralError)
			return
		}
		composed = AnalyzeDocument(ctx, log, h.deps.GeminiClient, h.deps.Extractor, h.deps.Config.Messages, ev.Filename, data)
	}

	record := &database.MediaRecord{
		ChatID:      ev.ChatID,
		SourceRef:   fileObj.FilePath,
		Description: composed,
		Kind:        database.MediaKindDocument,
	}
	dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
	if err := h.deps.Store.SaveMediaRecord(dbCtx, record); err != nil {
		log.WarnContext(ctx, "Failed to save document record", "error", err)
	}
	cancel()

	sendText(ctx, b, log, ev.ChatID, composed)
}

// IsSupportedDocument reports whether the dispatcher can extract text from a
// document with the given filename. Only paginated PDF documents are
// supported for now.
func IsSupportedDocument(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// AnalyzeDocument produces the description text for a document event:
// the fixed fallback for unsupported types (no inference attempted), the
// "no readable text" fallback when extraction yields nothing (no inference
// attempted), and otherwise the composed summary of the extracted text.
// The result is already composed, bounded text.
func AnalyzeDocument(ctx context.Context, log *slog.Logger, client gemini.Client, extractor *extract.PDFExtractor, msgs config.MessagesConfig, filename string, data []byte) string {
	if !IsSupportedDocument(filename) {
		return reply.Compose("", msgs.UnsupportedDocument)
	}

	text := extractor.Text(data)
	if strings.TrimSpace(text) == "" {
		log.InfoContext(ctx, "Document yielded no readable text", "file_name", filename)
		return reply.Compose("", msgs.NoReadableText)
	}

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()
	result, err := client.GenerateText(aiCtx, text)
	if err != nil {
		log.ErrorContext(ctx, "Document inference failed, using fallback", "error", err, "file_name", filename)
		result = ""
	}
	return reply.Compose(result, msgs.DocumentFallback)
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// sendTyping signals a best-effort typing indicator; failures are ignored.
func sendTyping(ctx context.Context, b *bot.Bot, chatID int64) {
	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})
}

// sendText sends a plain text message, logging any failure.
func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()
	_, err := b.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}
