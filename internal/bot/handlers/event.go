package handlers

import (
	"strings"

	"github.com/go-telegram/bot/models"
)

// EventKind identifies the content category of an inbound event. Each update
// maps to exactly one kind; classification looks only at the declared content
// fields of the message, never at the content itself.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventCommand
	EventContactShare
	EventTextMessage
	EventPhotoMessage
	EventDocumentMessage
)

// String returns the kind name for logging.
func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventContactShare:
		return "contact_share"
	case EventTextMessage:
		return "text_message"
	case EventPhotoMessage:
		return "photo_message"
	case EventDocumentMessage:
		return "document_message"
	default:
		return "unknown"
	}
}

// Event is the closed variant over the content kinds the dispatcher handles.
// It is constructed once at the transport boundary by Classify; only the
// fields belonging to Kind are populated.
type Event struct {
	Kind   EventKind
	ChatID int64
	Sender *models.User

	// EventCommand
	Command string
	Args    []string

	// EventContactShare
	PhoneNumber string

	// EventTextMessage
	Body string

	// EventPhotoMessage and EventDocumentMessage
	FileID string

	// EventDocumentMessage
	Filename string
}

// Classify builds an Event from a raw transport update. It reports false for
// updates that carry no message or whose message has no content the
// dispatcher handles (stickers, locations, edits, and so on). The categories
// are checked in a fixed order and are mutually exclusive.
func Classify(update *models.Update) (Event, bool) {
	if update == nil || update.Message == nil {
		return Event{}, false
	}
	msg := update.Message

	ev := Event{
		ChatID: msg.Chat.ID,
		Sender: msg.From,
	}

	switch {
	case msg.Contact != nil:
		ev.Kind = EventContactShare
		ev.PhoneNumber = msg.Contact.PhoneNumber

	case len(msg.Photo) > 0:
		ev.Kind = EventPhotoMessage
		ev.FileID = bestPhoto(msg.Photo).FileID

	case msg.Document != nil:
		ev.Kind = EventDocumentMessage
		ev.FileID = msg.Document.FileID
		ev.Filename = msg.Document.FileName

	case strings.HasPrefix(msg.Text, "/"):
		ev.Kind = EventCommand
		ev.Command, ev.Args = CommandParts(msg.Text)

	case msg.Text != "":
		ev.Kind = EventTextMessage
		ev.Body = msg.Text

	default:
		return Event{}, false
	}

	return ev, true
}

// CommandParts splits a command message into its name and arguments.
// The leading slash and any @botname suffix on the command are stripped.
func CommandParts(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(name, "@"); at != -1 {
		name = name[:at]
	}

	var args []string
	if len(fields) > 1 {
		args = fields[1:]
	}
	return name, args
}

// bestPhoto selects the highest-resolution size of a photo.
func bestPhoto(sizes []models.PhotoSize) models.PhotoSize {
	best := sizes[0]
	bestQuality := best.Width * best.Height
	for _, photo := range sizes[1:] {
		if quality := photo.Width * photo.Height; quality > bestQuality {
			bestQuality = quality
			best = photo
		}
	}
	return best
}
