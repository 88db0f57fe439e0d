package database

import (
	"database/sql"
	"time"
)

// MediaKind identifies which append-only log a MediaRecord belongs to.
type MediaKind string

const (
	MediaKindImage    MediaKind = "image"
	MediaKindDocument MediaKind = "document"
)

// UserProfile represents a registered user keyed by chat ID. It is created
// on /start and enriched with a phone number when the user shares a contact.
// Fields left empty on save preserve their previously stored values.
type UserProfile struct {
	ChatID      int64          `db:"chat_id"`
	DisplayName string         `db:"display_name"`
	Handle      string         `db:"handle"`
	PhoneNumber sql.NullString `db:"phone_number"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// ChatRecord represents one processed text exchange: the user's message and
// the reply the bot sent for it. Append-only; Timestamp is assigned by the
// store at write time.
type ChatRecord struct {
	ID          uint      `db:"id"`
	ChatID      int64     `db:"chat_id"`
	UserMessage string    `db:"user_message"`
	BotResponse string    `db:"bot_response"`
	Timestamp   time.Time `db:"timestamp"`
}

// MediaRecord represents one processed photo or document. SourceRef is the
// transport's file path for the media; Description is the composed analysis
// text (which may be a fallback string). Kind selects the target table.
// Append-only; Timestamp is assigned by the store at write time.
type MediaRecord struct {
	ID          uint      `db:"id"`
	ChatID      int64     `db:"chat_id"`
	SourceRef   string    `db:"source_ref"`
	Description string    `db:"description"`
	Timestamp   time.Time `db:"timestamp"`

	Kind MediaKind `db:"-"`
}
