package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveUserProfile inserts or updates a user profile keyed by chat ID.
	// Empty fields on the incoming profile preserve previously stored values;
	// the call is idempotent under repetition.
	SaveUserProfile(ctx context.Context, profile *UserProfile) error

	// SaveChatRecord appends a chat exchange record. The record's timestamp
	// is assigned at write time; any caller-supplied value is overwritten.
	SaveChatRecord(ctx context.Context, record *ChatRecord) error

	// SaveMediaRecord appends a photo or document analysis record to the
	// log selected by record.Kind. The timestamp is assigned at write time.
	SaveMediaRecord(ctx context.Context, record *MediaRecord) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveUserProfile inserts or updates a user profile based on ChatID.
// The upsert preserves previously stored fields when the incoming profile
// leaves them empty, so a contact share does not blank the display name
// recorded at registration.
func (s *sqlxStore) SaveUserProfile(ctx context.Context, profile *UserProfile) error {
	if profile == nil {
		return fmt.Errorf("cannot save nil user profile")
	}
	if profile.ChatID == 0 {
		return fmt.Errorf("user profile must have a non-zero chat_id")
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	now := time.Now().UTC()
	profile.UpdatedAt = now
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}

	query := `
        INSERT INTO users (chat_id, display_name, handle, phone_number, created_at, updated_at)
        VALUES (:chat_id, :display_name, :handle, :phone_number, :created_at, :updated_at)
        ON CONFLICT(chat_id) DO UPDATE SET
            display_name = COALESCE(NULLIF(excluded.display_name, ''), display_name),
            handle       = COALESCE(NULLIF(excluded.handle, ''), handle),
            phone_number = COALESCE(excluded.phone_number, phone_number),
            updated_at   = excluded.updated_at;
    `

	result, err := s.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving user profile", "chat_id", profile.ChatID, "error", err)
		return fmt.Errorf("failed to save user profile for chat %d: %w", profile.ChatID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when saving profile",
			"chat_id", profile.ChatID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "User profile saved successfully", "chat_id", profile.ChatID)
	return nil
}

// SaveChatRecord appends a chat exchange record.
func (s *sqlxStore) SaveChatRecord(ctx context.Context, record *ChatRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil chat record")
	}
	if record.ChatID == 0 {
		return fmt.Errorf("chat record must have a non-zero chat_id")
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Write-time timestamp; caller-supplied values are ignored.
	record.Timestamp = time.Now().UTC()

	query := `
        INSERT INTO chat_history (chat_id, user_message, bot_response, timestamp)
        VALUES (:chat_id, :user_message, :bot_response, :timestamp);
    `

	result, err := s.db.NamedExecContext(ctx, query, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving chat record", "chat_id", record.ChatID, "error", err)
		return fmt.Errorf("failed to save chat record for chat %d: %w", record.ChatID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		record.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving chat record",
			"chat_id", record.ChatID, "error", err)
	}

	s.logger.DebugContext(ctx, "Chat record saved successfully",
		"chat_id", record.ChatID, "record_id", record.ID)
	return nil
}

// SaveMediaRecord appends a media analysis record to the table selected by
// record.Kind (image_analysis or document_analysis).
func (s *sqlxStore) SaveMediaRecord(ctx context.Context, record *MediaRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil media record")
	}
	if record.ChatID == 0 {
		return fmt.Errorf("media record must have a non-zero chat_id")
	}

	var table string
	switch record.Kind {
	case MediaKindImage:
		table = "image_analysis"
	case MediaKindDocument:
		table = "document_analysis"
	default:
		return fmt.Errorf("unknown media kind %q", record.Kind)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	// Write-time timestamp; caller-supplied values are ignored.
	record.Timestamp = time.Now().UTC()

	query := fmt.Sprintf(`
        INSERT INTO %s (chat_id, source_ref, description, timestamp)
        VALUES (:chat_id, :source_ref, :description, :timestamp);
    `, table)

	result, err := s.db.NamedExecContext(ctx, query, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving media record",
			"chat_id", record.ChatID, "kind", record.Kind, "error", err)
		return fmt.Errorf("failed to save %s record for chat %d: %w", record.Kind, record.ChatID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		record.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving media record",
			"chat_id", record.ChatID, "kind", record.Kind, "error", err)
	}

	s.logger.DebugContext(ctx, "Media record saved successfully",
		"chat_id", record.ChatID, "kind", record.Kind, "record_id", record.ID)
	return nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
