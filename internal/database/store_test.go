package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/geminibot/internal/database"
)

// newTestStore opens a fresh migrated database in a temporary directory.
func newTestStore(t *testing.T) (database.Store, *sqlx.DB) {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil), db
}

func TestSaveUserProfile_InsertAndPartialUpdate(t *testing.T) {
	t.Parallel()

	store, db := newTestStore(t)
	ctx := context.Background()

	err := store.SaveUserProfile(ctx, &database.UserProfile{
		ChatID:      100,
		DisplayName: "Ada",
		Handle:      "ada",
	})
	if err != nil {
		t.Fatalf("SaveUserProfile() insert error = %v", err)
	}

	// A contact share carries only the phone number. The stored display
	// name and handle must survive the upsert.
	err = store.SaveUserProfile(ctx, &database.UserProfile{
		ChatID:      100,
		PhoneNumber: sql.NullString{String: "+15551234567", Valid: true},
	})
	if err != nil {
		t.Fatalf("SaveUserProfile() update error = %v", err)
	}

	var row struct {
		DisplayName string         `db:"display_name"`
		Handle      string         `db:"handle"`
		PhoneNumber sql.NullString `db:"phone_number"`
	}
	if err := db.Get(&row, "SELECT display_name, handle, phone_number FROM users WHERE chat_id = ?", 100); err != nil {
		t.Fatalf("querying users: %v", err)
	}

	if row.DisplayName != "Ada" {
		t.Errorf("display_name = %q, want %q", row.DisplayName, "Ada")
	}
	if row.Handle != "ada" {
		t.Errorf("handle = %q, want %q", row.Handle, "ada")
	}
	if !row.PhoneNumber.Valid || row.PhoneNumber.String != "+15551234567" {
		t.Errorf("phone_number = %+v, want valid %q", row.PhoneNumber, "+15551234567")
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		t.Fatalf("counting users: %v", err)
	}
	if count != 1 {
		t.Errorf("users row count = %d, want 1", count)
	}
}

func TestSaveUserProfile_RegistrationDoesNotClearPhone(t *testing.T) {
	t.Parallel()

	store, db := newTestStore(t)
	ctx := context.Background()

	err := store.SaveUserProfile(ctx, &database.UserProfile{
		ChatID:      200,
		DisplayName: "Grace",
		PhoneNumber: sql.NullString{String: "+15550000000", Valid: true},
	})
	if err != nil {
		t.Fatalf("SaveUserProfile() error = %v", err)
	}

	// A repeated /start upserts name fields without a phone number; the
	// recorded number must be kept.
	err = store.SaveUserProfile(ctx, &database.UserProfile{
		ChatID:      200,
		DisplayName: "Grace H.",
	})
	if err != nil {
		t.Fatalf("SaveUserProfile() error = %v", err)
	}

	var row struct {
		DisplayName string         `db:"display_name"`
		PhoneNumber sql.NullString `db:"phone_number"`
	}
	if err := db.Get(&row, "SELECT display_name, phone_number FROM users WHERE chat_id = ?", 200); err != nil {
		t.Fatalf("querying users: %v", err)
	}

	if row.DisplayName != "Grace H." {
		t.Errorf("display_name = %q, want %q", row.DisplayName, "Grace H.")
	}
	if !row.PhoneNumber.Valid || row.PhoneNumber.String != "+15550000000" {
		t.Errorf("phone_number = %+v, want valid %q", row.PhoneNumber, "+15550000000")
	}
}

func TestSaveUserProfile_Validation(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveUserProfile(ctx, nil); err == nil {
		t.Error("SaveUserProfile(nil) expected error, got nil")
	}
	if err := store.SaveUserProfile(ctx, &database.UserProfile{}); err == nil {
		t.Error("SaveUserProfile() with zero chat_id expected error, got nil")
	}
}

func TestSaveChatRecord_AppendsWithWriteTimeTimestamp(t *testing.T) {
	t.Parallel()

	store, db := newTestStore(t)
	ctx := context.Background()

	record := &database.ChatRecord{
		ChatID:      300,
		UserMessage: "hello",
		BotResponse: "hi there",
	}
	if err := store.SaveChatRecord(ctx, record); err != nil {
		t.Fatalf("SaveChatRecord() error = %v", err)
	}

	if record.ID == 0 {
		t.Error("SaveChatRecord() did not assign an ID")
	}
	if record.Timestamp.IsZero() {
		t.Error("SaveChatRecord() did not assign a timestamp")
	}
	if record.Timestamp.Location() != time.UTC {
		t.Errorf("SaveChatRecord() timestamp location = %v, want UTC", record.Timestamp.Location())
	}

	// Records append; a second exchange for the same chat adds a row.
	second := &database.ChatRecord{ChatID: 300, UserMessage: "again", BotResponse: "sure"}
	if err := store.SaveChatRecord(ctx, second); err != nil {
		t.Fatalf("SaveChatRecord() error = %v", err)
	}
	if second.ID <= record.ID {
		t.Errorf("second record ID = %d, want > %d", second.ID, record.ID)
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM chat_history WHERE chat_id = ?", 300); err != nil {
		t.Fatalf("counting chat_history: %v", err)
	}
	if count != 2 {
		t.Errorf("chat_history row count = %d, want 2", count)
	}
}

func TestSaveMediaRecord_KindSelectsTable(t *testing.T) {
	t.Parallel()

	store, db := newTestStore(t)
	ctx := context.Background()

	image := &database.MediaRecord{
		ChatID:      400,
		SourceRef:   "photos/file_1.jpg",
		Description: "a lighthouse at dusk",
		Kind:        database.MediaKindImage,
	}
	if err := store.SaveMediaRecord(ctx, image); err != nil {
		t.Fatalf("SaveMediaRecord(image) error = %v", err)
	}

	doc := &database.MediaRecord{
		ChatID:      400,
		SourceRef:   "documents/file_2.pdf",
		Description: "Could not summarize the document.",
		Kind:        database.MediaKindDocument,
	}
	if err := store.SaveMediaRecord(ctx, doc); err != nil {
		t.Fatalf("SaveMediaRecord(document) error = %v", err)
	}

	var imageCount, docCount int
	if err := db.Get(&imageCount, "SELECT COUNT(*) FROM image_analysis WHERE chat_id = ?", 400); err != nil {
		t.Fatalf("counting image_analysis: %v", err)
	}
	if err := db.Get(&docCount, "SELECT COUNT(*) FROM document_analysis WHERE chat_id = ?", 400); err != nil {
		t.Fatalf("counting document_analysis: %v", err)
	}
	if imageCount != 1 || docCount != 1 {
		t.Errorf("row counts image=%d document=%d, want 1 and 1", imageCount, docCount)
	}

	var description string
	if err := db.Get(&description, "SELECT description FROM document_analysis WHERE chat_id = ?", 400); err != nil {
		t.Fatalf("querying document_analysis: %v", err)
	}
	if description != doc.Description {
		t.Errorf("description = %q, want %q", description, doc.Description)
	}
}

func TestSaveMediaRecord_UnknownKind(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	err := store.SaveMediaRecord(context.Background(), &database.MediaRecord{
		ChatID: 500,
		Kind:   database.MediaKind("audio"),
	})
	if err == nil {
		t.Error("SaveMediaRecord() with unknown kind expected error, got nil")
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Errorf("RunSQLMaintenance() error = %v", err)
	}
}
