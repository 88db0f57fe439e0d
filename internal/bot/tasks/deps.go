// Package tasks contains scheduled task implementations and their registry.
package tasks

import (
	"context"
	"log/slog"

	"github.com/edgard/geminibot/internal/config"
	"github.com/edgard/geminibot/internal/database"
)

// ScheduledTaskFunc is the signature every scheduled task implements.
type ScheduledTaskFunc func(ctx context.Context) error

// TaskDeps provides dependencies for scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
}
