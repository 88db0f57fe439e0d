package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	fileDownloadTimeout = 30 * time.Second
	maxDownloadSize     = 20 * 1024 * 1024
)

// ErrDownloadFailed marks a failure to resolve or fetch a file from the
// transport. Handlers convert it to a user-facing error message and write
// no record for the event.
var ErrDownloadFailed = errors.New("file download failed")

// ResolveFile asks the transport for the file path behind a file ID.
// The returned path doubles as the stored source reference for media records.
func ResolveFile(ctx context.Context, b *bot.Bot, fileID string) (*models.File, error) {
	if fileID == "" {
		return nil, fmt.Errorf("%w: empty file ID", ErrDownloadFailed)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, ctx.Err())
	}

	resolveCtx, cancel := context.WithTimeout(ctx, fileDownloadTimeout)
	defer cancel()

	fileObj, err := b.GetFile(resolveCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get file info from Telegram: %w", ErrDownloadFailed, err)
	}
	if fileObj.FilePath == "" {
		return nil, fmt.Errorf("%w: empty file path returned for file ID %s", ErrDownloadFailed, fileID)
	}
	return fileObj, nil
}

// DownloadFile fetches the bytes behind a resolved file path. It returns the
// data and its detected MIME type.
func DownloadFile(ctx context.Context, token, filePath string) (data []byte, mimeType string, err error) {
	if token == "" {
		return nil, "", fmt.Errorf("%w: empty token provided", ErrDownloadFailed)
	}
	if filePath == "" {
		return nil, "", fmt.Errorf("%w: empty file path provided", ErrDownloadFailed)
	}

	downloadCtx, cancel := context.WithTimeout(ctx, fileDownloadTimeout)
	defer cancel()

	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", token, filePath)
	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to create HTTP request: %w", ErrDownloadFailed, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to download %s: %w", ErrDownloadFailed, filePath, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: failed to close response body: %w", ErrDownloadFailed, closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", fmt.Errorf("%w: unexpected status code %d for %s: %s", ErrDownloadFailed, resp.StatusCode, filePath, string(bodyBytes))
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read file data for %s: %w", ErrDownloadFailed, filePath, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: received empty file data for %s", ErrDownloadFailed, filePath)
	}

	mimeType = http.DetectContentType(data)
	return data, mimeType, nil
}
