package files

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"certinator/internal/bot"
)

type telegramFileManager struct {
	client      bot.Bot
	httpClient  *http.Client
	maxFileSize int64
}

func NewTelegramFileManager(client bot.Bot, maxFileSize int64) FileManager {
	return &telegramFileManager{
		client:      client,
		httpClient:  http.DefaultClient,
		maxFileSize: maxFileSize,
	}
}

func (fm *telegramFileManager) Download(ctx context.Context, fileID string) ([]byte, error) {
	tf, err := fm.client.GetFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("GetFile error: %w", err)
	}
	if tf == nil || tf.FilePath == "" {
		return nil, fmt.Errorf("invalid file info from telegram for id %s", fileID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fm.client.FileDownloadURL(tf.FilePath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := fm.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download failed: status %s, body: %s", resp.Status, string(body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, fm.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read downloaded file: %w", err)
	}
	if int64(len(data)) > fm.maxFileSize {
		return nil, fmt.Errorf("file exceeds %d bytes", fm.maxFileSize)
	}
	return data, nil
}
