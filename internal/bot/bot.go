package bot

import (
	"context"

	"github.com/mymmrac/telego"
)

// Menu buttons shown by ShowMenu.
const (
	ButtonPreview  = "🎓 Preview"
	ButtonGenerate = "📦 Generate"
	ButtonSettings = "⚙️ Settings"
)

type File struct {
	FileID   string
	FilePath string
}

type Bot interface {
	Start(ctx context.Context, handler func(context.Context, telego.Update)) error

	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, name string, data []byte) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	ShowMenu(ctx context.Context, chatID int64) error

	GetFile(ctx context.Context, fileID string) (*File, error)
	FileDownloadURL(filePath string) string
}
