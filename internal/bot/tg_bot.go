package bot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"certinator/internal/logging"
)

type TelegramBot struct {
	client       *telego.Bot
	maxPhotoSize int64
}

func NewTelegramBot(token string, maxPhotoSize int64) (Bot, error) {
	b, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telego bot: %w", err)
	}

	return &TelegramBot{
		client:       b,
		maxPhotoSize: maxPhotoSize,
	}, nil
}

func (tb *TelegramBot) Start(ctx context.Context, handler func(context.Context, telego.Update)) error {
	updates, err := tb.client.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{Timeout: 30})
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	logging.Info("Bot started receiving updates")

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				logging.Info("Updates channel closed, bot stopped")
				return nil
			}
			go handler(ctx, update)

		case <-ctx.Done():
			logging.Info("Bot stopped by context cancellation")
			return ctx.Err()
		}
	}
}

func (tb *TelegramBot) SendPhoto(ctx context.Context, chatID int64, name string, data []byte) error {
	if int64(len(data)) > tb.maxPhotoSize {
		return tb.SendDocument(ctx, chatID, name, data)
	}

	_, err := tb.client.SendPhoto(ctx, &telego.SendPhotoParams{
		ChatID: tu.ID(chatID),
		Photo:  tu.File(tu.NameReader(bytes.NewReader(data), name)),
	})
	if err != nil {
		return fmt.Errorf("failed to send photo to chat %d: %w", chatID, err)
	}
	return nil
}

func (tb *TelegramBot) SendDocument(ctx context.Context, chatID int64, name string, data []byte) error {
	_, err := tb.client.SendDocument(ctx, &telego.SendDocumentParams{
		ChatID:   tu.ID(chatID),
		Document: tu.File(tu.NameReader(bytes.NewReader(data), name)),
	})
	if err != nil {
		return fmt.Errorf("failed to send document to chat %d: %w", chatID, err)
	}
	return nil
}

func (tb *TelegramBot) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := tb.client.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: tu.ID(chatID),
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (tb *TelegramBot) SendChatAction(ctx context.Context, chatID int64, action string) error {
	err := tb.client.SendChatAction(ctx, &telego.SendChatActionParams{
		ChatID: tu.ID(chatID),
		Action: action,
	})
	if err != nil {
		return fmt.Errorf("failed to send chat action: %w", err)
	}
	return nil
}

func (tb *TelegramBot) ShowMenu(ctx context.Context, chatID int64) error {
	keyboard := tu.Keyboard(
		tu.KeyboardRow(
			tu.KeyboardButton(ButtonPreview),
			tu.KeyboardButton(ButtonGenerate),
		),
		tu.KeyboardRow(
			tu.KeyboardButton(ButtonSettings),
		),
	).WithResizeKeyboard()

	text := "🎓 Send me a template image, a .ttf font and a .csv with a Name column.\n" +
		"Then press Preview or Generate."

	_, err := tb.client.SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithReplyMarkup(keyboard))
	if err != nil {
		return fmt.Errorf("failed to show menu in chat %d: %w", chatID, err)
	}
	return nil
}

func (tb *TelegramBot) GetFile(ctx context.Context, fileID string) (*File, error) {
	f, err := tb.client.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for ID %s: %w", fileID, err)
	}

	return &File{
		FileID:   f.FileID,
		FilePath: f.FilePath,
	}, nil
}

func (tb *TelegramBot) FileDownloadURL(filePath string) string {
	return tb.client.FileDownloadURL(filePath)
}
