package handlers

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mymmrac/telego"

	"certinator/internal/bot"
	"certinator/internal/domain"
	"certinator/internal/files"
	"certinator/internal/logging"
	"certinator/internal/names"
	"certinator/internal/services"
	"certinator/internal/storage"
)

type uploadKind int

const (
	uploadUnknown uploadKind = iota
	uploadTemplate
	uploadFont
	uploadNames
)

var uploadKinds = map[string]uploadKind{
	".png":  uploadTemplate,
	".jpg":  uploadTemplate,
	".jpeg": uploadTemplate,
	".bmp":  uploadTemplate,
	".tif":  uploadTemplate,
	".tiff": uploadTemplate,
	".webp": uploadTemplate,
	".ttf":  uploadFont,
	".otf":  uploadFont,
	".csv":  uploadNames,
}

type Handler struct {
	service     *services.CertificateService
	bot         bot.Bot
	fileManager files.FileManager
	sessions    *storage.SessionStore
	nameColumn  string
	archiveName string
}

func NewHandler(
	service *services.CertificateService,
	bot bot.Bot,
	fileManager files.FileManager,
	sessions *storage.SessionStore,
	nameColumn string,
	archiveName string,
) *Handler {
	return &Handler{
		service:     service,
		bot:         bot,
		fileManager: fileManager,
		sessions:    sessions,
		nameColumn:  nameColumn,
		archiveName: archiveName,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update telego.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	switch text := strings.TrimSpace(msg.Text); {
	case text == "/start":
		h.sessions.Reset(chatID)
		_ = h.bot.ShowMenu(ctx, chatID)
		return
	case text == bot.ButtonPreview || text == "/preview":
		_ = h.withProcessing(ctx, chatID, func() error { return h.handlePreview(ctx, chatID) })
		return
	case text == bot.ButtonGenerate || text == "/generate":
		_ = h.withProcessing(ctx, chatID, func() error { return h.handleGenerate(ctx, chatID) })
		return
	case text == bot.ButtonSettings || text == "/settings":
		_ = h.bot.SendText(ctx, chatID, describeSession(h.sessions.Snapshot(chatID)))
		return
	case strings.HasPrefix(text, "/set"):
		h.handleSet(ctx, chatID, strings.TrimSpace(strings.TrimPrefix(text, "/set")))
		return
	}

	if h.sessions.IsProcessing(chatID) {
		_ = h.bot.SendText(ctx, chatID, "😵‍💫 Slow down, I'm already certinatin' it.")
		return
	}

	if msg.Document != nil || len(msg.Photo) > 0 {
		h.handleUpload(ctx, msg)
		return
	}

	_ = h.bot.ShowMenu(ctx, chatID)
}

func (h *Handler) handleUpload(ctx context.Context, msg *telego.Message) {
	chatID := msg.Chat.ID

	fileID, fileName, kind := classify(msg)
	if kind == uploadUnknown {
		_ = h.bot.SendText(ctx, chatID, "❌ Send a template (.png, .jpg), a font (.ttf, .otf) or a names list (.csv).")
		return
	}

	data, err := h.fileManager.Download(ctx, fileID)
	if err != nil {
		_ = h.fail(ctx, chatID, "download failed", "🚧 Error downloading "+fileName, err)
		return
	}
	src := domain.NewSource(fileName, data)

	switch kind {
	case uploadTemplate:
		h.sessions.Update(chatID, func(s *storage.Session) { s.Assets.Template = src })
		_ = h.bot.SendText(ctx, chatID, "🖼️ Template «"+fileName+"» saved.")
	case uploadFont:
		h.sessions.Update(chatID, func(s *storage.Session) { s.Assets.Font = src })
		_ = h.bot.SendText(ctx, chatID, "🔤 Font «"+fileName+"» saved.")
	case uploadNames:
		list, err := names.Load(src.Open(), h.nameColumn)
		if err != nil {
			_ = h.fail(ctx, chatID, "names list rejected", userMessage(err), err)
			return
		}
		h.sessions.Update(chatID, func(s *storage.Session) { s.Names = list })
		_ = h.bot.SendText(ctx, chatID, fmt.Sprintf("📋 %d names loaded, first is «%s».", len(list), list[0]))
	}
}

func (h *Handler) handlePreview(ctx context.Context, chatID int64) error {
	sess := h.sessions.Snapshot(chatID)
	if err := requireUploads(sess); err != nil {
		return h.fail(ctx, chatID, "preview refused", userMessage(err), err)
	}

	first := sess.Names[0]
	_ = h.bot.SendText(ctx, chatID, "⏳ Previewing with the first name from your list: "+first)

	data, err := h.service.Preview(sess.Assets, sess.Options, first)
	if err != nil {
		return h.fail(ctx, chatID, "preview failed", userMessage(err), err)
	}
	return h.bot.SendPhoto(ctx, chatID, "preview.png", data)
}

func (h *Handler) handleGenerate(ctx context.Context, chatID int64) error {
	sess := h.sessions.Snapshot(chatID)
	if err := requireUploads(sess); err != nil {
		return h.fail(ctx, chatID, "generate refused", userMessage(err), err)
	}

	_ = h.bot.SendText(ctx, chatID, fmt.Sprintf("⏳ Generating %d certificates...", len(sess.Names)))
	_ = h.bot.SendChatAction(ctx, chatID, telego.ChatActionUploadDocument)

	buf := new(bytes.Buffer)
	report, err := h.service.Generate(ctx, sess.Names, sess.Assets, sess.Options, buf)
	if err != nil {
		return h.fail(ctx, chatID, "generate failed", userMessage(err), err)
	}

	if err := h.bot.SendDocument(ctx, chatID, h.archiveName, buf.Bytes()); err != nil {
		return h.fail(ctx, chatID, "send error", "🚧 Error sending the archive", err)
	}

	summary := fmt.Sprintf("✅ Generation complete: %d certificates.", len(report.Entries))
	if len(report.Skipped) > 0 {
		var sb strings.Builder
		sb.WriteString(summary)
		sb.WriteString(fmt.Sprintf("\n⚠️ Skipped %d:", len(report.Skipped)))
		for _, s := range report.Skipped {
			sb.WriteString(fmt.Sprintf("\n• %s: %v", s.Name, s.Err))
		}
		summary = sb.String()
	}
	return h.bot.SendText(ctx, chatID, summary)
}

func (h *Handler) handleSet(ctx context.Context, chatID int64, args string) {
	key, value, ok := strings.Cut(args, " ")
	if !ok {
		_ = h.bot.SendText(ctx, chatID, setUsage)
		return
	}

	opts := h.sessions.Snapshot(chatID).Options
	if err := applySetting(&opts, key, strings.TrimSpace(value)); err != nil {
		_ = h.bot.SendText(ctx, chatID, "❌ "+err.Error()+"\n\n"+setUsage)
		return
	}
	if err := opts.Validate(); err != nil {
		_ = h.bot.SendText(ctx, chatID, userMessage(err))
		return
	}

	h.sessions.Update(chatID, func(s *storage.Session) { s.Options = opts })
	_ = h.bot.SendText(ctx, chatID, "⚙️ "+key+" = "+strings.TrimSpace(value))
}

func (h *Handler) withProcessing(ctx context.Context, chatID int64, fn func() error) error {
	if !h.sessions.TryStart(chatID) {
		_ = h.bot.SendText(ctx, chatID, "😵‍💫 Slow down, I'm already certinatin' it.")
		return fmt.Errorf("already processing")
	}
	defer h.sessions.Finish(chatID)
	return fn()
}

func (h *Handler) fail(ctx context.Context, chatID int64, logMsg, userMsg string, err error) error {
	logging.Warn(logMsg, "chat", chatID, "stage", domain.Stage(err), "error", err)
	_ = h.bot.SendText(ctx, chatID, userMsg)
	return err
}

func classify(msg *telego.Message) (fileID, fileName string, kind uploadKind) {
	if msg.Document != nil {
		name := msg.Document.FileName
		return msg.Document.FileID, name, uploadKinds[strings.ToLower(filepath.Ext(name))]
	}
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, "photo.jpg", uploadTemplate
	}
	return "", "", uploadUnknown
}

func requireUploads(sess storage.Session) error {
	if err := sess.Assets.Validate(); err != nil {
		return err
	}
	if len(sess.Names) == 0 {
		return &domain.ValidationError{Input: "names list", Err: domain.ErrNoNames}
	}
	return nil
}
