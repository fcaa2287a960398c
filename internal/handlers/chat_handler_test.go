package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"certinator/internal/bot"
	"certinator/internal/domain"
	"certinator/internal/image"
	"certinator/internal/services"
	"certinator/internal/storage"
)

type sentFile struct {
	kind string
	name string
	data []byte
}

type fakeBot struct {
	bot.Bot
	mu    sync.Mutex
	texts []string
	files []sentFile
	menus int
}

func (f *fakeBot) SendText(_ context.Context, _ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeBot) SendPhoto(_ context.Context, _ int64, name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, sentFile{"photo", name, data})
	return nil
}

func (f *fakeBot) SendDocument(_ context.Context, _ int64, name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, sentFile{"document", name, data})
	return nil
}

func (f *fakeBot) SendChatAction(context.Context, int64, string) error { return nil }

func (f *fakeBot) ShowMenu(context.Context, int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.menus++
	return nil
}

func (f *fakeBot) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type fakeFiles map[string][]byte

func (f fakeFiles) Download(_ context.Context, fileID string) ([]byte, error) {
	data, ok := f[fileID]
	if !ok {
		return nil, fmt.Errorf("no file %s", fileID)
	}
	return data, nil
}

func templateBytes(t *testing.T) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 300, 150))
	draw.Draw(img, img.Bounds(), stdimage.NewUniform(color.White), stdimage.Point{}, draw.Src)
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func newTestHandler(t *testing.T) (*Handler, *fakeBot, *storage.SessionStore) {
	t.Helper()
	processor := &image.Processor{}
	svc := services.NewCertificateService(image.NewRenderer(processor, &image.TextRenderer{}), processor)

	opts := domain.DefaultOptions()
	opts.Y = 40
	opts.FontSize = 24

	fb := &fakeBot{}
	sessions := storage.NewSessionStore(domain.Assets{}, opts)
	fm := fakeFiles{
		"tpl":   templateBytes(t),
		"font":  goregular.TTF,
		"names": []byte("Name,Email\nAlice Smith,a@x.io\nBob,b@x.io\n"),
		"nocol": []byte("Email\na@x.io\n"),
	}
	return NewHandler(svc, fb, fm, sessions, "Name", "Ready_Certificates.zip"), fb, sessions
}

func document(chatID int64, fileID, name string) telego.Update {
	return telego.Update{Message: &telego.Message{
		Chat:     telego.Chat{ID: chatID},
		Document: &telego.Document{FileID: fileID, FileName: name},
	}}
}

func text(chatID int64, s string) telego.Update {
	return telego.Update{Message: &telego.Message{Chat: telego.Chat{ID: chatID}, Text: s}}
}

func uploadAll(h *Handler) {
	ctx := context.Background()
	h.HandleUpdate(ctx, document(1, "tpl", "template.png"))
	h.HandleUpdate(ctx, document(1, "font", "font.ttf"))
	h.HandleUpdate(ctx, document(1, "names", "names.csv"))
}

func TestHandler_UploadsFillSession(t *testing.T) {
	h, fb, sessions := newTestHandler(t)
	uploadAll(h)

	sess := sessions.Snapshot(1)
	assert.Equal(t, "template.png", sess.Assets.Template.Name)
	assert.Equal(t, "font.ttf", sess.Assets.Font.Name)
	assert.Equal(t, []string{"Alice Smith", "Bob"}, sess.Names)
	assert.Contains(t, fb.lastText(), "2 names loaded")
}

func TestHandler_RejectsCSVWithoutNameColumn(t *testing.T) {
	h, fb, sessions := newTestHandler(t)
	h.HandleUpdate(context.Background(), document(1, "nocol", "list.csv"))

	assert.Contains(t, fb.lastText(), `exactly named "Name"`)
	assert.Empty(t, sessions.Snapshot(1).Names)
}

func TestHandler_UnknownUpload(t *testing.T) {
	h, fb, _ := newTestHandler(t)
	h.HandleUpdate(context.Background(), document(1, "x", "notes.docx"))
	assert.Contains(t, fb.lastText(), "Send a template")
}

func TestHandler_Preview(t *testing.T) {
	h, fb, _ := newTestHandler(t)
	uploadAll(h)

	h.HandleUpdate(context.Background(), text(1, bot.ButtonPreview))

	require.Len(t, fb.files, 1)
	assert.Equal(t, "photo", fb.files[0].kind)
	_, err := png.Decode(bytes.NewReader(fb.files[0].data))
	assert.NoError(t, err)
	assert.Contains(t, strings.Join(fb.texts, "\n"), "Alice Smith")
}

func TestHandler_PreviewNeedsUploads(t *testing.T) {
	h, fb, _ := newTestHandler(t)
	h.HandleUpdate(context.Background(), text(1, "/preview"))

	assert.Empty(t, fb.files)
	assert.Contains(t, fb.lastText(), "template")
}

func TestHandler_Generate(t *testing.T) {
	h, fb, sessions := newTestHandler(t)
	uploadAll(h)

	h.HandleUpdate(context.Background(), text(1, bot.ButtonGenerate))

	require.Len(t, fb.files, 1)
	doc := fb.files[0]
	assert.Equal(t, "Ready_Certificates.zip", doc.name)

	zr, err := zip.NewReader(bytes.NewReader(doc.data), int64(len(doc.data)))
	require.NoError(t, err)
	var got []string
	for _, f := range zr.File {
		got = append(got, f.Name)
	}
	assert.Equal(t, []string{"Alice_Smith.png", "Bob.png"}, got)
	assert.Contains(t, fb.lastText(), "2 certificates")
	assert.False(t, sessions.IsProcessing(1))
}

func TestHandler_GenerateReportsFontStage(t *testing.T) {
	h, fb, sessions := newTestHandler(t)
	uploadAll(h)
	sessions.Update(1, func(s *storage.Session) { s.Assets.Font = domain.NewSource("bad.ttf", []byte("junk")) })

	h.HandleUpdate(context.Background(), text(1, "/generate"))

	assert.Empty(t, fb.files)
	assert.Contains(t, fb.lastText(), "font could not be loaded")
}

func TestHandler_BusyChat(t *testing.T) {
	h, fb, sessions := newTestHandler(t)
	require.True(t, sessions.TryStart(1))

	h.HandleUpdate(context.Background(), text(1, "/generate"))
	assert.Contains(t, fb.lastText(), "already")

	h.HandleUpdate(context.Background(), document(1, "tpl", "template.png"))
	assert.True(t, sessions.Snapshot(1).Assets.Template.Empty())
}

func TestHandler_Set(t *testing.T) {
	h, fb, sessions := newTestHandler(t)
	ctx := context.Background()

	h.HandleUpdate(ctx, text(1, "/set size 72"))
	assert.Equal(t, 72, sessions.Snapshot(1).Options.FontSize)

	h.HandleUpdate(ctx, text(1, "/set color #ff0000"))
	assert.Equal(t, "#ff0000", sessions.Snapshot(1).Options.Color)

	h.HandleUpdate(ctx, text(1, "/set spaces 0"))
	assert.Equal(t, 2, sessions.Snapshot(1).Options.Spacing)
	assert.Contains(t, fb.lastText(), "extra_spaces")

	h.HandleUpdate(ctx, text(1, "/set y abc"))
	assert.Contains(t, fb.lastText(), "whole number")

	h.HandleUpdate(ctx, text(1, "/set"))
	assert.Contains(t, fb.lastText(), "Usage")
}

func TestHandler_StartResetsSession(t *testing.T) {
	h, fb, sessions := newTestHandler(t)
	uploadAll(h)

	h.HandleUpdate(context.Background(), text(1, "/start"))
	assert.Empty(t, sessions.Snapshot(1).Names)
	assert.Equal(t, 1, fb.menus)
}

func TestHandler_Settings(t *testing.T) {
	h, fb, _ := newTestHandler(t)
	h.HandleUpdate(context.Background(), text(1, bot.ButtonSettings))
	assert.Contains(t, fb.lastText(), "Template: missing")
	assert.Contains(t, fb.lastText(), "size = 24")
}

func TestApplySetting(t *testing.T) {
	opts := domain.DefaultOptions()
	require.NoError(t, applySetting(&opts, "format", "JPG"))
	assert.Equal(t, domain.FormatJPEG, opts.OutputFormat)
	require.NoError(t, applySetting(&opts, "skip_failed", "on"))
	assert.True(t, opts.ContinueOnError)
	assert.Error(t, applySetting(&opts, "skip_failed", "maybe"))
	assert.Error(t, applySetting(&opts, "dpi", "300"))
}
