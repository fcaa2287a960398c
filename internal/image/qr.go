package image

import (
	"fmt"
	"strings"

	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"

	"certinator/internal/domain"
)

// NamePlaceholder is substituted with the recipient name in QR content.
const NamePlaceholder = "{name}"

// StampQR draws a QR code encoding cfg.Content (with the name substituted)
// with its top-left corner at cfg.X, cfg.Y.
func StampQR(dc *gg.Context, cfg domain.QR, name string) error {
	content := strings.ReplaceAll(cfg.Content, NamePlaceholder, name)

	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	code.DisableBorder = true

	dc.DrawImage(code.Image(cfg.Size), cfg.X, cfg.Y)
	return nil
}
