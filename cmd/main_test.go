package main

import (
	"archive/zip"
	"bytes"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"certinator/internal/config"
	"certinator/internal/image"
	"certinator/internal/services"
)

func writeInputs(t *testing.T, csv string) (dir, tpl, fnt, names string) {
	t.Helper()
	dir = t.TempDir()

	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tpl = filepath.Join(dir, "template.png")
	fnt = filepath.Join(dir, "font.ttf")
	names = filepath.Join(dir, "names.csv")
	require.NoError(t, os.WriteFile(tpl, buf.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(fnt, goregular.TTF, 0o644))
	require.NoError(t, os.WriteFile(names, []byte(csv), 0o644))
	return dir, tpl, fnt, names
}

func testService() *services.CertificateService {
	processor := &image.Processor{}
	return services.NewCertificateService(image.NewRenderer(processor, &image.TextRenderer{}), processor)
}

func TestRunBatch_WritesArchive(t *testing.T) {
	dir, tpl, fnt, names := writeInputs(t, "Name,Email\nAna Lee,a@x\n\nBo,b@x\n")
	out := filepath.Join(dir, "out.zip")

	code := runBatch(testService(), config.Default(), []string{
		"--template", tpl, "--font", fnt, "--names", names, "--out", out,
		"--y", "40", "--size", "24",
	})
	require.Equal(t, 0, code)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	var got []string
	for _, f := range zr.File {
		got = append(got, f.Name)
	}
	assert.Equal(t, []string{"Ana_Lee.png", "Bo.png"}, got)
}

func TestRunBatch_Preview(t *testing.T) {
	dir, tpl, fnt, names := writeInputs(t, "Name\nAna\n")
	preview := filepath.Join(dir, "preview.png")

	code := runBatch(testService(), config.Default(), []string{
		"-t", tpl, "-f", fnt, "-n", names, "--preview", preview, "--y", "40", "--size", "24",
	})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(preview)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRunBatch_Failures(t *testing.T) {
	dir, tpl, fnt, names := writeInputs(t, "Email\na@x\n")
	out := filepath.Join(dir, "out.zip")

	assert.Equal(t, 2, runBatch(testService(), config.Default(), []string{"--template", tpl}))
	assert.Equal(t, 1, runBatch(testService(), config.Default(), []string{
		"--template", tpl, "--font", fnt, "--names", names, "--out", out,
	}))
	assert.NoFileExists(t, out)

	bad := filepath.Join(dir, "bad.ttf")
	require.NoError(t, os.WriteFile(bad, []byte("not a font"), 0o644))
	require.NoError(t, os.WriteFile(names, []byte("Name\nAna\n"), 0o644))
	assert.Equal(t, 1, runBatch(testService(), config.Default(), []string{
		"--template", tpl, "--font", bad, "--names", names, "--out", out,
	}))
	assert.NoFileExists(t, out)
}
