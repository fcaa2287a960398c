package files

import (
	"fmt"
	"os"
	"path/filepath"

	"certinator/internal/domain"
)

// AssetLoader reads template and font files from disk. Missing files are
// not an error: interactive sessions can still upload their own.
type AssetLoader struct {
	templatePath string
	fontPath     string
}

func NewAssetLoader(assetsDir, templateFile, fontFile string) *AssetLoader {
	l := &AssetLoader{}
	if templateFile != "" {
		l.templatePath = filepath.Join(assetsDir, templateFile)
	}
	if fontFile != "" {
		l.fontPath = filepath.Join(assetsDir, fontFile)
	}
	return l
}

func readSource(path string) (domain.Source, error) {
	if path == "" {
		return domain.Source{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return domain.Source{}, nil
	}
	if err != nil {
		return domain.Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.NewSource(filepath.Base(path), data), nil
}

func (l *AssetLoader) Load() (domain.Assets, error) {
	tpl, err := readSource(l.templatePath)
	if err != nil {
		return domain.Assets{}, err
	}
	fnt, err := readSource(l.fontPath)
	if err != nil {
		return domain.Assets{}, err
	}
	return domain.Assets{Template: tpl, Font: fnt}, nil
}

// LoadFile reads a single upload from an explicit path.
func LoadFile(path string) (domain.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.NewSource(filepath.Base(path), data), nil
}
