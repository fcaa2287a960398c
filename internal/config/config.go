package config

import (
	"certinator/internal/domain"
	"certinator/internal/logging"
)

type Config struct {
	BotToken    string          `yaml:"bot_token"`
	MaxFileSize int64           `yaml:"max_file_size"`
	Assets      AssetsConfig    `yaml:"assets"`
	HTTP        HTTPConfig      `yaml:"http"`
	Names       NamesConfig     `yaml:"names"`
	Render      domain.Options  `yaml:"render"`
	Logger      logging.Options `yaml:"logger"`
}

// AssetsConfig points at a default template and font that sessions start
// with before the user uploads their own.
type AssetsConfig struct {
	Dir          string `yaml:"dir"`
	TemplateFile string `yaml:"template_file"`
	FontFile     string `yaml:"font_file"`
}

type HTTPConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

type NamesConfig struct {
	Column      string `yaml:"column"`
	ArchiveName string `yaml:"archive_name"`
}

func Default() Config {
	return Config{
		MaxFileSize: 10 * 1024 * 1024,
		Assets: AssetsConfig{
			Dir: "./assets",
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			MaxUploadBytes: 32 * 1024 * 1024,
		},
		Names: NamesConfig{
			Column:      "Name",
			ArchiveName: "Ready_Certificates.zip",
		},
		Render: domain.DefaultOptions(),
		Logger: logging.Options{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
