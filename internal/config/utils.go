package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"certinator/internal/logging"
)

const defaultPath = "config.yaml"

// Load reads the YAML file named by CONFIG_PATH (config.yaml by default; a
// missing file is fine) and applies environment overrides on top.
func Load() (Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultPath
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logging.Debug("No config file, using defaults", "path", path)
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Render.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.BotToken = getEnv("TOKEN", cfg.BotToken, parseString)
	cfg.MaxFileSize = getEnv("MAX_FILE_SIZE", cfg.MaxFileSize, parseInt64)

	cfg.Assets.Dir = getEnv("ASSETS_DIR", cfg.Assets.Dir, parseString)
	cfg.Assets.TemplateFile = getEnv("TEMPLATE_FILE", cfg.Assets.TemplateFile, parseString)
	cfg.Assets.FontFile = getEnv("FONT_FILE", cfg.Assets.FontFile, parseString)

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr, parseString)
	cfg.HTTP.Enabled = getEnv("HTTP_ENABLED", cfg.HTTP.Enabled, strconv.ParseBool)

	cfg.Render.Y = getEnv("Y_COORDINATE", cfg.Render.Y, strconv.Atoi)
	cfg.Render.FontSize = getEnv("FONT_SIZE", cfg.Render.FontSize, strconv.Atoi)
	cfg.Render.Spacing = getEnv("EXTRA_SPACES", cfg.Render.Spacing, strconv.Atoi)
	cfg.Render.Color = getEnv("FONT_COLOR", cfg.Render.Color, parseString)

	cfg.Logger.Level = getEnv("LOG_LEVEL", cfg.Logger.Level, parseString)
	cfg.Logger.File = getEnv("LOG_FILE", cfg.Logger.File, parseString)
}

func getEnv[T any](key string, defaultValue T, parser func(string) (T, error)) T {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	parsed, err := parser(val)
	if err != nil {
		logging.Warn("Invalid environment value, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}

	return parsed
}

func parseString(val string) (string, error) {
	return val, nil
}

func parseInt64(val string) (int64, error) {
	return strconv.ParseInt(val, 10, 64)
}
