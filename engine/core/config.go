package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"
)

// Config for the engine run.
type Config struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [4]float32 `yaml:"clear_color"` // RGBA
	// AssetDir is the root the asset loader reads from.
	AssetDir string `yaml:"asset_dir"`
	// LogLevel is one of debug, info, warn, error; empty disables logging.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the values used for any field a config file leaves out.
func DefaultConfig() Config {
	return Config{
		Title:      "grove",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: [4]float32{0, 0, 0, 1},
		AssetDir:   ".",
	}
}

// LoadConfig reads a YAML config from fs. A missing file yields the defaults.
func LoadConfig(fs billy.Filesystem, path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("config %q: window size %dx%d must be positive", path, cfg.Width, cfg.Height)
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok && cfg.LogLevel != "" {
		return cfg, fmt.Errorf("config %q: unknown log level %q", path, cfg.LogLevel)
	}
	return cfg, nil
}

// Logger builds a text logger at cfg.LogLevel writing to w, or nil when
// logging is disabled.
func (cfg Config) Logger(w io.Writer) *slog.Logger {
	lvl, ok := parseLevel(cfg.LogLevel)
	if !ok {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}
