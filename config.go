package winloop

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to construct a Window.
type Config struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background Color  `yaml:"background"`
	// IconPath is decoded with LoadIcon when Icon is nil.
	IconPath string      `yaml:"icon"`
	Icon     image.Image `yaml:"-"`
	// FrameRate caps the tick rate. Zero runs ticks back to back.
	FrameRate int          `yaml:"frame_rate"`
	LogLevel  string       `yaml:"log_level"`
	Logger    *slog.Logger `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Title:      "Title",
		Width:      500,
		Height:     500,
		Background: White,
		LogLevel:   "info",
	}
}

func (c Config) Size() Size {
	return Size{X: c.Width, Y: c.Height}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if c.FrameRate < 0 {
		return fmt.Errorf("invalid frame rate: %d", c.FrameRate)
	}
	if _, err := ResolveLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DecodeConfig reads YAML over the defaults. Unknown keys are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
