// Package config loads the optional oxy-cube.toml file that tunes the window, the graphics backend
// and logging.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-cube/engine"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/window"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "oxy-cube.toml"

// Config holds every tunable of the application.
type Config struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Backend   string `toml:"backend"`
	AssetDir  string `toml:"asset_dir"`
	LogLevel  string `toml:"log_level"`
	Profiling bool   `toml:"profiling"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Title:    "Video Cube",
		Width:    800,
		Height:   600,
		Backend:  renderer.BackendTypeOpenGL.String(),
		AssetDir: ".",
		LogLevel: "info",
	}
}

// Load reads the file at path over the defaults. A missing file yields the defaults.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the file exists but cannot be read, parsed or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults. Unknown keys are rejected.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if decoding or validation fails
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return Default(), fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	if _, err := c.BackendType(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// BackendType maps the backend name to a renderer backend type.
func (c Config) BackendType() (renderer.RendererBackendType, error) {
	switch c.Backend {
	case renderer.BackendTypeOpenGL.String(), "":
		return renderer.BackendTypeOpenGL, nil
	case renderer.BackendTypeWGPU.String():
		return renderer.BackendTypeWGPU, nil
	default:
		return renderer.BackendTypeOpenGL, fmt.Errorf("unknown backend %q", c.Backend)
	}
}

// Level parses the log level name (debug, info, warn, error).
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// NewLogger builds the text logger the application installs at startup.
//
// Parameters:
//   - w: the destination of log records
//
// Returns:
//   - *slog.Logger: a logger filtering at the configured level
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.Level()
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WindowOptions converts the configuration to window options. The window requests a client API
// matching the backend.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	api := window.GraphicsAPIOpenGL
	if bt, _ := c.BackendType(); bt == renderer.BackendTypeWGPU {
		api = window.GraphicsAPIWebGPU
	}
	return []window.WindowBuilderOption{
		window.WithTitle(c.Title),
		window.WithWidth(c.Width),
		window.WithHeight(c.Height),
		window.WithGraphicsAPI(api),
	}
}

// RendererOptions converts the configuration to renderer options.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	bt, _ := c.BackendType()
	return []renderer.RendererBuilderOption{
		renderer.WithBackendType(bt),
		renderer.WithPresentMode(renderer.PresentModeVSync),
	}
}

// EngineOptions converts the configuration to render loop options, including the renderer
// options used when the context is acquired.
func (c Config) EngineOptions() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithProfiling(c.Profiling),
		engine.WithRendererOptions(c.RendererOptions()...),
	}
}
