package internal

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pactum/internal/extract"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Library LibraryConfig     `yaml:"library"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Extract ExtractConfig     `yaml:"extract"`
	Events  EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Library.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Extract.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// LibraryConfig holds the path to the contract library directory.
type LibraryConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the library configuration.
func (c *LibraryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// ExtractConfig controls text extraction and indexing parallelism.
//
// ForceOCR can also be switched on with FORCE_OCR=1 at runtime.
type ExtractConfig struct {
	ForceOCR  bool   `yaml:"force_ocr"`
	OCRDPI    int    `yaml:"ocr_dpi"`
	Pdftoppm  string `yaml:"pdftoppm"`
	Tesseract string `yaml:"tesseract"`
	Workers   int    `yaml:"workers"`
}

// Validate validates the extraction configuration.
func (c *ExtractConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OCRDPI, validation.Min(72), validation.Max(1200)),
		validation.Field(&c.Workers, validation.Min(0), validation.Max(256)),
	)
}

// Strategy converts the configuration into an extraction strategy config.
func (c *ExtractConfig) Strategy() extract.Config {
	return extract.Config{
		ForceOCR:  c.ForceOCR,
		OCRDPI:    c.OCRDPI,
		Pdftoppm:  c.Pdftoppm,
		Tesseract: c.Tesseract,
	}
}

// EventsConfig tunes the SSE event stream.
type EventsConfig struct {
	LibraryThrottle time.Duration `yaml:"library_throttle"`
	Heartbeat       time.Duration `yaml:"heartbeat"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LibraryThrottle, validation.Min(time.Duration(0))),
		validation.Field(&c.Heartbeat, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Library: LibraryConfig{
			Path: "./library",
		},
		SQLite: SQLiteConfig{
			Path: "./pactum.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Extract: ExtractConfig{
			OCRDPI:    extract.DefaultOCRDPI,
			Pdftoppm:  "pdftoppm",
			Tesseract: "tesseract",
			Workers:   runtime.NumCPU(),
		},
		Events: EventsConfig{
			LibraryThrottle: 2 * time.Second,
			Heartbeat:       30 * time.Second,
		},
	}
}
