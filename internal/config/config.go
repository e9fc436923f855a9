package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tomz197/neoncatch/internal/input"
	"github.com/tomz197/neoncatch/internal/loop"
	"go.uber.org/zap/zapcore"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "neoncatch.toml"

// PlaceholderDisplayHost stands in for the public host until one is set.
const PlaceholderDisplayHost = "your-server.com"

type Config struct {
	Game    loop.Tuning   `toml:"game"`
	Input   InputConfig   `toml:"input"`
	SSH     SSHConfig     `toml:"ssh"`
	Web     WebConfig     `toml:"web"`
	Store   StoreConfig   `toml:"store"`
	Logging LoggingConfig `toml:"logging"`
}

type InputConfig struct {
	KeyHold time.Duration `toml:"key_hold"` // How long a terminal key press counts as held
	Pulse   time.Duration `toml:"pulse"`    // Tap length for sources without key repeat; terminals use KeyHold
}

type SSHConfig struct {
	Host            string        `toml:"host"`
	Port            string        `toml:"port"`
	HostKeyPath     string        `toml:"host_key"`
	IdleTimeout     time.Duration `toml:"idle_timeout"` // Disconnect idle players, 0 disables
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type WebConfig struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	DisplayHost string `toml:"display_host"` // SSH host shown on the landing page
}

type StoreConfig struct {
	Backend string `toml:"backend"` // "gdata" or "memory"
	AppName string `toml:"app_name"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	Output string `toml:"output"` // "stderr", "stdout", a file path, or "none"
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the file named by CONFIG_PATH, or DefaultPath.
func LoadDefault() (*Config, error) {
	return Load(GetEnv("CONFIG_PATH", DefaultPath))
}

func defaults() *Config {
	return &Config{
		Game: loop.DefaultTuning(),
		Input: InputConfig{
			KeyHold: input.DefaultKeyHold,
			Pulse:   input.DefaultPulseDuration,
		},
		SSH: SSHConfig{
			Host:            "::",
			Port:            "2222",
			HostKeyPath:     "/app/keys/host_key",
			IdleTimeout:     5 * time.Minute,
			ShutdownTimeout: 5 * time.Second,
		},
		Web: WebConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			DisplayHost: PlaceholderDisplayHost,
		},
		Store: StoreConfig{
			Backend: "gdata",
			AppName: "neoncatch",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Game.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("game: %w", err))
	}

	if c.Input.KeyHold <= 0 {
		errs = append(errs, fmt.Errorf("input: key_hold must be positive, got %s", c.Input.KeyHold))
	}
	if c.Input.Pulse <= 0 {
		errs = append(errs, fmt.Errorf("input: pulse must be positive, got %s", c.Input.Pulse))
	}

	if err := validPort(c.SSH.Port); err != nil {
		errs = append(errs, fmt.Errorf("ssh: %w", err))
	}
	if c.SSH.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("ssh: idle_timeout must not be negative, got %s", c.SSH.IdleTimeout))
	}
	if err := validPort(c.Web.Port); err != nil {
		errs = append(errs, fmt.Errorf("web: %w", err))
	}

	switch c.Store.Backend {
	case "gdata":
		if c.Store.AppName == "" {
			errs = append(errs, errors.New("store: app_name is required for the gdata backend"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("store: unknown backend %q", c.Store.Backend))
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func validPort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

// PublicURL is the landing page address, or "" while the display host is
// unset or still the placeholder.
func (w WebConfig) PublicURL() string {
	if w.DisplayHost == "" || w.DisplayHost == PlaceholderDisplayHost {
		return ""
	}
	return "https://" + w.DisplayHost
}
