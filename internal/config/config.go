package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the client configuration, read from a TOML file under the user
// config directory.
type Config struct {
	APIURL   string `toml:"api_url"`
	PageSize int    `toml:"page_size"`
	DataDir  string `toml:"data_dir"`
	LogPath  string `toml:"log_path,omitempty"`
	Auth     Auth   `toml:"auth"`
}

// Auth holds the identity provider settings.
type Auth struct {
	Domain      string `toml:"domain"`
	ClientID    string `toml:"client_id"`
	Audience    string `toml:"audience"`
	RedirectURL string `toml:"redirect_url"`
}

// DefaultPageSize matches the list view's default page window.
const DefaultPageSize = 10

// Default returns a config with defaults filled in. The API URL and identity
// provider settings have no sensible defaults and must be set by the user.
func Default() *Config {
	dataDir := ""
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "indbo")
	}
	return &Config{
		APIURL:   "http://127.0.0.1:8080",
		PageSize: DefaultPageSize,
		DataDir:  dataDir,
		Auth: Auth{
			RedirectURL: "http://127.0.0.1:53682/callback",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "indbo", "config.toml"), nil
}

// DatabasePath is where the local session database lives.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "session.sqlite3")
}

// KeyPath is where the session encryption key lives.
func (c *Config) KeyPath() string {
	return filepath.Join(c.DataDir, "session.key")
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Auth.Domain == "" {
		return fmt.Errorf("auth.domain is required")
	}
	if c.Auth.ClientID == "" {
		return fmt.Errorf("auth.client_id is required")
	}
	return nil
}

// Read decodes a Config from the provided reader.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the given path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Init writes cfg to path, failing if the file already exists.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()
	return Write(f, cfg)
}
