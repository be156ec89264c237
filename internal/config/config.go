package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port    string `koanf:"port"`
	GinMode string `koanf:"gin_mode"`

	MessagesPath string `koanf:"messages_path"`
	ContentFile  string `koanf:"content_file"`
	DatabasePath string `koanf:"database_path"`

	BackgroundAnimation string        `koanf:"background_animation"`
	AvatarURL           string        `koanf:"avatar_url"`
	AboutAnimationURL   string        `koanf:"about_animation_url"`
	ContactAnimationURL string        `koanf:"contact_animation_url"`
	FetchTimeout        time.Duration `koanf:"fetch_timeout"`

	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	SMTPHost string `koanf:"smtp_host"`
	SMTPPort string `koanf:"smtp_port"`
	SMTPUser string `koanf:"smtp_user"`
	SMTPPass string `koanf:"smtp_pass"`
	ToEmail  string `koanf:"to_email"`
}

// DefaultConfig returns a Config with the values used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Port:                "8080",
		MessagesPath:        "messages.csv",
		DatabasePath:        "data/visitors.db",
		BackgroundAnimation: "Background looping animation.json",
		AvatarURL:           "https://avatars.githubusercontent.com/u/9919?s=200&v=4",
		AboutAnimationURL:   "https://assets2.lottiefiles.com/packages/lf20_jcikwtux.json",
		ContactAnimationURL: "https://assets2.lottiefiles.com/packages/lf20_jtbfg2nb.json",
		FetchTimeout:        8 * time.Second,
		SMTPHost:            "smtp.gmail.com",
		SMTPPort:            "587",
	}
}

// envKeys lists the environment variables the server reads. Anything else in
// the environment is ignored.
var envKeys = map[string]bool{
	"port":                  true,
	"gin_mode":              true,
	"messages_path":         true,
	"content_file":          true,
	"database_path":         true,
	"background_animation":  true,
	"avatar_url":            true,
	"about_animation_url":   true,
	"contact_animation_url": true,
	"fetch_timeout":         true,
	"admin_username":        true,
	"admin_password":        true,
	"smtp_host":             true,
	"smtp_port":             true,
	"smtp_user":             true,
	"smtp_pass":             true,
	"to_email":              true,
}

// Load builds the configuration from defaults, then the YAML file at path (if
// it exists), then the environment. A .env file in the working directory is
// loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if !envKeys[key] {
			return ""
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// validGinModes is the set of accepted gin_mode values. Empty leaves gin's
// own default in place.
var validGinModes = map[string]bool{
	"":        true,
	"debug":   true,
	"release": true,
	"test":    true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if strings.ContainsAny(c.Port, ": ") {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.MessagesPath == "" {
		return fmt.Errorf("messages_path is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if !validGinModes[c.GinMode] {
		return fmt.Errorf("invalid gin_mode %q: must be one of debug, release, test", c.GinMode)
	}
	return nil
}

// SMTPConfigured reports whether contact notifications can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPass != ""
}

// NotifyAddress is where contact notifications go, falling back to the SMTP
// account itself.
func (c *Config) NotifyAddress() string {
	if c.ToEmail != "" {
		return c.ToEmail
	}
	return c.SMTPUser
}
