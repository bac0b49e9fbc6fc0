package uasset

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the environment configuration used by tools built on this
// package.
type Config struct {
	Root          string `env:"UASSET_ROOT" envDefault:"."`
	Game          string `env:"UASSET_GAME"`
	LogLevel      string `env:"UASSET_LOG_LEVEL" envDefault:"warn"`
	MaxSegmentMiB uint64 `env:"UASSET_MAX_SEGMENT_MIB"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level maps LogLevel onto a slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Logger returns a text logger writing to stderr at the configured level.
func (c Config) Logger() (*slog.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func (c Config) Limits() Limits {
	return Limits{MaxSegmentUncompressed: c.MaxSegmentMiB << 20}.withDefaults()
}

// Provider opens an FSProvider rooted at Root.
func (c Config) Provider(logger *slog.Logger) (*FSProvider, error) {
	return NewFSProvider(os.DirFS(c.Root),
		WithGameName(c.Game),
		WithProviderLimits(c.Limits()),
		WithProviderLogger(logger),
	)
}
