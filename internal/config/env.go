package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFiles are loaded, when present, before the environment is parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Options holds runtime settings read from the environment.
// CLI flags override them field by field.
type Options struct {
	ListenAddr     string `env:"ORBITA_LISTEN_ADDR"`
	DatabasePath   string `env:"ORBITA_DB_PATH"`
	Language       string `env:"ORBITA_LANG"`
	PhotoBaseURL   string `env:"ORBITA_PHOTO_BASE_URL"`
	SourceUser     string `env:"ORBITA_SOURCE_USER"`
	SourcePassword string `env:"ORBITA_SOURCE_PASSWORD"`
	Debug          bool   `env:"ORBITA_DEBUG"`
}

// Load reads the existing files among envFiles into the process environment
// and parses Options from it. Missing files are not an error.
func Load(envFiles []string) (*Options, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}

	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrLoadEnv, err)
		}
		slog.Debug(MsgEnvLoaded,
			LogKeyComponent, CompConfig,
			LogKeyCount, len(existing),
		)
	}

	// Unset variables leave these defaults in place.
	opts := &Options{
		ListenAddr: DefaultListenAddr,
		Language:   DefaultLanguage,
	}
	if err := env.Parse(opts); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseEnv, err)
	}
	return opts, nil
}
