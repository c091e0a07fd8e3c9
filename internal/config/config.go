package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port         string `env:"PORT" env-default:"8585"`
	CookieDomain string `env:"COOKIE_DOMAIN" env-default:""`
	CookieSecure bool   `env:"COOKIE_SECURE" env-default:"false"`

	// SESSION_KEY is base64; if unset or invalid a random key is
	// generated and sessions do not survive a restart.
	SessionKeyB64 string `env:"SESSION_KEY" env-default:""`
	SessionKey    []byte

	// User archive backend: "json", "sqlite" or "none".
	ArchiveBackend string `env:"USER_ARCHIVE" env-default:"json"`
	ArchivePath    string `env:"USER_ARCHIVE_PATH" env-default:"./users.json"`

	// Per-IP rate limit applied to registration, login and purchase
	// creation.
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" env-default:"10"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" env-default:"5"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.SessionKeyB64 == "" {
		slog.Warn("SESSION_KEY environment variable not set. Generating a random key; sessions will be invalid on restart. PLEASE SET SESSION_KEY IN PRODUCTION!")
		cfg.SessionKey = generateRandomBytes(32)
	} else {
		decodedKey, err := base64.StdEncoding.DecodeString(cfg.SessionKeyB64)
		if err != nil || len(decodedKey) < 32 {
			slog.Warn("SESSION_KEY is invalid or too short (min 32 bytes). Generating a random key. PLEASE SET A SECURE SESSION_KEY IN PRODUCTION!")
			cfg.SessionKey = generateRandomBytes(32)
		} else {
			cfg.SessionKey = decodedKey
		}
	}

	return &cfg, nil
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the platform entropy source is
		// broken; refusing to start is better than a guessable key.
		panic("config: unable to read random bytes: " + err.Error())
	}
	return b
}
