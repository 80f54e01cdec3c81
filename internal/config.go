package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BufferSize        int           `env:"BUFFER_SIZE,default=1024"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	PageSize          int           `env:"PAGE_SIZE,default=20"`
	EnrichConcurrency int           `env:"ENRICH_CONCURRENCY,default=16"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	SampleInterval    time.Duration `env:"SAMPLE_INTERVAL,default=10s"`

	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`

	BadgerFilepath     string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath      string `env:"BLUGE_FILEPATH,required=true"`
	MaxAttachmentBytes int64  `env:"MAX_ATTACHMENT_BYTES,default=5242880"`
	LogLevel           string `env:"LOG_LEVEL,default=INFO"`

	Host           string   `env:"HOST,default=localhost"`
	Port           int      `env:"PORT,default=8080"`
	BaseURL        string   `env:"BASE_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	EnableDebug    bool     `env:"ENABLE_DEBUG,default=false"`
	WriteRPS       float64  `env:"WRITE_RPS,default=5"`
	WriteBurst     int      `env:"WRITE_BURST,default=10"`
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PublicURL is where attachments are served from, the listen address unless BASE_URL is set.
func (c Config) PublicURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "http://" + c.Addr()
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	switch {
	case c.BufferSize <= 0:
		return fmt.Errorf("BUFFER_SIZE must be positive, got %d", c.BufferSize)
	case c.PageSize <= 0:
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	case c.LimitMessages != nil && *c.LimitMessages <= 0:
		return fmt.Errorf("LIMIT_MESSAGES must be positive, got %d", *c.LimitMessages)
	case len(c.JWTSecret) < 16:
		return fmt.Errorf("JWT_SECRET must hold at least 16 characters")
	case c.MaxAttachmentBytes <= 0:
		return fmt.Errorf("MAX_ATTACHMENT_BYTES must be positive, got %d", c.MaxAttachmentBytes)
	}
	return nil
}
