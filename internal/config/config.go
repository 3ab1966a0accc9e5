// Package config loads server settings from LEADS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Lead sources selectable with LEADS_SOURCE.
const (
	SourceMock     = "mock"
	SourcePostgres = "postgres"
	SourceS3       = "s3"
	SourceFile     = "file"
)

var validate = validator.New()

type Config struct {
	HTTPAddr  string `validate:"required"` // LEADS_HTTP_ADDR (default ":8080")
	GRPCAddr  string // LEADS_GRPC_ADDR (default ":9090"; "off" disables)
	AuthToken string // LEADS_AUTH_TOKEN (optional, empty = auth disabled)
	NATSURL   string // LEADS_NATS_URL (optional, empty = no events)

	// Lead source
	Source      string `validate:"oneof=mock postgres s3 file"`  // LEADS_SOURCE (default "mock")
	DatabaseURL string `validate:"required_if=Source postgres"` // LEADS_DATABASE_URL
	S3Bucket    string `validate:"required_if=Source s3"`       // LEADS_S3_BUCKET
	S3Key       string `validate:"required"`                    // LEADS_S3_KEY (default "leads.json")
	S3Region    string `validate:"required"`                    // LEADS_S3_REGION (default "us-east-1")
	S3Endpoint  string `validate:"omitempty,url"`               // LEADS_S3_ENDPOINT (custom endpoint for MinIO)
	File        string `validate:"required_if=Source file"`     // LEADS_FILE

	PaletteFile string        // LEADS_PALETTE_FILE (TOML or YAML)
	SessionIdle time.Duration `validate:"min=1s"` // LEADS_SESSION_IDLE (default 30m)

	LogLevel  string `validate:"oneof=debug info warn error"` // LEADS_LOG_LEVEL (default "info")
	LogFormat string `validate:"oneof=text json"`             // LEADS_LOG_FORMAT (default "text")
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:    envOrDefault("LEADS_HTTP_ADDR", ":8080"),
		GRPCAddr:    envOrDefault("LEADS_GRPC_ADDR", ":9090"),
		AuthToken:   os.Getenv("LEADS_AUTH_TOKEN"),
		NATSURL:     os.Getenv("LEADS_NATS_URL"),
		Source:      strings.ToLower(envOrDefault("LEADS_SOURCE", SourceMock)),
		DatabaseURL: os.Getenv("LEADS_DATABASE_URL"),
		S3Bucket:    os.Getenv("LEADS_S3_BUCKET"),
		S3Key:       envOrDefault("LEADS_S3_KEY", "leads.json"),
		S3Region:    envOrDefault("LEADS_S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("LEADS_S3_ENDPOINT"),
		File:        os.Getenv("LEADS_FILE"),
		PaletteFile: os.Getenv("LEADS_PALETTE_FILE"),
		LogLevel:    strings.ToLower(envOrDefault("LEADS_LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(envOrDefault("LEADS_LOG_FORMAT", "text")),
	}
	if strings.EqualFold(c.GRPCAddr, "off") {
		c.GRPCAddr = ""
	}

	d, err := time.ParseDuration(envOrDefault("LEADS_SESSION_IDLE", "30m"))
	if err != nil {
		return nil, fmt.Errorf("LEADS_SESSION_IDLE: %w", err)
	}
	c.SessionIdle = d

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the struct tags and reports every failing field by its
// environment variable name.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = envNames[fe.Field()] + ": failed " + fe.Tag()
		if fe.Param() != "" {
			msgs[i] += "=" + fe.Param()
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

var envNames = map[string]string{
	"HTTPAddr":    "LEADS_HTTP_ADDR",
	"Source":      "LEADS_SOURCE",
	"DatabaseURL": "LEADS_DATABASE_URL",
	"S3Bucket":    "LEADS_S3_BUCKET",
	"S3Key":       "LEADS_S3_KEY",
	"S3Region":    "LEADS_S3_REGION",
	"S3Endpoint":  "LEADS_S3_ENDPOINT",
	"File":        "LEADS_FILE",
	"SessionIdle": "LEADS_SESSION_IDLE",
	"LogLevel":    "LEADS_LOG_LEVEL",
	"LogFormat":   "LEADS_LOG_FORMAT",
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
