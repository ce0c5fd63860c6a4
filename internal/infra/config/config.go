package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the notifier process.
type AppConfig struct {
	DatabaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	ScanInterval      time.Duration
	RecordFailedSends bool // whether a failed dispatch still writes a ledger record

	AdminEmail          string // empty disables the weekly digest
	CronSpecAdminDigest string

	TelegramToken   string // empty disables ops alerts
	AdminTelegramID int64

	MetricsAddr string // empty disables the metrics listener

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables; a missing
	// .env file is not an error.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set")
	}

	portStr := os.Getenv("SMTP_PORT")
	if portStr == "" {
		cfg.SMTPPort = 587
	} else {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		cfg.SMTPPort = port
	}

	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.MailFrom = os.Getenv("MAIL_FROM")
	if cfg.MailFrom == "" {
		return nil, fmt.Errorf("MAIL_FROM is not set")
	}

	intervalStr := os.Getenv("SCAN_INTERVAL")
	if intervalStr == "" {
		cfg.ScanInterval = 24 * time.Hour
	} else {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SCAN_INTERVAL: %w", err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("SCAN_INTERVAL must be positive, got %s", interval)
		}
		cfg.ScanInterval = interval
	}

	recordStr := os.Getenv("RECORD_FAILED_SENDS")
	if recordStr == "" {
		cfg.RecordFailedSends = true
	} else {
		record, err := strconv.ParseBool(recordStr)
		if err != nil {
			return nil, fmt.Errorf("invalid RECORD_FAILED_SENDS: %w", err)
		}
		cfg.RecordFailedSends = record
	}

	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")

	cfg.CronSpecAdminDigest = os.Getenv("CRON_SPEC_ADMIN_DIGEST")
	if cfg.CronSpecAdminDigest == "" {
		cfg.CronSpecAdminDigest = "0 7 * * 1" // Default: Monday 07:00
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr != "" {
		adminID, err := strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.AdminTelegramID = adminID
	}
	if cfg.TelegramToken != "" && cfg.AdminTelegramID == 0 {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is set but ADMIN_TELEGRAM_ID is not")
	}

	metricsAddr, ok := os.LookupEnv("METRICS_ADDR")
	if !ok {
		metricsAddr = ":9091"
	}
	cfg.MetricsAddr = metricsAddr

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}
