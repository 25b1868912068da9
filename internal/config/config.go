package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // FIXLOG_DATABASE_URL (required)
	HTTPAddr    string // FIXLOG_HTTP_ADDR (default ":8080")
	NATSURL     string // FIXLOG_NATS_URL (optional, empty = no events)
	AuthToken   string // FIXLOG_AUTH_TOKEN (optional, empty = auth disabled)

	// Backup settings
	BackupInterval   time.Duration // FIXLOG_BACKUP_INTERVAL (default 3m; 0 = disabled)
	BackupS3Bucket   string        // FIXLOG_BACKUP_S3_BUCKET (enables S3 when set)
	BackupS3Endpoint string        // FIXLOG_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
	BackupS3Region   string        // FIXLOG_BACKUP_S3_REGION (default "us-east-1")
	BackupS3Key      string        // FIXLOG_BACKUP_S3_KEY (default "fixlog/backup.jsonl")
	BackupFile       string        // FIXLOG_BACKUP_FILE (enables local file backup when set)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("FIXLOG_DATABASE_URL"),
		HTTPAddr:         envOrDefault("FIXLOG_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("FIXLOG_NATS_URL"),
		AuthToken:        os.Getenv("FIXLOG_AUTH_TOKEN"),
		BackupS3Bucket:   os.Getenv("FIXLOG_BACKUP_S3_BUCKET"),
		BackupS3Endpoint: os.Getenv("FIXLOG_BACKUP_S3_ENDPOINT"),
		BackupS3Region:   envOrDefault("FIXLOG_BACKUP_S3_REGION", "us-east-1"),
		BackupS3Key:      envOrDefault("FIXLOG_BACKUP_S3_KEY", "fixlog/backup.jsonl"),
		BackupFile:       os.Getenv("FIXLOG_BACKUP_FILE"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("FIXLOG_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("FIXLOG_BACKUP_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("FIXLOG_BACKUP_INTERVAL: %w", err)
		}
		c.BackupInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
