package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"roster-sync/internal/logger"
)

const (
	BackendHTTP   = "http"
	BackendMemory = "memory"
)

type Config struct {
	// Remote collection
	BaseURL       string
	Backend       string
	HTTPTimeout   time.Duration
	MemoryLatency time.Duration

	// Bulk import
	ImportWorkers int

	SFTP SFTPConfig
}

type SFTPConfig struct {
	Host                  string
	Port                  int
	User                  string
	Pass                  string
	RemoteDir             string
	InsecureIgnoreHostKey bool
	KnownHostsFile        string
}

// Load reads the environment, seeding it first from ROSTER_ENV_FILE or the
// nearest .env file.
// Variables already set in the environment win over the file.
func Load(log logger.Logger) (Config, error) {
	if log == nil {
		log = logger.Discard()
	}
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		BaseURL:       strings.TrimRight(getEnv("ROSTER_BASE_URL", "http://localhost:3000"), "/"),
		Backend:       strings.ToLower(getEnv("ROSTER_BACKEND", BackendHTTP)),
		HTTPTimeout:   getEnvDuration("ROSTER_HTTP_TIMEOUT", 30*time.Second),
		MemoryLatency: getEnvDuration("ROSTER_MEMORY_LATENCY", 0),
		ImportWorkers: getEnvInt("IMPORT_WORKERS", 4),
		SFTP: SFTPConfig{
			Host:                  os.Getenv("SFTP_HOST"),
			Port:                  getEnvInt("SFTP_PORT", 22),
			User:                  os.Getenv("SFTP_USER"),
			Pass:                  os.Getenv("SFTP_PASS"),
			RemoteDir:             getEnv("SFTP_DIR", "/inbound"),
			InsecureIgnoreHostKey: getEnvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
			KnownHostsFile:        os.Getenv("SFTP_KNOWN_HOSTS"),
		},
	}

	switch cfg.Backend {
	case BackendHTTP, BackendMemory:
	default:
		return Config{}, fmt.Errorf("config: ROSTER_BACKEND must be %q or %q, got %q", BackendHTTP, BackendMemory, cfg.Backend)
	}
	if cfg.ImportWorkers < 1 {
		cfg.ImportWorkers = 1
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
