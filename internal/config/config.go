package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultQueueAPIURL  = "https://wp-api.qrserveme.com/action/"
	DefaultPollInterval = 3 * time.Second
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a default so a bare `callqueue serve` works on a fresh device.
type Config struct {
	// Control API
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Settings store. A postgres:// or postgresql:// URL selects PostgreSQL,
	// anything else is treated as a SQLite file path.
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Remote queue API. ProviderTimeout of 0 means no client-side deadline.
	QueueAPIURL     string
	ProviderTimeout time.Duration

	PollInterval time.Duration

	// Out-of-cycle polls (after acknowledge) per second, and burst.
	RefreshRate  float64
	RefreshBurst int

	// Alerting
	SoundFile          string
	PlayerCommand      string
	VibrateCommand     string
	AlertSoundTimeout  time.Duration
	TestSoundTimeout   time.Duration
	VibrationDuration  time.Duration
	TestVibrationLimit time.Duration

	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		DatabaseURL: getEnv("DATABASE_URL", "callqueue.db"),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 4)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 1)),

		QueueAPIURL:     getEnv("QUEUE_API_URL", DefaultQueueAPIURL),
		ProviderTimeout: getDuration("PROVIDER_TIMEOUT", 0),

		PollInterval: getDuration("POLL_INTERVAL", DefaultPollInterval),

		RefreshRate:  getFloat("REFRESH_RATE", 2),
		RefreshBurst: getInt("REFRESH_BURST", 5),

		SoundFile:          getEnv("ALERT_SOUND_FILE", "assets/ring.mp3"),
		PlayerCommand:      getEnv("ALERT_PLAYER_CMD", ""),
		VibrateCommand:     getEnv("VIBRATE_CMD", ""),
		AlertSoundTimeout:  getDuration("ALERT_SOUND_TIMEOUT", 10*time.Second),
		TestSoundTimeout:   getDuration("TEST_SOUND_TIMEOUT", time.Second),
		VibrationDuration:  getDuration("VIBRATION_DURATION", 5*time.Second),
		TestVibrationLimit: getDuration("TEST_VIBRATION_DURATION", time.Second),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that would stall the poller or the alerter.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.QueueAPIURL == "" {
		return fmt.Errorf("QUEUE_API_URL must not be empty")
	}
	if c.RefreshRate <= 0 || c.RefreshBurst <= 0 {
		return fmt.Errorf("REFRESH_RATE and REFRESH_BURST must be positive")
	}
	if c.AlertSoundTimeout <= 0 || c.TestSoundTimeout <= 0 {
		return fmt.Errorf("sound timeouts must be positive")
	}
	return nil
}

// UsesPostgres reports whether DatabaseURL points at a PostgreSQL server.
func (c *Config) UsesPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
