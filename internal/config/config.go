package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/estsyntax/internal/syntax"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL          time.Duration
	ResultCacheSize int

	// Processing defaults
	OptionsFile string
	CG3Layer    string
	CONLLLayer  string
}

// Load reads the configuration from the environment. Variables from a .env
// file in the working directory are loaded first; already set ones win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("ESTSYNTAX_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 16<<20),

		JobTTL:          envDuration("JOB_TTL", 1*time.Hour),
		ResultCacheSize: envInt("RESULT_CACHE_SIZE", 128),

		OptionsFile: os.Getenv("OPTIONS_FILE"),
		CG3Layer:    envOr("CG3_LAYER", syntax.FormatCG3.DefaultLayer()),
		CONLLLayer:  envOr("CONLL_LAYER", syntax.FormatCONLL.DefaultLayer()),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 16 << 20
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.ResultCacheSize < 0 {
		cfg.ResultCacheSize = 0
	}

	return cfg
}

// Validate checks the settings the HTTP server cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("ESTSYNTAX_API_KEY is required")
	}
	if c.CG3Layer == "" || c.CONLLLayer == "" {
		return fmt.Errorf("layer names must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
