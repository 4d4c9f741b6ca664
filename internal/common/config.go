package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Workflow  WorkflowConfig
	OCR       OCRConfig
	Layout    LayoutConfig
	LLM       LLMConfig
	Artifacts ArtifactsConfig
}

// WorkflowConfig holds orchestration-related configuration
type WorkflowConfig struct {
	RunTimeout       time.Duration // wraps a whole run; 0 disables
	ChunkMaxSize     int           // max serialized characters per LLM chunk
	ChunkConcurrency int           // concurrent chunk extractions; 1 = sequential
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract   string
	Pdftoppm    string
	TessdataDir string
	DPI         int
	MaxPages    int
}

// LayoutConfig holds layout-service configuration
type LayoutConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// ArtifactsConfig holds run-artifact store configuration
type ArtifactsConfig struct {
	DSN string // postgres:// DSN or a sqlite file path; empty disables persistence
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Workflow: WorkflowConfig{
			RunTimeout:       getEnvAsDuration("RUN_TIMEOUT", 5*time.Minute),
			ChunkMaxSize:     getEnvAsInt("CHUNK_MAX_SIZE", 20000),
			ChunkConcurrency: getEnvAsInt("CHUNK_CONCURRENCY", 4),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			DPI:         getEnvAsInt("OCR_DPI", 300),
			MaxPages:    getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		Layout: LayoutConfig{
			BaseURL: getEnv("LAYOUT_SERVICE_URL", "http://localhost:5001"),
			Timeout: getEnvAsDuration("LAYOUT_TIMEOUT", 120*time.Second),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Artifacts: ArtifactsConfig{
			DSN: getEnv("ARTIFACTS_DSN", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Workflow.ChunkMaxSize <= 0 {
		return NewAppError("CONFIG_ERROR", "CHUNK_MAX_SIZE must be positive", ErrInvalidInput)
	}
	if c.Workflow.ChunkConcurrency <= 0 {
		return NewAppError("CONFIG_ERROR", "CHUNK_CONCURRENCY must be positive", ErrInvalidInput)
	}
	return nil
}
