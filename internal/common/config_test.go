package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 5*time.Minute, cfg.Workflow.RunTimeout)
	assert.Equal(t, 20000, cfg.Workflow.ChunkMaxSize)
	assert.Equal(t, 4, cfg.Workflow.ChunkConcurrency)
	assert.Equal(t, "tesseract", cfg.OCR.Tesseract)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, "http://localhost:5001", cfg.Layout.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("RUN_TIMEOUT", "90s")
	t.Setenv("CHUNK_MAX_SIZE", "5000")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OCR_MAX_PAGES", "10")

	cfg := LoadConfig()
	assert.Equal(t, 90*time.Second, cfg.Workflow.RunTimeout)
	assert.Equal(t, 5000, cfg.Workflow.ChunkMaxSize)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 10, cfg.OCR.MaxPages)
}

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := LoadConfig()
	require.Error(t, cfg.Validate())

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg = LoadConfig()
	assert.NoError(t, cfg.Validate())
}

func TestWithTimeoutZeroIsNoOp(t *testing.T) {
	ctx, cancel := WithTimeout(t.Context(), 0)
	defer cancel()
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)

	ctx, cancel = WithTimeout(t.Context(), time.Minute)
	defer cancel()
	_, hasDeadline = ctx.Deadline()
	assert.True(t, hasDeadline)
}
