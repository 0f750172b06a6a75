package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("PROJECT_ID", "idp-test")
	t.Setenv("DOCUMENT_BUCKET", "docs")
	t.Setenv("UPLOAD_URL_TTL", "3600")
	t.Setenv("MAX_DOCUMENT_BYTES", "2048")
	t.Setenv("STORE_BACKEND", "memory")

	cfg := Load()

	assert.Equal(t, "idp-test", cfg.ProjectID)
	assert.Equal(t, "docs", cfg.DocumentBucket)
	assert.Equal(t, "documents", cfg.Collection)
	assert.Equal(t, time.Hour, cfg.UploadURLTTL)
	assert.Equal(t, int64(2048), cfg.MaxDocumentBytes)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ProjectID:    "p",
			BlobBackend:  BackendGCS,
			StoreBackend: BackendFirestore,
			LLMBackend:   BackendVertex,
			UploadURLTTL: time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad blob backend", mutate: func(c *Config) { c.BlobBackend = "azure" }, wantErr: "BLOB_BACKEND"},
		{name: "bad store backend", mutate: func(c *Config) { c.StoreBackend = "dynamo" }, wantErr: "STORE_BACKEND"},
		{name: "bad llm backend", mutate: func(c *Config) { c.LLMBackend = "bedrock" }, wantErr: "LLM_BACKEND"},
		{name: "missing project", mutate: func(c *Config) { c.ProjectID = "" }, wantErr: "PROJECT_ID"},
		{
			name: "project optional for local stack",
			mutate: func(c *Config) {
				c.ProjectID = ""
				c.StoreBackend = BackendMemory
				c.LLMBackend = BackendGemini
				c.GeminiAPIKey = "k"
			},
		},
		{name: "gemini without key", mutate: func(c *Config) { c.LLMBackend = BackendGemini }, wantErr: "GEMINI_API_KEY"},
		{name: "zero ttl", mutate: func(c *Config) { c.UploadURLTTL = 0 }, wantErr: "UPLOAD_URL_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VAR", "123")
	assert.Equal(t, 123, GetEnvInt("TEST_INT_VAR", 0))

	t.Setenv("TEST_INT_VAR", "invalid")
	assert.Equal(t, 10, GetEnvInt("TEST_INT_VAR", 10))

	assert.Equal(t, 10, GetEnvInt("TEST_INT_VAR_UNSET", 10))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DUR", "90m")
	assert.Equal(t, 90*time.Minute, GetEnvDuration("TEST_DUR", time.Hour))

	t.Setenv("TEST_DUR", "120")
	assert.Equal(t, 2*time.Minute, GetEnvDuration("TEST_DUR", time.Hour))

	t.Setenv("TEST_DUR", "soon")
	assert.Equal(t, time.Hour, GetEnvDuration("TEST_DUR", time.Hour))
}
