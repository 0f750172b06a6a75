// Package config loads service settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendGCS       = "gcs"
	BackendS3        = "s3"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
	BackendVertex    = "vertex"
	BackendGemini    = "gemini"
)

type Config struct {
	ProjectID        string
	DocumentBucket   string
	Collection       string
	BlobBackend      string
	StoreBackend     string
	LLMBackend       string
	VertexRegion     string
	VertexModel      string
	GeminiAPIKey     string
	GeminiModel      string
	AWSRegion        string
	UploadURLTTL     time.Duration
	MaxDocumentBytes int64
	WorkflowID       string
	WorkflowLocation string
	Port             string
}

// Load reads .env when present, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ProjectID:        GetEnv("PROJECT_ID", ""),
		DocumentBucket:   GetEnv("DOCUMENT_BUCKET", ""),
		Collection:       GetEnv("FIRESTORE_COLLECTION", "documents"),
		BlobBackend:      GetEnv("BLOB_BACKEND", BackendGCS),
		StoreBackend:     GetEnv("STORE_BACKEND", BackendFirestore),
		LLMBackend:       GetEnv("LLM_BACKEND", BackendVertex),
		VertexRegion:     GetEnv("VERTEX_AI_REGION", "us-central1"),
		VertexModel:      GetEnv("VERTEX_MODEL", "gemini-1.5-pro"),
		GeminiAPIKey:     GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      GetEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AWSRegion:        GetEnv("AWS_REGION", "us-east-1"),
		UploadURLTTL:     GetEnvDuration("UPLOAD_URL_TTL", time.Hour),
		MaxDocumentBytes: int64(GetEnvInt("MAX_DOCUMENT_BYTES", 10<<20)),
		WorkflowID:       GetEnv("WORKFLOW_ID", ""),
		WorkflowLocation: GetEnv("WORKFLOW_LOCATION", "us-central1"),
		Port:             GetEnv("PORT", "8080"),
	}
}

// Validate checks the settings every backend combination needs.
func (c *Config) Validate() error {
	switch c.BlobBackend {
	case BackendGCS, BackendS3:
	default:
		return fmt.Errorf("BLOB_BACKEND must be %q or %q, got %q", BackendGCS, BackendS3, c.BlobBackend)
	}
	switch c.StoreBackend {
	case BackendFirestore, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFirestore, BackendMemory, c.StoreBackend)
	}
	switch c.LLMBackend {
	case BackendVertex, BackendGemini:
	default:
		return fmt.Errorf("LLM_BACKEND must be %q or %q, got %q", BackendVertex, BackendGemini, c.LLMBackend)
	}

	if c.ProjectID == "" && (c.StoreBackend == BackendFirestore || c.LLMBackend == BackendVertex || c.WorkflowID != "") {
		return fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	if c.LLMBackend == BackendGemini && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable must be set")
	}
	if c.UploadURLTTL <= 0 {
		return fmt.Errorf("UPLOAD_URL_TTL must be positive")
	}
	return nil
}

// GetEnv returns the value of key, or fallback when it is unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvInt(key string, def int) int {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Environment variable is not an int, using default.", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

// GetEnvDuration accepts Go duration strings ("90m") or whole seconds ("3600").
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	slog.Warn("Environment variable is not a duration, using default.", "key", key, "value", v, "default", def.String())
	return def
}
