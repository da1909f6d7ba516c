package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// Document store
	StoreDriver string // "file" or "postgres"
	DataDir     string
	DatabaseURL string
	WorkspaceID string
	// Auth (Supabase)
	SupabaseURL     string
	SupabaseAnonKey string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	// Completion collaborator
	AnthropicAPIKey string
	DefaultModel    string
	// Image-generation collaborator
	ImageAPIURL string
	ImageAPIKey string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := getEnv("SUPABASE_URL", "")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		StoreDriver: getEnv("STORE_DRIVER", "file"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		WorkspaceID: getEnv("WORKSPACE_ID", "default"),

		SupabaseURL:     supabaseURL,
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWKSURL: supabaseURL + "/auth/v1/.well-known/jwks.json",

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		DefaultModel:    getEnv("DEFAULT_MODEL", defaultModelFor(env)),

		ImageAPIURL: getEnv("IMAGE_API_URL", ""),
		ImageAPIKey: getEnv("IMAGE_API_KEY", ""),

		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// defaultModelFor picks the lorem mock in dev so the workspace runs without
// API keys, and a real Claude model otherwise.
func defaultModelFor(env string) string {
	if env == "dev" && os.Getenv("ANTHROPIC_API_KEY") == "" {
		return "lorem-fast"
	}
	return "claude-haiku-4-5-20251001"
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
