package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	APIKey       string
	DatabaseURL  string
	AIAPIKey     string
	EmbedModel   string
	GenModel     string
	ChunkSize    int
	ChunkOverlap int
	OCRWorkers   int
	QueryWorkers int
	TopK         int
	RenderDPI    int
	OCRLanguages []string
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		APIKey:       getEnv("API_KEY", ""),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		AIAPIKey:     getEnv("GEMINI_API_KEY", ""),
		EmbedModel:   getEnv("EMBED_MODEL", "text-embedding-004"),
		GenModel:     getEnv("GEN_MODEL", "gemini-1.5-flash"),
		ChunkSize:    getEnvInt("CHUNK_SIZE", 400),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 100),
		OCRWorkers:   getEnvInt("OCR_WORKERS", 5),
		QueryWorkers: getEnvInt("QUERY_WORKERS", 4),
		TopK:         getEnvInt("TOP_K", 5),
		RenderDPI:    getEnvInt("RENDER_DPI", 150),
		OCRLanguages: splitList(getEnv("OCR_LANGUAGES", "eng")),
		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.APIKey == "" {
		log.Fatal("API_KEY not set")
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		log.Fatalf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
