package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Documents DocumentsConfig
	Embedding EmbeddingConfig
	Sentiment SentimentConfig
	LLM       LLMConfig
	Redis     RedisConfig
	NLSQL     NLSQLConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DocumentsConfig struct {
	Dir          string
	ChunkSize    int
	ChunkOverlap int
}

type EmbeddingConfig struct {
	ModelPath  string // empty disables the ONNX embedder
	ModelName  string
	Dimensions int
	MaxTokens  int
	CacheSize  int
}

type SentimentConfig struct {
	ModelPath string // empty disables the ONNX classifier
	MaxWords  int
}

type LLMConfig struct {
	OpenAIKey       string
	AnthropicKey    string
	OllamaURL       string
	DefaultProvider string
	DefaultModel    string
}

type RedisConfig struct {
	Addr     string // empty disables caching
	Password string
	DB       int
	TTLSecs  int
}

type NLSQLConfig struct {
	DBPath string
	Seed   bool
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	chunkSize, err := getEnvInt("CHUNK_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_SIZE: %w", err)
	}
	chunkOverlap, err := getEnvInt("CHUNK_OVERLAP", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_OVERLAP: %w", err)
	}

	embedDims, err := getEnvInt("EMBED_DIMENSIONS", 384)
	if err != nil {
		return nil, fmt.Errorf("invalid EMBED_DIMENSIONS: %w", err)
	}
	embedMaxTokens, err := getEnvInt("EMBED_MAX_TOKENS", 256)
	if err != nil {
		return nil, fmt.Errorf("invalid EMBED_MAX_TOKENS: %w", err)
	}
	embedCacheSize, err := getEnvInt("EMBED_CACHE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("invalid EMBED_CACHE_SIZE: %w", err)
	}

	sentimentMaxWords, err := getEnvInt("SENTIMENT_MAX_WORDS", 510)
	if err != nil {
		return nil, fmt.Errorf("invalid SENTIMENT_MAX_WORDS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	redisTTL, err := getEnvInt("REDIS_TTL_SECONDS", 3600)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL_SECONDS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Documents: DocumentsConfig{
			Dir:          getEnv("DOCS_DIR", "docs"),
			ChunkSize:    chunkSize,
			ChunkOverlap: chunkOverlap,
		},
		Embedding: EmbeddingConfig{
			ModelPath:  getEnv("EMBED_MODEL_PATH", ""),
			ModelName:  getEnv("EMBED_MODEL_NAME", "all-MiniLM-L6-v2"),
			Dimensions: embedDims,
			MaxTokens:  embedMaxTokens,
			CacheSize:  embedCacheSize,
		},
		Sentiment: SentimentConfig{
			ModelPath: getEnv("SENTIMENT_MODEL_PATH", ""),
			MaxWords:  sentimentMaxWords,
		},
		LLM: LLMConfig{
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:    getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:       getEnv("OLLAMA_URL", ""),
			DefaultProvider: getEnv("LLM_DEFAULT_PROVIDER", "openai"),
			DefaultModel:    getEnv("LLM_DEFAULT_MODEL", "gpt-4o-mini"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTLSecs:  redisTTL,
		},
		NLSQL: NLSQLConfig{
			DBPath: getEnv("NLSQL_DB_PATH", "data/transactions.db"),
			Seed:   getEnvBool("NLSQL_SEED", true),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks that at least one chat provider is configured and the
// chunking parameters make sense.
func (c *Config) Validate() error {
	var missing []string
	if c.LLM.OpenAIKey == "" && c.LLM.AnthropicKey == "" && c.LLM.OllamaURL == "" {
		missing = append(missing, "OPENAI_API_KEY or ANTHROPIC_API_KEY or OLLAMA_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}

	if c.Documents.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.Documents.ChunkSize)
	}
	if c.Documents.ChunkOverlap < 0 || c.Documents.ChunkOverlap >= c.Documents.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.Documents.ChunkOverlap)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
