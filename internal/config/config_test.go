package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 1000, cfg.Documents.ChunkSize)
	assert.Equal(t, 200, cfg.Documents.ChunkOverlap)
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.True(t, cfg.NLSQL.Seed)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DOCS_DIR", "/srv/docs")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("NLSQL_SEED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/docs", cfg.Documents.Dir)
	assert.Equal(t, 500, cfg.Documents.ChunkSize)
	assert.False(t, cfg.NLSQL.Seed)
}

func TestLoadInvalidInt(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}

func TestValidateRequiresProvider(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.LLM = LLMConfig{}

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidateChunking(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.LLM.OpenAIKey = "sk-test"

	cfg.Documents.ChunkOverlap = cfg.Documents.ChunkSize
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHUNK_OVERLAP")
}

func TestValidateOK(t *testing.T) {
	t.Setenv("OLLAMA_URL", "http://localhost:11434")
	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}
