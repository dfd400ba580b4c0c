package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paperlens.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
db_path: /data/iclr
embedding:
  kind: openai
  host: http://embed.internal:8080
  model: text-embedding-3-small
  dimension: 1536
  api_key_env: OPENAI_API_KEY
  requests_per_second: 4
search:
  venues: [ICLR, NeurIPS]
  years: [2024, 2025]
  top_k: 25
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/iclr", cfg.DBPath)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 1536, cfg.Embedding.Dimension)
	assert.Equal(t, []string{"ICLR", "NeurIPS"}, cfg.Search.Venues)
	assert.Equal(t, []int{2024, 2025}, cfg.Search.Years)
	assert.Equal(t, 25, cfg.Search.TopK)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "db_path: /tmp/corpus\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/corpus", cfg.DBPath)
	assert.Equal(t, Default().Embedding, cfg.Embedding)
	assert.Equal(t, Default().Search, cfg.Search)
}

func TestLoad_RejectsUnknownKind(t *testing.T) {
	path := writeConfig(t, "embedding:\n  kind: cohere\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding.kind")
}

func TestLoad_RejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "db_path: [unclosed\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestAPIKey_ReadsEnvironment(t *testing.T) {
	cfg := Default()
	cfg.Embedding.APIKeyEnv = "PAPERLENS_TEST_KEY"
	t.Setenv("PAPERLENS_TEST_KEY", "sk-test")
	assert.Equal(t, "sk-test", cfg.APIKey())

	cfg.Embedding.APIKeyEnv = ""
	assert.Empty(t, cfg.APIKey())
}

func TestAIConfig_CarriesEmbeddingSection(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Host = "http://embed.internal:8080"
	cfg.Embedding.Model = "embeddinggemma"
	cfg.Embedding.Dimension = 768
	cfg.Embedding.RequestsPerSecond = 2
	cfg.Embedding.Burst = 3

	aiCfg := cfg.AIConfig()
	require.NoError(t, aiCfg.Validate())
	assert.Equal(t, "http://embed.internal:8080/v1", aiCfg.Host)
	assert.Equal(t, "embeddinggemma", aiCfg.Model)
	assert.Equal(t, 768, aiCfg.Dimension)
	assert.Equal(t, 2.0, aiCfg.RequestsPerSecond)
	assert.Equal(t, 3, aiCfg.Burst)
}
