package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"database": {"host": "localhost", "port": 5432, "user": "postgres", "dbname": "docdex"},
		"ai": {"provider": "gemini", "model": "gemini-2.0-flash", "embed_model": "text-embedding-004"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "pgvector", cfg.VectorStore.Type)
	require.Equal(t, "local", cfg.FileStore.Type)
	require.Equal(t, 10, cfg.StoreTimeoutSec)
	require.Equal(t, 1, cfg.RetrievalTopK)
	require.Equal(t, int64(20*1024*1024), cfg.UploadMaxBytes)
	require.Equal(t, 30, cfg.EmbedCacheMaxAgeDays)
	require.Equal(t, 60, cfg.AI.TimeoutSec)
	require.Equal(t, "info", cfg.LogConfig.Level)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"port":        `{"database": {"host": "x"}, "ai": {"provider": "gemini", "model": "m", "embed_model": "e"}}`,
		"database":    `{"port": 1, "ai": {"provider": "gemini", "model": "m", "embed_model": "e"}}`,
		"ai provider": `{"port": 1, "database": {"host": "x"}, "ai": {"model": "m", "embed_model": "e"}}`,
		"embed model": `{"port": 1, "database": {"host": "x"}, "ai": {"provider": "gemini", "model": "m"}}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/no/such/config.json")
	require.Error(t, err)
}
