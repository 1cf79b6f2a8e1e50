package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
listen_addr = ":9000"
log_level   = "debug"
blob_dir    = "/var/lib/docrepo/blobs"

auth {
  token_secret = "super-secret"
  token_ttl    = "12h"
}

postgres {
  host   = "db.internal"
  port   = 5432
  user   = "docrepo"
  dbname = "docrepo"
}
`)
		cfg, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.ListenAddr)
		assert.Equal(t, "db.internal", cfg.Postgres.Host)
		assert.Equal(t, 12*time.Hour, cfg.TokenTTL())
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeConfig(t, `
auth {
  token_secret = "s"
}

postgres {
  host   = "localhost"
  user   = "docrepo"
  dbname = "docrepo"
}
`)
		cfg, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ":8000", cfg.ListenAddr)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "blobs", cfg.BlobDir)
		assert.Equal(t, time.Duration(0), cfg.TokenTTL())
	})

	t.Run("all validation problems reported together", func(t *testing.T) {
		path := writeConfig(t, `
auth {
  token_secret = ""
  token_ttl    = "not-a-duration"
}

postgres {
  host   = ""
  user   = ""
  dbname = "docrepo"
}
`)
		_, err := NewConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token_secret")
		assert.Contains(t, err.Error(), "token_ttl")
		assert.Contains(t, err.Error(), "postgres.host")
		assert.Contains(t, err.Error(), "postgres.user")
	})

	t.Run("missing blocks", func(t *testing.T) {
		path := writeConfig(t, ``)
		_, err := NewConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth block")
		assert.Contains(t, err.Error(), "postgres block")
	})
}
