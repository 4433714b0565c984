package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("legacy catalog follows the public dir", func(t *testing.T) {
		t.Setenv("ADMIN_SECRET", "s3cret")
		t.Setenv("PUBLIC_DIR", filepath.Join("srv", "store", "public"))
		t.Setenv("LEGACY_CATALOG", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("srv", "store", "public", "products.json"), cfg.LegacyCatalog)
	})

	t.Run("explicit legacy catalog path wins", func(t *testing.T) {
		t.Setenv("ADMIN_SECRET", "s3cret")
		t.Setenv("PUBLIC_DIR", "public")
		t.Setenv("LEGACY_CATALOG", filepath.Join("data", "old-catalog.json"))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("data", "old-catalog.json"), cfg.LegacyCatalog)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ADMIN_SECRET", "s3cret")
		t.Setenv("PUBLIC_DIR", "public")
		t.Setenv("LEGACY_CATALOG", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, filepath.Join("public", "products.json"), cfg.LegacyCatalog)
	})
}
