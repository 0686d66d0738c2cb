package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("SSELFIE_TEST_HOST", "db.internal")

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "host: ${SSELFIE_TEST_HOST}", "host: db.internal"},
		{"set variable ignores default", "host: ${SSELFIE_TEST_HOST:localhost}", "host: db.internal"},
		{"unset with default", "port: ${SSELFIE_TEST_UNSET:5432}", "port: 5432"},
		{"unset with empty default", "password: ${SSELFIE_TEST_UNSET:}", "password: "},
		{"unset without default stays", "token: ${SSELFIE_TEST_UNSET}", "token: ${SSELFIE_TEST_UNSET}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, expandEnv(tc.in))
		})
	}
}

func TestLoadFromMergesEnvFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	base := `
app:
  name: photoshoot
photoshoot:
  per_image_cost: ${SSELFIE_TEST_COST:2}
rendering:
  api_token: ${SSELFIE_TEST_TOKEN:}
`
	override := `
photoshoot:
  default_images: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(base), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.test.yaml"), []byte(override), 0o600))
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "photoshoot", cfg.App.Name)
	assert.Equal(t, 2, cfg.Photoshoot.PerImageCost)
	assert.Equal(t, 8, cfg.Photoshoot.DefaultImages)
	assert.Equal(t, 11*time.Second, cfg.Photoshoot.InterSubmitDelay)
	assert.Equal(t, 3, cfg.Photoshoot.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Photoshoot.RetryGrace)
	assert.Equal(t, 300*time.Second, cfg.Server.HTTP.WriteTimeout)
}

func TestLoadFromMissingBaseFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}
