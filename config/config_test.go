package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthdata-go/harmony/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.UAT, cfg.Environment)
	assert.Equal(t, 3, cfg.DownloadWorkers)
	assert.Equal(t, int64(4*1024*1024), cfg.DownloadChunkSize)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
}

func TestEnvironmentHostnames(t *testing.T) {
	cases := map[config.Environment]string{
		config.SBX:  "harmony.sbx.earthdata.nasa.gov",
		config.SIT:  "harmony.sit.earthdata.nasa.gov",
		config.UAT:  "harmony.uat.earthdata.nasa.gov",
		config.PROD: "harmony.earthdata.nasa.gov",
	}
	for env, host := range cases {
		assert.Equal(t, host, env.Hostname())
	}
}

func TestParseEnvironment(t *testing.T) {
	env, err := config.ParseEnvironment("PROD")
	require.NoError(t, err)
	assert.Equal(t, config.PROD, env)

	_, err = config.ParseEnvironment("staging")
	assert.Error(t, err)
}

func TestEnvVarOverride(t *testing.T) {
	t.Setenv("HARMONY_ENVIRONMENT", "prod")
	t.Setenv("HARMONY_DOWNLOAD_WORKERS", "8")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.PROD, cfg.Environment)
	assert.Equal(t, 8, cfg.DownloadWorkers)
	assert.Equal(t, "https://harmony.earthdata.nasa.gov", cfg.RootURL())
	assert.Equal(t, "https://harmony.earthdata.nasa.gov/jobs", cfg.EDLValidationURL())
}

func TestWithEnvironmentWins(t *testing.T) {
	t.Setenv("HARMONY_ENVIRONMENT", "prod")

	cfg, err := config.Load(config.WithEnvironment(config.SIT))
	require.NoError(t, err)
	assert.Equal(t, config.SIT, cfg.Environment)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harmony.yaml")
	body := "environment: sbx\ndownload_chunk_size: 1024\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := config.Load(config.WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, config.SBX, cfg.Environment)
	assert.Equal(t, int64(1024), cfg.DownloadChunkSize)
}

func TestInvalidWorkers(t *testing.T) {
	t.Setenv("HARMONY_DOWNLOAD_WORKERS", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
