package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cv-site/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "data/cv-data.xml", cfg.Source.Path)
	assert.Equal(t, view.LoadedSelector, cfg.Snapshot.Selector)
	assert.Equal(t, 3*time.Second, cfg.GetSettleDelay())
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: 9090
source:
  path: other.xml
  watch: true
snapshot:
  base_href: /Resume/
logging:
  level: debug
`), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SNAPSHOT_PDF", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, "other.xml", cfg.Source.Path)
	assert.True(t, cfg.Source.Watch)
	assert.Equal(t, "/Resume/", cfg.Snapshot.BaseHref)
	assert.True(t, cfg.Snapshot.PDF)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 1200, cfg.Snapshot.Width)
}

func TestLoad_ServerPortWinsOverPort(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("SERVER_PORT", "9191")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.HTTP.Port)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "http")
	_, err := Load("")
	assert.ErrorContains(t, err, "invalid SERVER_PORT")

	t.Setenv("SERVER_PORT", "70000")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshot:\n  settle: soon\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "snapshot.settle")
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}
