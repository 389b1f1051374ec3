package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	content := `
tool: /opt/v/v
work_dir: /srv/play
keep: true
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "v", cfg.Lang)
	assert.Equal(t, "/opt/v/v", cfg.Tool)
	assert.Equal(t, "{tool} run {}", cfg.Command)
	assert.Equal(t, "/srv/play", cfg.WorkDir)
	assert.True(t, cfg.Keep)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("lang: [v"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSetting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir = "/tmp/work"

	assert.Equal(t, "/tmp/work", cfg.Setting(KeyWorkDir))
	assert.Equal(t, "v", cfg.Setting(KeyLang))
	assert.Equal(t, "{tool} run {}", cfg.Setting(KeyCommand))
	assert.Equal(t, "", cfg.Setting("unknown"))
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lang = ""
	assert.ErrorIs(t, cfg.Validate(), ErrEmptyLang)

	cfg = DefaultConfig()
	cfg.Command = ""
	assert.ErrorIs(t, cfg.Validate(), ErrEmptyCommand)
}

func TestMergeKeep(t *testing.T) {
	keep, discard := true, false

	cfg := DefaultConfig()
	cfg.merge(&fileConfig{Keep: &keep})
	assert.True(t, cfg.Keep)

	cfg.merge(&fileConfig{Keep: &discard})
	assert.False(t, cfg.Keep)

	cfg.merge(&fileConfig{})
	assert.False(t, cfg.Keep)
}

func TestLoadConfigExplicitKeepFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("keep: false\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Keep)
}
