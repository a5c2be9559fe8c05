package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readConfig(t *testing.T, path string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestSaveSettings_CreatesFromTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cate", "config.yaml")

	err := SaveSettings(path, map[string]any{"theme": "dracula", "number": true})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "theme: dracula")
	assert.Contains(t, content, "number: true")
	assert.Contains(t, content, "# cate configuration")

	cfg := readConfig(t, path)
	assert.Equal(t, "dracula", cfg.Theme)
	assert.True(t, cfg.Number)
	assert.Equal(t, "auto", cfg.Color)
}

func TestSaveSettings_PreservesOtherKeysAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# my settings
theme: monokai # favourite
color: never
`
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	require.NoError(t, SaveSettings(path, map[string]any{"theme": "nord", "language": "go"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# my settings")
	assert.Contains(t, content, "theme: nord # favourite")
	assert.Contains(t, content, "color: never")
	assert.Contains(t, content, "language: go")

	cfg := readConfig(t, path)
	assert.Equal(t, "nord", cfg.Theme)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "go", cfg.Language)
}

func TestSaveSettings_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	require.NoError(t, SaveSettings(path, map[string]any{"highlight": false}))
	assert.False(t, readConfig(t, path).Highlight)
}

func TestSaveSettings_Errors(t *testing.T) {
	dir := t.TempDir()

	notMapping := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(notMapping, []byte("- a\n- b\n"), 0o600))
	err := SaveSettings(notMapping, map[string]any{"theme": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a mapping")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("theme: [\n"), 0o600))
	err = SaveSettings(broken, map[string]any{"theme": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")

	err = SaveSettings(filepath.Join(dir, "new.yaml"), map[string]any{"number": 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value type int")
}
