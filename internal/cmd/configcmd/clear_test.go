package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rtx/internal/config"
)

func TestRunClear_WithExistingConfig(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "rtx", "config.yml")
	require.NoError(t, (&config.Config{OutputFormat: "html"}).Save(configPath))

	var buf bytes.Buffer
	require.NoError(t, runClear(configPath, true, &buf))

	_, err := os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "✓ Configuration cleared from "+configPath+"\n", buf.String())
}

func TestRunClear_NoConfigFile(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	err := runClear(filepath.Join(t.TempDir(), "config.yml"), true, &buf)
	require.NoError(t, err)
	assert.Equal(t, "✓ No config file to remove\n", buf.String())
}

func TestRunClear_KeepsRuleSetFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "forum.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte("tags:\n  - name: b\n"), 0600))
	configPath := filepath.Join(dir, "config.yml")
	require.NoError(t, (&config.Config{Rules: rulesPath}).Save(configPath))

	var buf bytes.Buffer
	require.NoError(t, runClear(configPath, true, &buf))

	_, err := os.Stat(rulesPath)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Rule set "+rulesPath+" was kept on disk; parsing now uses the built-in rules.")
}

func TestRunClear_RulesFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvRules, "other.yaml")
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{Rules: "forum.yaml"}).Save(configPath))

	var buf bytes.Buffer
	require.NoError(t, runClear(configPath, true, &buf))

	assert.Contains(t, buf.String(), "parsing now uses other.yaml (RTX_RULES).")
	assert.Contains(t, buf.String(), "! Environment variables still apply: RTX_RULES\n")
}

func TestRunClear_ReportsEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvOutput, "html")
	t.Setenv(config.EnvGlamourStyle, "dark")

	var buf bytes.Buffer
	require.NoError(t, runClear(filepath.Join(t.TempDir(), "config.yml"), true, &buf))

	assert.Contains(t, buf.String(), "! Environment variables still apply: RTX_OUTPUT, GLAMOUR_STYLE\n")
}

func TestRunClear_Idempotent(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yml")

	require.NoError(t, runClear(configPath, true, &bytes.Buffer{}))
	require.NoError(t, runClear(configPath, true, &bytes.Buffer{}))
}
