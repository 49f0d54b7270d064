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

func TestRunTest_BuiltinRules(t *testing.T) {
	var buf bytes.Buffer
	err := runTest(&config.Config{}, true, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ Configuration is valid")
	assert.Contains(t, output, "✓ Rule set loaded from built-in rules")
	assert.Contains(t, output, "<LI><st>[*]</st>item</LI>")
	assert.Contains(t, output, `<URL url="http://example.com">`)
}

func TestRunTest_InvalidConfig(t *testing.T) {
	var buf bytes.Buffer
	err := runTest(&config.Config{OutputFormat: "pdf"}, true, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, buf.String(), "✗ Invalid configuration")
}

func TestRunTest_BrokenRuleSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := "tags:\n  - name: li\n    rules:\n      - { kind: require_parent, names: [list] }\n"
	require.NoError(t, os.WriteFile(path, []byte(rules), 0600))

	var buf bytes.Buffer
	err := runTest(&config.Config{Rules: path}, true, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule set failed to load")
	assert.Contains(t, buf.String(), "rtx rules check")
}
