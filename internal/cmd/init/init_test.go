package init

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rtx/internal/config"
)

func TestVerifyRules_Builtin(t *testing.T) {
	tags, err := verifyRules(&config.Config{})
	require.NoError(t, err)
	assert.Greater(t, tags, 10)
}

func TestVerifyRules_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[tags]]\nname = \"b\"\n\n[[tags]]\nname = \"i\"\n"), 0600))

	tags, err := verifyRules(&config.Config{Rules: path})
	require.NoError(t, err)
	assert.Equal(t, 2, tags)
}

func TestVerifyRules_Errors(t *testing.T) {
	tests := []struct {
		name       string
		rules      string
		errContain string
	}{
		{
			name:       "undefined tag in rule",
			rules:      "tags:\n  - name: li\n    rules:\n      - { kind: close_parent, names: [x] }\n",
			errContain: "undefined tag",
		},
		{
			name:       "unknown plugin",
			rules:      "plugins:\n  - name: smilies\n",
			errContain: "unknown plugin",
		},
		{
			name:       "bad alias",
			rules:      "tags:\n  - name: li\n    aliases: [\"a b\"]\n",
			errContain: "invalid alias",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.rules), 0600))

			_, err := verifyRules(&config.Config{Rules: path})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContain)
		})
	}
}

func TestValidateRulesPath(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("tags: []\n"), 0600))

	assert.NoError(t, validateRulesPath(""))
	assert.NoError(t, validateRulesPath(existing))
	assert.Error(t, validateRulesPath("rules.json"))
	assert.Error(t, validateRulesPath(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestValidateWorkers(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{" 4 ", false},
		{"0", true},
		{"-2", true},
		{"many", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateWorkers(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "rules.yaml"), expandHome("~/rules.yaml"))
	assert.Equal(t, "/etc/rules.yaml", expandHome("/etc/rules.yaml"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}

func TestFormatOptions(t *testing.T) {
	opts := formatOptions()
	require.Len(t, opts, 5)
	assert.Equal(t, "", opts[0].Value)
	assert.Equal(t, "html", opts[1].Value)
}

func TestNewCmdInit_Flags(t *testing.T) {
	cmd := NewCmdInit()

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"rules", "format"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}

	noVerifyFlag := cmd.Flags().Lookup("no-verify")
	require.NotNil(t, noVerifyFlag)
	assert.Equal(t, "false", noVerifyFlag.DefValue)
}
