package ruleset

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Export encodes f in the given format.
func Export(f *File, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("failed to encode rule set as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("failed to encode rule set as TOML: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported rule-set format %q", format)
}
