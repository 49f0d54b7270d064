package ruleset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Supported rule-set formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// FormatFromPath infers the format of a rule-set file from its extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported rule-set file %s: expected .yaml, .yml or .toml", path)
}

// Load reads a rule-set file.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(format)); err != nil {
		return nil, fmt.Errorf("failed to load rule set from %s: %w", path, err)
	}
	f, err := decode(k)
	if err != nil {
		return nil, fmt.Errorf("invalid rule set %s: %w", path, err)
	}
	return f, nil
}

// Parse reads a rule set from data in the given format.
func Parse(data []byte, format string) (*File, error) {
	parser := parserFor(format)
	if parser == nil {
		return nil, fmt.Errorf("unsupported rule-set format %q", format)
	}
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, parser); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}
	return decode(k)
}

func parserFor(format string) koanf.Parser {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		return yaml.Parser()
	case FormatTOML:
		return toml.Parser()
	}
	return nil
}

func decode(k *koanf.Koanf) (*File, error) {
	var f File
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &f,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &f, unmarshalConf); err != nil {
		return nil, err
	}
	for i, td := range f.Tags {
		if strings.TrimSpace(td.Name) == "" {
			return nil, fmt.Errorf("tag #%d has no name", i+1)
		}
		for j := range td.Rules {
			td.Rules[j].Names = trimAll(td.Rules[j].Names)
		}
	}
	return &f, nil
}

func trimAll(names []string) []string {
	out := names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
