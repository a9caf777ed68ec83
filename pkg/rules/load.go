package rules

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

// Load reads a rules file. The format is chosen by extension: .yaml/.yml or
// .toml. An empty path returns the built-in defaults.
func Load(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return Parse(b, filepath.Ext(path))
}

// Parse decodes rules from b. ext is a file extension with the leading dot.
func Parse(b []byte, ext string) (*Rules, error) {
	var cfg Config
	switch ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decoding yaml rules: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decoding toml rules: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported rules format %q", ext)
	}
	return New(cfg)
}

// MarshalYAML renders r in the rules file format.
func (r *Rules) MarshalYAML() (any, error) {
	return r.Config(), nil
}

// YAML returns r encoded as a rules file.
func (r *Rules) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
