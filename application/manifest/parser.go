package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zendwasm/zendini/domain/entities"
	"github.com/zendwasm/zendini/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlParser implements ManifestParser for YAML.
type YamlParser struct{}

// Parse unmarshals YAML bytes into a Manifest. Unknown fields are rejected.
func (YamlParser) Parse(filename string, data []byte) (*entities.Manifest, error) {
	var m entities.Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML manifest %s: %w", filename, err)
	}
	return &m, nil
}

// TomlParser implements ManifestParser for TOML.
type TomlParser struct{}

// Parse decodes TOML bytes into a Manifest. Unknown keys are rejected.
func (TomlParser) Parse(filename string, data []byte) (*entities.Manifest, error) {
	var m entities.Manifest
	meta, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML manifest %s: %w", filename, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("TOML manifest %s has unknown keys: %v", filename, undecoded)
	}
	return &m, nil
}

// HclParser implements ManifestParser for HCL.
type HclParser struct{}

// Parse decodes HCL bytes into a Manifest.
func (HclParser) Parse(filename string, data []byte) (*entities.Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", filename, diags)
	}

	var m entities.Manifest
	if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL manifest %s: %w", filename, diags)
	}
	return &m, nil
}

// ParserFor picks a parser by file extension.
func ParserFor(filename string) (ports.ManifestParser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return YamlParser{}, nil
	case ".toml":
		return TomlParser{}, nil
	case ".hcl":
		return HclParser{}, nil
	}
	return nil, fmt.Errorf("unsupported manifest format %q", filepath.Ext(filename))
}

// Parse decodes data with the parser matching filename.
func Parse(filename string, data []byte) (*entities.Manifest, error) {
	p, err := ParserFor(filename)
	if err != nil {
		return nil, err
	}
	return p.Parse(filename, data)
}

// ParseFile reads and decodes a manifest file.
func ParseFile(path string) (*entities.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(path, data)
}
