package pipeline

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned when a configuration document is malformed.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")

	// ErrInvalidConfigSchema is returned when the embedded schema fails to compile.
	ErrInvalidConfigSchema = errors.New("invalid configuration schema")
)

// Format is the encoding of a configuration document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

//go:embed config.schema.json
var configSchemaJSON string

const configSchemaURL = "config.schema.json"

var configSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configSchemaURL, strings.NewReader(configSchemaJSON)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfigSchema, err)
	}
	schema, err := compiler.Compile(configSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfigSchema, err)
	}
	return schema, nil
})

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadConfig reads, schema-checks and validates a configuration file.
// A relative trace path is resolved against the directory of the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Trace != "" && !filepath.IsAbs(cfg.Trace) {
		cfg.Trace = filepath.Join(filepath.Dir(path), cfg.Trace)
	}
	return cfg, nil
}

// ParseConfig decodes a JSON or YAML document, checks it against the
// configuration schema and validates the result.
func ParseConfig(data []byte, format Format) (*Config, error) {
	raw := data
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		b, err := json.Marshal(normalizeYAML(doc))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		raw = b
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	schema, err := configSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := &Config{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// normalizeYAML turns the map[any]any nodes yaml produces for non-string
// keys (label values are integers) into JSON-compatible maps.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeYAML(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	default:
		return v
	}
}
