package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// documentSchema constrains the shape of a configuration file. Semantic
// checks (signal names, clock names, threshold expressions) live in Validate.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "definitions": {
    "duration": {
      "type": ["string", "integer"],
      "pattern": "^-?([0-9]+|([0-9]+(\\.[0-9]+)?(ns|us|µs|μs|ms|s|m|h))+)$"
    },
    "signal": { "type": ["string", "integer"] }
  },
  "properties": {
    "name": { "type": "string" },
    "description": { "type": "string" },
    "iterations": { "type": "integer", "minimum": 1 },
    "nominal": { "$ref": "#/definitions/duration" },
    "clock": { "type": "string" },
    "signal": { "$ref": "#/definitions/signal" },
    "timerSignal": { "$ref": "#/definitions/signal" },
    "pollInterval": { "$ref": "#/definitions/duration" },
    "spinTimeout": { "$ref": "#/definitions/duration" },
    "outputDir": { "type": "string" },
    "experiments": {
      "type": "array",
      "uniqueItems": true,
      "items": { "type": "string", "enum": ["nanosleep", "usleep", "signal", "timer"] }
    },
    "priority": { "type": "integer", "minimum": 0, "maximum": 99 },
    "thresholds": {
      "type": "object",
      "additionalProperties": { "type": "array", "items": { "type": "string" } }
    }
  }
}`

var compiledSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("harness.json", strings.NewReader(documentSchema)); err != nil {
		panic(fmt.Sprintf("invalid harness schema: %v", err))
	}
	compiledSchema = compiler.MustCompile("harness.json")
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *HarnessConfig {
	cfg := &HarnessConfig{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *HarnessConfig) {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Iterations == 0 {
		cfg.Iterations = DefaultIterations
	}
	if cfg.Nominal == 0 {
		cfg.Nominal = Duration(DefaultNominal)
	}
	if cfg.Clock == "" {
		cfg.Clock = DefaultClock
	}
	if cfg.Signal == "" {
		cfg.Signal = DefaultSignal
	}
	if cfg.TimerSignal == "" {
		cfg.TimerSignal = DefaultTimerSignal
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(DefaultPollInterval)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
}

// LoadConfig reads a YAML (or JSON) configuration file.
func LoadConfig(path string) (*HarnessConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("in file %q: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig checks the document against the schema and decodes it.
// Defaults are not applied.
func ParseConfig(data []byte) (*HarnessConfig, error) {
	if err := checkDocument(data); err != nil {
		return nil, err
	}
	cfg := &HarnessConfig{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

// checkDocument validates the raw document shape. YAML values are
// round-tripped through JSON so the schema sees JSON types.
func checkDocument(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	var jsonDoc interface{}
	if err := json.Unmarshal(raw, &jsonDoc); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	if err := compiledSchema.Validate(jsonDoc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
