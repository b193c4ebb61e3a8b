package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadScenario reads and strictly parses a scenario YAML file, the way
// the teacher's LoadScenario rejects unknown fields to catch typos
// (internal/harness/scenario.go).
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Mode == "" {
		return fmt.Errorf("mode is required")
	}
	if s.SystemTime == "" {
		return fmt.Errorf("system_time is required")
	}
	if len(s.Schema.IDColumns) == 0 {
		return fmt.Errorf("schema.id_columns must be non-empty")
	}
	if len(s.Schema.ValueColumns) == 0 {
		return fmt.Errorf("schema.value_columns must be non-empty")
	}
	if len(s.Schema.ValueTypes) != len(s.Schema.ValueColumns) {
		return fmt.Errorf("schema.value_types has %d entries, value_columns has %d", len(s.Schema.ValueTypes), len(s.Schema.ValueColumns))
	}
	return nil
}
