// Package config loads and validates a simulation Config from a YAML
// file. Validation failures surface as a single structured ConfigError
// naming the offending field instead of a generic wrapped error.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rpgo/rsim/internal/calculation"
	"github.com/rpgo/rsim/internal/domain"
)

// InputParser loads Config objects from YAML files.
type InputParser struct{}

// NewInputParser constructs an InputParser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile reads and parses filename into a Config, then validates
// it against refData (pass nil to skip reference-data cross-checks,
// e.g. before reference data has been loaded).
func (p *InputParser) LoadFromFile(filename string, refData *domain.ReferenceData) (*domain.Config, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	normalized := calculation.Normalize(cfg)
	if cfgErr := calculation.Validate(normalized, refData); cfgErr != nil {
		return nil, cfgErr
	}
	return normalized, nil
}

// defaultConfig builds the base struct the YAML is unmarshalled over,
// so optional fields keep sensible defaults when absent.
func defaultConfig() *domain.Config {
	return &domain.Config{
		Rebalance: true,
	}
}
