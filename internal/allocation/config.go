// Package allocation implements the seat-allocation pipeline for a
// two-ballot, mixed-member proportional election: vote aggregation,
// constituency winner resolution, party qualification, federal and state
// Sainte-Laguë apportionment, second-vote coverage, list-seat filling,
// and roster assembly.
package allocation

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-mandate/internal/domain"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// Config defines the electoral parameters for one allocation run.
// All fields are validated before the pipeline executes.
type Config struct {
	// TotalSeats is the fixed size of the parliament. The assembled
	// roster contains exactly this many entries for valid input.
	TotalSeats int `yaml:"total_seats" validate:"required,min=1"`

	// ThresholdSharePct is the national second-vote share, in percent,
	// a party must reach to qualify for proportional seats.
	ThresholdSharePct float64 `yaml:"threshold_share_pct" validate:"min=0,max=100"`

	// MinDirectMandates is the number of constituency wins that
	// qualifies a party regardless of its vote share.
	MinDirectMandates int `yaml:"min_direct_mandates" validate:"min=0"`
}

// DefaultConfig returns the parameters of the reformed federal electoral
// law: 630 seats, a 5% threshold, and the three-mandate clause.
func DefaultConfig() Config {
	return Config{
		TotalSeats:        630,
		ThresholdSharePct: 5.0,
		MinDirectMandates: 3,
	}
}

// Validate checks the configuration against its declared constraints.
// Returns nil if validation passes, or an error describing what is invalid.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfiguration, err)
	}
	return nil
}

// LoadConfig reads and validates a Config from a YAML file.
// Unknown fields are rejected to prevent configuration typos from being
// silently ignored.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
