package stash

import (
	"io"
	"time"

	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

// Names of the instances provisioned by DefaultConfig.
const (
	InstanceDefault   = "default"
	InstanceEntities  = "entities"
	InstanceDashboard = "dashboard"
)

// InstanceConfig parameterizes one named cache.
type InstanceConfig struct {
	Name     string        `yaml:"name"`
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
	Policy   Policy        `yaml:"policy"`
}

// Config lists the named caches a Registry can open.
type Config struct {
	Instances []InstanceConfig `yaml:"instances"`
}

// DefaultConfig returns the application's standard instances: a general
// purpose cache, a larger longer-lived cache for entity records and
// reference data, and a small short-lived cache for dashboard aggregates.
func DefaultConfig() Config {
	return Config{
		Instances: []InstanceConfig{
			{Name: InstanceDefault, Capacity: DefaultCapacity, TTL: DefaultTTL, Policy: LRU},
			{Name: InstanceEntities, Capacity: 500, TTL: 10 * time.Minute, Policy: LRU},
			{Name: InstanceDashboard, Capacity: 50, TTL: 2 * time.Minute, Policy: LRU},
		},
	}
}

// LoadConfig decodes a YAML configuration and validates it. TTLs are Go
// duration strings:
//
//	instances:
//	  - name: dashboard
//	    capacity: 50
//	    ttl: 2m
//	    policy: lru
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, errors.New(errors.CodeInvalidConfig, "cache configuration is empty")
		}
		if errors.GetCode(err) == errors.CodeInvalidConfig {
			return Config{}, err
		}
		return Config{}, errors.Wrap(err, errors.CodeInvalidConfig, "failed to decode cache configuration")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every instance has a unique non-empty name, a
// positive capacity and TTL, and a known policy.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Instances))
	for _, inst := range c.Instances {
		if inst.Name == "" {
			return errors.WithContext(
				errors.New(errors.CodeInvalidConfig, "cache instance name is required"),
				"field", "name",
			)
		}
		if _, dup := seen[inst.Name]; dup {
			return invalidInstance(inst.Name, "name", "duplicate cache instance")
		}
		seen[inst.Name] = struct{}{}

		if err := inst.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single instance configuration.
func (ic InstanceConfig) Validate() error {
	if ic.Capacity <= 0 {
		return invalidInstance(ic.Name, "capacity", "capacity must be positive")
	}
	if ic.TTL <= 0 {
		return invalidInstance(ic.Name, "ttl", "ttl must be positive")
	}
	if !ic.Policy.valid() {
		return invalidInstance(ic.Name, "policy", "unknown eviction policy")
	}
	return nil
}

func (ic InstanceConfig) options() []Option {
	return []Option{
		WithCapacity(ic.Capacity),
		WithTTL(ic.TTL),
		WithPolicy(ic.Policy),
	}
}

func invalidInstance(name, field, msg string) error {
	return errors.WithContextMap(
		errors.New(errors.CodeInvalidConfig, msg),
		map[string]any{
			"instance": name,
			"field":    field,
		},
	)
}
