// Package config loads the CLI's optional --config FILE: a YAML
// document overriding the iteration budget, the dead-code clean pass,
// and the safe/unsafe rule ordering, grounded on viant-linager's own
// use of gopkg.in/yaml.v3 for its project configuration files.
package config

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/nocturnelabs/restringer/internal/cli"
)

// Config is the --config document's shape. Every field is optional; a
// zero value leaves the corresponding CLI flag or built-in default
// untouched.
type Config struct {
	MaxIterations int      `yaml:"max_iterations"`
	Clean         bool     `yaml:"clean"`
	Detector      string   `yaml:"detector"`
	SafeRules     []string `yaml:"safe_rules"`
	UnsafeRules   []string `yaml:"unsafe_rules"`

	// EngineVersion, when set, is a semver constraint (e.g. ">= 0.1.0,
	// < 0.2.0") the running binary must satisfy. Lets a config bundle
	// pin itself to the engine versions it was written against instead
	// of silently misbehaving against a rule-set it predates.
	EngineVersion string `yaml:"engine_version"`
}

// Load reads and parses path, then checks EngineVersion against
// cli.Version if the document sets one. A missing or malformed file, an
// unparseable constraint, or a version mismatch are all reported as a
// plain wrapped error - config loading sits on the same fatal path as
// an unparseable input script, not the engine's recoverable
// rule-granular taxonomy.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := checkEngineVersion(c.EngineVersion); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// checkEngineVersion reports an error if constraint is non-empty and
// the running binary's cli.Version doesn't satisfy it.
func checkEngineVersion(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("engine_version %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(cli.Version)
	if err != nil {
		return fmt.Errorf("engine_version: running version %q: %w", cli.Version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("engine_version %q does not allow the running version %s", constraint, cli.Version)
	}
	return nil
}
