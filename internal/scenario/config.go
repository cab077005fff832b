package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RunConfig is the scenario's read-only configuration. It is loaded once
// before the session starts and never mutated.
type RunConfig struct {
	// Blueprint is the encoded payload. BlueprintFile is an alternative
	// source; it is read into Blueprint at load time.
	Blueprint     string `yaml:"blueprint"`
	BlueprintFile string `yaml:"blueprint_file,omitempty"`

	// BotCount logistics robots are inserted into every roboport after
	// deployment. 0 skips provisioning.
	BotCount int `yaml:"bot_count"`

	// SaveTicks is the number of ticks after deployment start at which the
	// one-shot save fires. 0 disables saving.
	SaveTicks int `yaml:"save_ticks"`

	// SaveName is the identifier handed to the save operation.
	SaveName string `yaml:"save_name"`
}

func (c *RunConfig) applyDefaults() {
	if strings.TrimSpace(c.SaveName) == "" {
		c.SaveName = "bp-session"
	}
}

func (c *RunConfig) Validate() error {
	if strings.TrimSpace(c.Blueprint) == "" {
		return fmt.Errorf("blueprint payload is required")
	}
	if c.BotCount < 0 {
		return fmt.Errorf("bot_count must be >= 0, got %d", c.BotCount)
	}
	if c.SaveTicks < 0 {
		return fmt.Errorf("save_ticks must be >= 0, got %d", c.SaveTicks)
	}
	return nil
}

// LoadConfig reads a RunConfig from a yaml file, resolving blueprint_file
// if set.
func LoadConfig(path string) (RunConfig, error) {
	var cfg RunConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("scenario config: %w", err)
	}
	if cfg.Blueprint == "" && cfg.BlueprintFile != "" {
		bp, err := os.ReadFile(cfg.BlueprintFile)
		if err != nil {
			return cfg, fmt.Errorf("scenario config: blueprint_file: %w", err)
		}
		cfg.Blueprint = strings.TrimSpace(string(bp))
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scenario config: %w", err)
	}
	return cfg, nil
}
