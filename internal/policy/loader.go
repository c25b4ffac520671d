package policy

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

func LoadPolicy(path string) (*PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg PolicyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse policy %q: %w", path, err)
	}

	if cfg.Version != 1 {
		return nil, errors.New("unsupported policy version")
	}

	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}

	slog.Debug("Loaded policy", "path", path, "sensitive_ports", len(cfg.SensitivePorts), "rules", len(cfg.Rules))
	return &cfg, nil
}

// LoadOptional loads path when it exists. A missing file yields (nil, nil)
// so callers fall back to defaults. When explicit is true a missing file is
// an error, because the user named it.
func LoadOptional(path string, explicit bool) (*PolicyConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("stat policy %q: %w", path, err)
	}
	return LoadPolicy(path)
}
