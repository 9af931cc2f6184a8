package clinic

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads a YAML clinic profile and merges it over the seeded defaults.
// An empty path returns Seed().
func LoadProfile(path string) (Info, error) {
	if path == "" {
		return Seed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("read clinic profile %s: %w", path, err)
	}

	var override Info
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Info{}, fmt.Errorf("parse clinic profile %s: %w", path, err)
	}

	return Merge(Seed(), override), nil
}
