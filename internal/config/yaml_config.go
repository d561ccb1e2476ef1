package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the optional institutions.yaml file.
// Institution rules are hierarchical enough to be awkward as env vars.
type YAMLConfig struct {
	Institutions []InstitutionConfig `yaml:"institutions"`
}

// InstitutionConfig defines one supported institution and the email domains
// that map to it. Student emails from any other domain are rejected.
type InstitutionConfig struct {
	ID         string   `yaml:"id"`
	CampusCode string   `yaml:"campus_code"`
	Domains    []string `yaml:"domains"`
}

// LoadYAMLConfig loads the YAML configuration file. Path is determined by
// CONFIG_FILE env var, defaulting to "institutions.yaml". Returns nil
// without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "institutions.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetInstitutionByDomain finds an institution by email domain.
func (c *YAMLConfig) GetInstitutionByDomain(domain string) *InstitutionConfig {
	if c == nil {
		return nil
	}
	for i := range c.Institutions {
		for _, d := range c.Institutions[i].Domains {
			if d == domain {
				return &c.Institutions[i]
			}
		}
	}
	return nil
}
