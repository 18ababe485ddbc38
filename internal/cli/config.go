package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// KeepConfig represents the keep.yaml configuration structure.
type KeepConfig struct {
	Version string `yaml:"version"`
	Project string `yaml:"project"`

	Server struct {
		Address         string        `yaml:"address"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Database struct {
		Driver         string `yaml:"driver"`
		URL            string `yaml:"url"`
		MaxConnections int    `yaml:"max_connections"`
	} `yaml:"database"`

	Auth struct {
		Secret   string `yaml:"secret"`
		Issuer   string `yaml:"issuer"`
		Audience string `yaml:"audience"`
	} `yaml:"auth"`
}

// LoadKeepConfig reads the config file, falling back to the default search
// locations when path is empty. A missing file yields a defaults-only
// config; the auth secret may also arrive via KEEP_AUTH_SECRET.
func LoadKeepConfig(path string) (*KeepConfig, error) {
	if path == "" {
		path = findConfigPath()
	}

	var config KeepConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.fillDefaults()
	return &config, nil
}

// DefaultKeepConfig returns a config with every default filled and no file
// consulted.
func DefaultKeepConfig() *KeepConfig {
	var config KeepConfig
	config.fillDefaults()
	return &config
}

func (config *KeepConfig) fillDefaults() {
	if config.Project == "" {
		config.Project = "keep"
	}
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 10 * time.Second
	}
	if config.Database.Driver == "" {
		config.Database.Driver = "postgres"
	}
	if config.Database.MaxConnections == 0 {
		config.Database.MaxConnections = 25
	}
	if config.Auth.Secret == "" {
		config.Auth.Secret = os.Getenv("KEEP_AUTH_SECRET")
	}
	if config.Database.URL == "" {
		config.Database.URL = os.Getenv("KEEP_DATABASE_URL")
	}
}

func findConfigPath() string {
	if path := os.Getenv("KEEP_CONFIG"); path != "" {
		return path
	}

	locations := []string{"keep.yaml", "keep.yml", ".keep.yaml", ".keep.yml"}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}
