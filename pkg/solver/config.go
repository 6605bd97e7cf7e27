package solver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config maps solver names to the paths of their executables. It is
// normally loaded from a solvers.yaml file:
//
//	ic3ia: /opt/ic3ia/build/ic3ia
//	nuxmv: /usr/local/bin/nuXmv
type Config struct {
	Ic3ia string `yaml:"ic3ia"`
	Nuxmv string `yaml:"nuxmv"`
}

// ConfigFile is the default configuration file name, looked up in the
// working directory.
const ConfigFile = "solvers.yaml"

// LoadConfig reads a YAML solver configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidOption, path, err)
	}
	return cfg, nil
}

func (c *Config) pathFor(name string) string {
	if c == nil {
		return ""
	}
	switch name {
	case "ic3ia":
		return c.Ic3ia
	case "nuxmv":
		return c.Nuxmv
	}
	return ""
}

// findExecutable resolves the binary for a solver: the environment
// variable wins, then the explicit configuration, then a solvers.yaml
// in the working directory.
func findExecutable(name, envVar string, cfg *Config) (string, error) {
	path := os.Getenv(envVar)
	if path == "" {
		path = cfg.pathFor(name)
	}
	if path == "" {
		if fileCfg, err := LoadConfig(ConfigFile); err == nil {
			path = fileCfg.pathFor(name)
		}
	}
	if path == "" {
		return "", fmt.Errorf("%w: %s: set %s or add %q to %s",
			ErrSolverNotConfigured, name, envVar, name, ConfigFile)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s executable not found at %s", ErrSolverNotFound, name, path)
	}
	return path, nil
}
