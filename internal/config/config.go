package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/reportable/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Assets    AssetsConfig    `yaml:"assets"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Watch     WatchConfig     `yaml:"watch"`
}

// AssetsConfig controls how referenced files are materialized
type AssetsConfig struct {
	// Directory is the name of the assets subdirectory inside the target directory
	Directory string `yaml:"directory"`
	// Extensions lists the file extensions treated as local media references
	Extensions []string `yaml:"extensions,omitempty"`
}

// ToolchainConfig describes the external build command run after rewriting.
// The {doc} placeholder in Args is replaced with the rewritten document path.
type ToolchainConfig struct {
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
}

// WatchConfig controls watch-mode behavior
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms,omitempty"`
}

// Load loads configuration from the specified file.
// A missing file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	config := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if os.IsNotExist(err) {
				applyDefaults(config)
				return config, nil
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyDefaults(config)

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validate(cfg *Config) error {
	if strings.ContainsAny(cfg.Assets.Directory, `/\`) {
		return errors.ValidationFailed("assets.directory",
			fmt.Sprintf("must be a plain directory name, got %q", cfg.Assets.Directory))
	}
	for _, ext := range cfg.Assets.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.ValidationFailed("assets.extensions",
				fmt.Sprintf("entries must start with a dot, got %q", ext))
		}
	}
	if cfg.Toolchain.Command == "" && len(cfg.Toolchain.Args) > 0 {
		return errors.ValidationFailed("toolchain.args", "set without toolchain.command")
	}
	return nil
}

// loadEnvFile loads environment variables from a .env file if present
func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}
