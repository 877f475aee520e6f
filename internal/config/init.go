package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a default configuration file at the given path.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Assets: AssetsConfig{
			Directory:  DefaultAssetsDirectory,
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Toolchain: ToolchainConfig{
			Command: "quarto",
			Args:    []string{"render", "{doc}"},
		},
		Watch: WatchConfig{
			DebounceMS: defaultWatchDebounceMS,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	header := "# Reportable configuration\n" +
		"# assets.directory: subdirectory of the target that receives copied media files\n" +
		"# toolchain: optional build command run after rewriting; {doc} expands to the rewritten document\n"

	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
