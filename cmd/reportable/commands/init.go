package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/reportable/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	cfgPath := root.Config
	// If the user specified an output directory, place the config there as "reportable.yaml".
	if i.Output != "" {
		cfgPath = filepath.Join(i.Output, "reportable.yaml")
	}

	fmt.Printf("Writing configuration to %s\n", cfgPath)
	return config.Init(cfgPath, i.Force)
}
