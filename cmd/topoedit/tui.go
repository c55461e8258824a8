package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"topoedit/internal/loader"
	"topoedit/internal/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit a topology in the terminal",
		Long: `Open the editor in a terminal interface. Nodes are listed in a table;
with link mode on, press enter on one node and then on another to link them.
Press ? for all key bindings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			seeds, err := loader.LoadSeeds(cfg.Seeds.Path)
			if err != nil {
				return fmt.Errorf("load seeds: %w", err)
			}

			opts := cfg.TopologyOptions()
			opts.Seeds = seeds
			m := tui.New(opts, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), cfg.FrameInterval())
			return tui.Run(m)
		},
	}
}
