package main

import (
	"log"

	"github.com/spf13/cobra"

	"topoedit/internal/config"
)

var version = "0.3.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "topoedit",
	Short: "Interactive network topology editor",
	Long: brand.Sprint("topoedit") + " places buildings, servers, switches and access points\n" +
		"on a canvas, links them by clicking and animates simulated traffic.\n" +
		subtle.Sprint("Run `topoedit serve` for the web canvas or `topoedit tui` in a terminal."),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	},
}

func init() {
	rootCmd.SetVersionTemplate("topoedit {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: search $TOPOEDIT_CONFIG, ./topoedit.yaml, ~/.config/topoedit)")

	rootCmd.AddCommand(
		serveCmd(),
		simulateCmd(),
		tuiCmd(),
		configCmd(),
	)
}

// loadConfig loads --config if given, otherwise searches the default paths
func loadConfig() (*config.Config, string, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}
