package cmd

import (
	"os"

	ui "github.com/atdiar/entityui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool
var configPath, propsPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "entityui",
	Short: "entityui renders component trees to HTML or to the terminal",
	Long: `
		entityui renders the demo board component, either once to HTML or
		live in the terminal. Props are read from a YAML or JSON file.
		`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&propsPath, "props", "p", "", "YAML or JSON file holding the props of the board")
}

// loadConfig reads the configuration file if any. --verbose forces debug
// logging.
func loadConfig() (ui.Config, error) {
	cfg := ui.DefaultConfig()
	if configPath != "" {
		c, err := ui.LoadConfigFile(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if verbose {
		cfg.LogLevel = "debug"
		cfg.Development = true
	}
	return cfg, nil
}

func newLogger(cfg ui.Config) (*zap.Logger, error) {
	return ui.NewLogger(cfg)
}
