// Package cli wires configuration, adapters and core services into
// the docchat commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mhaddaou/docchat/internal/config"
	"github.com/mhaddaou/docchat/internal/logger"
)

var (
	cfgFile string
	verbose bool

	// version is set at build time via -ldflags.
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your own documents",
	Long: `Docchat answers questions from documents you upload, and only
from those documents. Each chat session has its own isolated index;
answers stream token by token and the transcript is kept durably.

Run "docchat serve" to expose the HTTP API, or "docchat chat" for an
in-process terminal session.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.docchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// loadConfig reads the configured (or default) config file.
func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}
