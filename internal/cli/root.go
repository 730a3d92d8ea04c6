// Package cli wires the extractor into the ean-extractor command.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "ean-extractor",
	Short: "Extract EAN codes and quantities from document images and PDFs",
	Long: `ean-extractor sends a price or inventory list (PDF, JPG or PNG) to a hosted
multimodal model and returns a code|value table ready for import.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			return os.Setenv("EXTRACTOR_CONFIG_FILE", configFile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "TOML config file (overrides EXTRACTOR_CONFIG_FILE)")
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newModelCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
