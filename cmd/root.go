package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	noColor    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gpcap",
	Short: "Inspect Java Card CAP files and GlobalPlatform card data",
	Long: "gpcap decodes what a GlobalPlatform provisioning session deals with: CAP load files " +
		"(load file data hash, LOAD blocks) and the data objects a card returns to GET DATA " +
		"(CPLC, Key Information Template, Card Recognition Data).",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		setupLogging(verbose, noColor)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logs on stderr)")
}

func setupLogging(verbose, noColor bool) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// Execute runs the command tree.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
