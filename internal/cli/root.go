package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/varnamd/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Config receives flags, VARNAM_* variables and the config file.
	Config *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the varnamd CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: config.New()}

	cmd := &cobra.Command{
		Use:   "varnamd",
		Short: "varnamd - transliteration service",
		Long: `Serve transliteration, reverse transliteration and crowd-sourced
learning for Indic languages over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := config.ReadFile(opts.Config, opts.ConfigFile); err != nil {
				return WrapExitError(ExitCommandError, "failed to read config", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default $HOME/.varnamd.yaml or ./.varnamd.yaml)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewLanguagesCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSchemesCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
