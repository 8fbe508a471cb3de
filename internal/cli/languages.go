package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/varnamd/internal/config"
	"github.com/roach88/varnamd/internal/vocab"
)

// languageList is the output of the languages command.
type languageList []vocab.Language

func (l languageList) writeText(w io.Writer) error {
	for _, lang := range l {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", lang.Code, lang.Name); err != nil {
			return err
		}
	}
	return nil
}

// NewLanguagesCommand creates the languages command.
func NewLanguagesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "languages",
		Short:         "List supported languages",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindFlags(rootOpts.Config, cmd.Flags()); err != nil {
				return WrapExitError(ExitCommandError, "invalid flags", err)
			}
			return runLanguages(rootOpts, cmd)
		},
	}
	cmd.Flags().String("schemes-dir", "", "directory of .cue schemes (default: builtin)")
	return cmd
}

func runLanguages(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	eng, err := openEngines(cfg, false, nil)
	if err != nil {
		_ = formatter.Error(ErrCodeScheme, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load schemes", err)
	}
	defer eng.Close()

	return formatter.Success(languageList(eng.registry.Languages()))
}
