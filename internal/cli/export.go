package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/varnamd/internal/config"
	"github.com/roach88/varnamd/internal/ctxlog"
	"github.com/roach88/varnamd/internal/export"
	"github.com/roach88/varnamd/internal/registry"
	"github.com/roach88/varnamd/internal/store"
	"github.com/roach88/varnamd/internal/vocab"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <lang> <year> <month> <date>",
		Short: "Write the learned-words feed to stdout",
		Long: `Write every word learned for <lang> strictly after the given day, one
"<word> <confidence>" line per word, sorted by word. Accepts the same date
forms as GET /download.

Example:
  varnamd export ml 2024 3 5 --database ./varnam.db`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindFlags(rootOpts.Config, cmd.Flags()); err != nil {
				return WrapExitError(ExitCommandError, "invalid flags", err)
			}
			return runExport(rootOpts, cmd, args)
		},
	}
	cmd.Flags().String("database", "varnam.db", "path to the submission database")
	cmd.Flags().String("schemes-dir", "", "directory of .cue schemes (default: builtin)")
	return cmd
}

func runExport(opts *RootOptions, cmd *cobra.Command, args []string) error {
	formatter := newFormatter(opts, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	eng, err := openEngines(cfg, false, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load schemes", err)
	}
	defer eng.Close()

	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	feed := export.New(eng.registry, st)
	req, err := feed.Prepare(vocab.Code(args[0]), args[1], args[2], args[3])
	if err != nil {
		code := ErrCodeMalformedDate
		if errors.Is(err, registry.ErrUnknownLanguage) {
			code = ErrCodeUnknownLanguage
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid export request", err)
	}
	formatter.VerboseLog("exporting %s since %s from %s", req.Lang, req.Since, cfg.Database)

	ctx := ctxlog.WithLogger(cmd.Context(), logger)
	if err := feed.Write(ctx, cmd.OutOrStdout(), req); err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitFailure, "export failed", err)
	}
	return nil
}
