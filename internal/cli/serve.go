package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/varnamd/internal/api"
	"github.com/roach88/varnamd/internal/config"
	"github.com/roach88/varnamd/internal/docs"
	"github.com/roach88/varnamd/internal/store"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions

	// OnListen is called with the bound address once the server accepts
	// connections. Used by tests.
	OnListen func(addr string)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the varnamd HTTP server.

Compiles the phonetic schemes, opens one learnings store per language under
the data directory, opens the shared submission database and serves until
SIGINT or SIGTERM.

Example:
  varnamd serve --listen :3000 --database ./varnam.db
  VARNAM_DATA_DIR=/var/lib/varnam varnamd serve --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindFlags(rootOpts.Config, cmd.Flags()); err != nil {
				return WrapExitError(ExitCommandError, "invalid flags", err)
			}
			return runServe(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.String("listen", ":3000", "address to listen on")
	f.String("database", "varnam.db", "path to the submission database")
	f.String("data-dir", "", "directory holding learnings.varnam.<code> files (default: working directory)")
	f.String("docs-dir", "docs", "directory of markdown documents served under /docs")
	f.String("schemes-dir", "", "directory of .cue schemes (default: builtin)")
	f.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	f.Duration("write-timeout", 30*time.Second, "HTTP write timeout")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	learningsDir := cfg.DataDir
	if learningsDir == "" {
		learningsDir = "."
	}
	if abs, err := filepath.Abs(learningsDir); err == nil {
		learningsDir = abs
	}
	logger.Info("learnings directory", "path", learningsDir)

	eng, err := openEngines(cfg, true, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open engines", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error("error closing learnings", "error", err)
		}
	}()
	for _, lang := range eng.registry.Languages() {
		logger.Debug("language registered", "code", lang.Code, "name", lang.Name)
	}

	logger.Info("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}()

	srv := api.New(api.Deps{
		Registry: eng.registry,
		Store:    st,
		Docs:     docs.New(os.DirFS(cfg.DocsDir)),
	}, api.WithLogger(logger))

	httpServer := &http.Server{
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()

	logger.Info("listening", "addr", ln.Addr().String())
	fmt.Fprintf(cmd.OutOrStdout(), "varnamd listening on %s\n", ln.Addr())
	if opts.OnListen != nil {
		opts.OnListen(ln.Addr().String())
	}

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "shutdown failed", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
