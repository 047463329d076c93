package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mehmetkoksal-w/velo-assist/internal/logger"
	"github.com/mehmetkoksal-w/velo-assist/internal/lsp"
)

func (a *app) lspCommand() *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLSP(cmd.Context(), logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log", "", "log file path (default: none)")
	return cmd
}

func (a *app) runLSP(ctx context.Context, logFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// stdout carries JSON-RPC, so the server only logs to a file.
	log := zap.NewNop()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		level := logger.LevelInfo
		if a.debug {
			level = logger.LevelDebug
		}
		log = logger.New(f, level)
		defer func() { _ = log.Sync() }()
	}

	server := lsp.NewServerWithIO(a.in, a.out, log)
	server.SetFS(a.fs)
	server.SetVersion(buildVersion)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("velo LSP server started", zap.String("version", buildVersion))
	return server.Run(ctx)
}
