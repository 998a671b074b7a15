package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/smartreg/api/planner"
	"github.com/kilianp07/smartreg/infra/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner HTTP API and /metrics",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, svc, err := setup()
	if err != nil {
		return err
	}
	defer teardown(svc)

	// A failed first scan is not fatal: POST /api/scan retries it.
	if _, err := svc.Scan(ctx); err != nil {
		logger.New("main").Warnf("initial catalog scan: %v", err)
	}
	return svc.Run(ctx, planner.NewHandler(svc, cfg.Server.Token))
}
