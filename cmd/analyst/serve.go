package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer syncLogger(a.Log)

		if cmd.Flags().Changed("port") {
			a.Config.Server.Port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen address, e.g. :8000 (overrides config)")
}
