package main

import (
	"context"
	"fmt"

	"github.com/harunnryd/pace/internal/config"
	"github.com/harunnryd/pace/internal/gpsserver"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the mock GPS endpoint",
	Long:  `Serve POST /ai/gps with fixed coordinates and GET /health until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadedCfg, err := loadConfigForCommand(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		sig := NewSignalHandler(cmd.Context(), cmd.ErrOrStderr())
		sig.Start()
		defer sig.Stop()

		return serveUntilDone(sig.Context(), loadedCfg)
	},
}

func serveUntilDone(ctx context.Context, c *config.Config) error {
	srv := gpsserver.New(c.Server, c.GPS)
	if err := srv.Init(ctx); err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return srv.Stop(context.Background())
}

func init() {
	serveCmd.Flags().Int("server.port", config.DefaultServerPort, "server port")
	rootCmd.AddCommand(serveCmd)
}
