package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/parla/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tutor over HTTP and WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ServerAddr = addr
		}
		uploadDir, _ := cmd.Flags().GetString("upload-dir")

		d, err := buildDeps(cmd, cfg, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Options{
			Tutor:     d.tutor,
			Defaults:  cfg.Settings,
			UploadDir: uploadDir,
			Logger:    d.logger,
		})
		return srv.ListenAndServe(ctx, cfg.ServerAddr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PARLA_ADDR, default :8080)")
	serveCmd.Flags().String("upload-dir", "", "Directory for uploaded recordings (default: system temp dir)")
}
