package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ean-extractor/internal/api"
	"ean-extractor/internal/api/handlers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP upload service",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			maxUploadBytes := int64(rt.config.Server.MaxUploadMB) << 20
			extractionHandler := handlers.NewExtractionHandler(rt.service, maxUploadBytes, rt.config.Extraction.DownloadFileName, rt.logger.Named("http"))
			app := api.SetupRouter(extractionHandler, api.RouterConfig{
				MaxUploadBytes: maxUploadBytes,
				ReadTimeout:    rt.config.Server.ReadTimeout,
				WriteTimeout:   rt.config.Server.WriteTimeout,
			}, rt.logger)

			errCh := make(chan error, 1)
			go func() {
				addr := ":" + rt.config.Server.Port
				rt.logger.Info("Server starting", zap.String("address", addr))
				errCh <- app.Listen(addr)
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			rt.logger.Info("Shutting down server")
			if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
				rt.logger.Error("Server shutdown error", zap.Error(err))
			}
			return nil
		},
	}
}
