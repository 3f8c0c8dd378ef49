package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pudey33/DreamRate/internal/data/repository"
	"github.com/pudey33/DreamRate/internal/usecase"
	"github.com/pudey33/DreamRate/internal/wire"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the JSON API on PORT. Every request acts as the user whose bearer
token it carries, so row-level security applies as for any other client.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	gateway, s, closeFn, err := stores(config)
	if err != nil {
		return err
	}
	defer closeFn()

	repo, err := repository.NewRepository(config.Database.Backend, s, logger)
	if err != nil {
		return err
	}

	service := usecase.NewService(repo, gateway.Auth(), logger)
	app := wire.Wiring(service, config, logger)

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("backend", config.Database.Backend),
		zap.Bool("debug", config.App.Debug),
	)

	return APIServer(cmd.Context(), app.Router, config.App.Port, logger)
}

// APIServer serves handler on port until ctx is done, then shuts down gracefully.
func APIServer(ctx context.Context, handler http.Handler, port string, log *zap.Logger) error {
	addr := fmt.Sprintf(":%s", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server running", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	return nil
}
