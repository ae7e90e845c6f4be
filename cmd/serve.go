package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"go-farmlink/logger"
)

func init() {
	RootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("serve")

		router, cleanup, err := newRouter(ctx, conf)
		if err != nil {
			return
		}
		defer cleanup()

		server := &http.Server{
			Addr:    conf.ListenAddress,
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			log.WithField("addr", conf.ListenAddress).Info("Listening")
			errCh <- server.ListenAndServe()
		}()

		select {
		case err = <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			return
		case <-ctx.Done():
		}

		log.Info("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), conf.StopTimeout)
		defer shutdownCancel()
		err = server.Shutdown(shutdownCtx)
		return
	},
}
