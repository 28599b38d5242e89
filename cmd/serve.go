package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mmuldo/kaleidoscope/api"
)

var kinds []string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the color endpoints over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		p, cfg, e := newPipeline(kinds, logger)
		if e != nil {
			return e
		}

		server := &http.Server{
			Addr:    cfg.ServerAddress,
			Handler: api.NewHandler(p, logger.Named("http")),
		}

		errc := make(chan error, 1)
		go func() {
			logger.Info("starting HTTP server", "address", cfg.ServerAddress, "kinds", kinds)
			errc <- server.ListenAndServe()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case e := <-errc:
			if !errors.Is(e, http.ErrServerClosed) {
				return e
			}
			return nil
		case <-quit:
		}

		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringSliceVar(&kinds, "kinds", []string{"default"}, "owner kinds to serve")
}
