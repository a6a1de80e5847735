package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/brothertop/svgdiff/internal/api"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cf   compareFlags
		rf   runnerFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison API over HTTP",
		Long: `Serve exposes the comparison pipeline as a JSON API:

  POST /v1/compare      compare two inline SVG documents
  POST /v1/batch        compare pairs of files visible to the server
  GET  /v1/reports      list stored reports
  GET  /v1/reports/{id} fetch one report
  GET  /healthz         liveness probe

Comparison flags set server-side defaults; requests may override them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(&cf)
			if err != nil {
				return exitError(err)
			}
			runner, err := c.newRunner(cmd.Context(), &rf)
			if err != nil {
				return exitError(err)
			}
			store, err := c.newReportStore(cmd)
			if err != nil {
				return exitError(err)
			}
			defer store.Close(context.Background())

			server := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(runner, store, c.Logger, opts).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				c.Logger.Info("server stopped")
				return nil
			}
		},
	}

	cf.register(cmd)
	rf.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
