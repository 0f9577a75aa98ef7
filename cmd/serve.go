package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldlog/geoverify/internal/registry"
	"github.com/fieldlog/geoverify/internal/server"
)

var (
	servePort  int
	serveSites string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload server",
	Long: `Serves the verification pipeline over HTTP. POST /verify accepts a
multipart upload with an "export" file (and an optional "sites" file that
overrides the configured registry) and returns the report workbook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sitesPath := serveSites
		if sitesPath == "" {
			sitesPath = cfg.Verify.SitesPath
		}

		// Without a configured registry every request must upload one.
		var sites *registry.Registry
		if sitesPath != "" {
			var err error
			sites, err = registry.Load(sitesPath)
			if err != nil {
				return eris.Wrap(err, "serve: load sites")
			}
			zap.L().Info("site registry loaded", zap.String("path", sitesPath), zap.Int("sites", sites.Len()))
		} else {
			zap.L().Warn("no site registry configured; requests must upload a sites file")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.New(cfg, sites).Router(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve: listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveSites, "sites", "", "site coordinates file (default from config)")
	rootCmd.AddCommand(serveCmd)
}
