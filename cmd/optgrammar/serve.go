package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/reoring/optgrammar/catalog"
	"github.com/reoring/optgrammar/i18n"
	"github.com/reoring/optgrammar/internal/config"
	"github.com/reoring/optgrammar/internal/server"
	"github.com/reoring/optgrammar/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		cfgFile string
		watch   bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview server",
		Long: `Serve the catalog over HTTP:

  GET  /health
  GET  /operations
  GET  /operations/{op}/schema
  POST /operations/{op}/validate
  POST /operations/{op}/params[?format=query]
  GET  /metrics (when metrics are enabled)

Configuration comes from --config, falling back to OPTGRAMMAR_* variables.
--catalog, --lang and --blob-encoding override the file when given.
With --watch the catalog is reloaded whenever its file changes; a broken
edit is logged and the previous catalog stays in service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := config.LoadWithFallback(cfgFile, func(c *config.Config) {
				if flags.Changed("catalog") {
					c.Catalog = a.catalogPath
				}
				if flags.Changed("lang") {
					c.Language = a.lang
				}
				if flags.Changed("blob-encoding") {
					c.Blob.Encoding = a.blobEncoding
				}
				if flags.Changed("watch") {
					c.Watch = watch
				}
			})
			if err != nil {
				return err
			}
			i18n.SetLanguage(cfg.Language)

			logger := newLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

			blob, err := blobCodec(cfg.Blob.Encoding)
			if err != nil {
				return err
			}
			holder, err := catalog.NewHolder(cfg.Catalog, blob, logger)
			if err != nil {
				return err
			}
			defer holder.Stop()
			logger.Info().
				Str("catalog", cfg.Catalog).
				Int("operations", len(holder.Get().Operations())).
				Msg("catalog loaded")
			if cfg.Watch {
				if err := holder.WatchFile(); err != nil {
					return err
				}
			}

			opt := server.Options{
				Logger:       logger,
				MetricsPath:  cfg.Metrics.Path,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
			}
			if cfg.Metrics.Enabled {
				opt.Recorder = metrics.NewWithRegistry(prometheus.DefaultRegisterer, cfg.Metrics.Namespace)
			}
			srv := server.New(holder, opt)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx, cfg.Server.Addr(), srv.Router(), cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, logger)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "optgrammar.yaml", "config file path")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the catalog when its file changes")
	return cmd
}
