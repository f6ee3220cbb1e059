package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/gqlgate/gqlgate/internal/server"
	"github.com/gqlgate/gqlgate/metrics"
	"github.com/gqlgate/gqlgate/restclient"
	"github.com/gqlgate/gqlgate/userproxy"
)

func newUserproxyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "userproxy",
		Short: "Serve the users and companies API over an upstream REST service",
		Args:  cobra.NoArgs,
		RunE:  runUserproxy,
	}
	f := cmd.Flags()
	f.String("upstream", "", "Base URL of the REST service (default from GQLGATE_UPSTREAM_URL)")
	f.Duration("upstream-timeout", 0, "Bound on each upstream request; 0 means none")
	return cmd
}

func runUserproxy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.ServiceName == "gqlgate" {
		cfg.ServiceName = "gqlgate-userproxy"
	}
	logger, closer, err := setup(cfg, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer closer.Close()

	m := metrics.New("gqlgate")
	client, err := restclient.New(cfg.UpstreamURL,
		restclient.WithHTTPClient(&http.Client{Transport: http.DefaultTransport}),
		restclient.WithTimeout(cfg.UpstreamTimeout),
		restclient.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	logger.WithField("upstream", cfg.UpstreamURL).Info("proxying to upstream")

	h, err := server.NewHandler(server.Options{
		Config:   cfg,
		Logger:   logger,
		Metrics:  m,
		Schema:   userproxy.Schema,
		Resolver: userproxy.NewResolver(client),
		Title:    "Users",
	})
	if err != nil {
		return err
	}
	return server.Run(cmd.Context(), cfg.Listen, h, cfg.ShutdownTimeout, logger)
}
