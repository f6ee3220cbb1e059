package main

import (
	"os"

	"github.com/justinas/alice"
	"github.com/spf13/cobra"

	"github.com/gqlgate/gqlgate/config"
	"github.com/gqlgate/gqlgate/internal/server"
	"github.com/gqlgate/gqlgate/log"
	"github.com/gqlgate/gqlgate/userproxy/fakeapi"
)

const fakeAPIListen = ":3000"

func newFakeAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fakeapi",
		Short: "Serve an in-memory users/companies REST API for the proxy gateway",
		Args:  cobra.NoArgs,
		RunE:  runFakeAPI,
	}
	cmd.Flags().Bool("empty", false, "Start without sample data")
	return cmd
}

// fakeAPIAddr prefers --listen, then GQLGATE_LISTEN, then :3000, which
// keeps the gateway's own :4000 default free.
func fakeAPIAddr(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("listen") {
		return cfg.Listen
	}
	if _, ok := os.LookupEnv(config.EnvListen); ok {
		return cfg.Listen
	}
	return fakeAPIListen
}

func runFakeAPI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Listen = fakeAPIAddr(cmd, cfg)
	logger := log.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	api := fakeapi.NewSeeded()
	if empty, _ := cmd.Flags().GetBool("empty"); empty {
		api = fakeapi.New()
	}
	h := alice.New(log.AccessLog(logger)).Then(api)
	return server.Run(cmd.Context(), cfg.Listen, h, cfg.ShutdownTimeout, logger)
}
