// Command gqlgate runs one of the GraphQL gateways, or the fake upstream
// REST service used to develop against the proxy gateway.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gqlgate/gqlgate/config"
	"github.com/gqlgate/gqlgate/log"
	"github.com/gqlgate/gqlgate/trace"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gqlgate",
		Short: "GraphQL gateways over a document store or a REST service",
		Long: `
gqlgate serves one of two GraphQL APIs:

  bookstore  books and authors kept in MongoDB (or in memory)
  userproxy  users and companies forwarded to an upstream REST service

Settings come from GQLGATE_* environment variables and are overridden by
flags.`,
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.String("listen", "", "Address to listen on (default from GQLGATE_LISTEN or :4000)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")
	pf.Bool("tracing", false, "Report traces to Jaeger, configured by JAEGER_* variables")
	pf.Float64("rate-limit", 0, "Operations per second admitted across all clients; 0 disables limiting")

	root.AddCommand(newBookstoreCmd(), newUserproxyCmd(), newFakeAPICmd())
	return root
}

// loadConfig reads the environment and applies any flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	fs := cmd.Flags()
	overrideString(fs, "listen", &cfg.Listen)
	overrideString(fs, "log-level", &cfg.LogLevel)
	overrideString(fs, "log-format", &cfg.LogFormat)
	overrideString(fs, "store", &cfg.Store)
	overrideString(fs, "mongodb-url", &cfg.MongoURL)
	overrideString(fs, "database", &cfg.Database)
	overrideString(fs, "upstream", &cfg.UpstreamURL)
	if f := fs.Lookup("tracing"); f != nil && f.Changed {
		cfg.Tracing, _ = fs.GetBool("tracing")
	}
	if f := fs.Lookup("rate-limit"); f != nil && f.Changed {
		cfg.RateLimit, _ = fs.GetFloat64("rate-limit")
	}
	if f := fs.Lookup("upstream-timeout"); f != nil && f.Changed {
		cfg.UpstreamTimeout, _ = fs.GetDuration("upstream-timeout")
	}
	return cfg, cfg.Validate()
}

func overrideString(fs *pflag.FlagSet, name string, dst *string) {
	if f := fs.Lookup(name); f != nil && f.Changed {
		*dst = f.Value.String()
	}
}

// setup builds the logger and, when enabled, the Jaeger tracer. The
// returned closer flushes traces.
func setup(cfg *config.Config, service string) (*logrus.Logger, io.Closer, error) {
	logger := log.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if !cfg.Tracing {
		return logger, io.NopCloser(nil), nil
	}
	closer, err := trace.InitJaeger(service, logger)
	if err != nil {
		return nil, nil, err
	}
	return logger, closer, nil
}
