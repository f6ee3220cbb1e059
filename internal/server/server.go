// Package server assembles the HTTP surface shared by both gateways.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/graph-gophers/graphql-go"
	"github.com/justinas/alice"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/gqlgate/gqlgate/config"
	"github.com/gqlgate/gqlgate/log"
	"github.com/gqlgate/gqlgate/metrics"
	"github.com/gqlgate/gqlgate/playground"
	"github.com/gqlgate/gqlgate/ratelimit"
	"github.com/gqlgate/gqlgate/ratelimit/noop"
	"github.com/gqlgate/gqlgate/relay"
	"github.com/gqlgate/gqlgate/trace"
)

// HealthFunc reports whether the gateway's backing collaborator is usable.
type HealthFunc func(ctx context.Context) error

type Options struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Metrics *metrics.Metrics

	// Schema and Resolver define the served GraphQL API.
	Schema   string
	Resolver interface{}

	// Health, if set, backs /healthz.
	Health HealthFunc
	Title  string
}

// ParseSchema parses sdl against resolver with the engine options every
// gateway uses: bounded parallelism, panic logging and tracing.
func ParseSchema(sdl string, resolver interface{}, cfg *config.Config, logger logrus.FieldLogger, m *metrics.Metrics) (*graphql.Schema, error) {
	s, err := graphql.ParseSchema(sdl, resolver,
		graphql.MaxParallelism(cfg.MaxParallelism),
		graphql.Logger(&log.PanicLogger{Logger: logger}),
		graphql.Tracer(trace.Tracer{Metrics: m}),
	)
	return s, errors.Wrap(err, "parsing schema")
}

// NewHandler returns the complete HTTP handler: the GraphQL endpoint at
// Config.Path, /healthz, /metrics and, when enabled, the playground at /.
func NewHandler(o Options) (http.Handler, error) {
	schema, err := ParseSchema(o.Schema, o.Resolver, o.Config, o.Logger, o.Metrics)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	gql := &relay.Handler{Schema: schema, Logger: o.Logger, Limiter: limiter(o.Config)}
	r.Handle(o.Config.Path, alice.New(trace.Middleware).Then(gql))
	r.Handle("/healthz", healthHandler(o.Health)).Methods(http.MethodGet)
	r.Handle("/metrics", o.Metrics.Handler()).Methods(http.MethodGet)
	if o.Config.Playground {
		title := o.Title
		if title == "" {
			title = o.Config.ServiceName
		}
		r.Handle("/", playground.Handler(o.Config.Path, playground.WithTitle(title))).Methods(http.MethodGet)
	}

	return alice.New(log.AccessLog(o.Logger), cors.AllowAll().Handler).Then(r), nil
}

func limiter(cfg *config.Config) ratelimit.RateLimiter {
	if cfg.RateLimit <= 0 {
		return &noop.RateLimiter{}
	}
	return ratelimit.New(cfg.RateLimit, cfg.RateBurst)
}

func healthHandler(check HealthFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, map[string]string{"status": "ok"}
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// Run serves h on addr until ctx is done, then shuts down gracefully,
// waiting at most shutdownTimeout for in-flight requests.
func Run(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration, logger logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("server is listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serving http")
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serving http")
	}
	return nil
}
