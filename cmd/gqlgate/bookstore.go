package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/gqlgate/gqlgate/bookstore"
	"github.com/gqlgate/gqlgate/bookstore/memstore"
	"github.com/gqlgate/gqlgate/bookstore/mongostore"
	"github.com/gqlgate/gqlgate/config"
	"github.com/gqlgate/gqlgate/internal/server"
	"github.com/gqlgate/gqlgate/metrics"
)

func newBookstoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookstore",
		Short: "Serve the books and authors API backed by a document store",
		Args:  cobra.NoArgs,
		RunE:  runBookstore,
	}
	f := cmd.Flags()
	f.String("store", "", "Document store: mongo or memory")
	f.String("mongodb-url", "", "MongoDB connection string (default from MONGODB_URL)")
	f.String("database", "", "MongoDB database name")
	return cmd
}

func runBookstore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.ServiceName == "gqlgate" {
		cfg.ServiceName = "gqlgate-bookstore"
	}
	logger, closer, err := setup(cfg, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer closer.Close()

	var (
		store  bookstore.Store
		health server.HealthFunc
	)
	switch cfg.Store {
	case config.StoreMemory:
		store = memstore.New()
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		client, err := mongostore.Connect(connectCtx, cfg.MongoURL)
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.WithError(err).Warn("disconnecting from mongodb")
			}
		}()
		ms := mongostore.New(client, cfg.Database)
		store, health = ms, ms.Ping
		logger.WithField("database", cfg.Database).Info("connected to mongodb")
	}

	h, err := server.NewHandler(server.Options{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.New("gqlgate"),
		Schema:   bookstore.Schema,
		Resolver: bookstore.NewResolver(store),
		Health:   health,
		Title:    "Bookstore",
	})
	if err != nil {
		return err
	}
	return server.Run(ctx, cfg.Listen, h, cfg.ShutdownTimeout, logger)
}
