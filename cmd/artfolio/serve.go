package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"artfolio/internal/database"
	"artfolio/internal/pkg/cache"
	"artfolio/internal/server"
	"artfolio/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect, migrate and serve HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		rdb, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		if rdb != nil {
			defer rdb.Close()
			logrus.WithField("addr", cfg.Redis.Addr).Info("redis connected")
		}

		objects, err := storage.New(cfg.Storage)
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		if err := objects.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("prepare bucket %s: %w", objects.Bucket(), err)
		}

		srv, err := server.New(cfg, server.Deps{DB: db, Redis: rdb, Storage: objects})
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}
