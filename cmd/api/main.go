package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"rental/internal/booking"
	"rental/internal/httpapi"
	"rental/internal/insurance"
	"rental/internal/property"
	"rental/pkg/config"
	"rental/pkg/db"
	"rental/pkg/logging"
)

func main() {
	cfg := config.Load()

	logger, closer := logging.New(cfg)
	defer closer.Close()
	log := logrus.NewEntry(logger).WithField("env", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := httpapi.Dependencies{Cfg: cfg, Log: log}

	switch cfg.Store {
	case "memory":
		deps.Bookings = booking.NewMemoryStore()
		deps.Properties = property.NewMemory(sampleProperties()...)
		deps.Plans = insurance.Checked{Source: insurance.DefaultCatalog(), Strict: cfg.StrictInsuranceBands, Log: log}
		log.Warn("using in-memory store; bookings are lost on restart")
	default:
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			log.WithError(err).Fatal("db open")
		}
		defer conn.Close()

		if cfg.MigrationsPath != "" {
			if err := db.Migrate(cfg.MigrationsPath, cfg, false); err != nil {
				log.WithError(err).Fatal("migrate")
			}
		}

		var rdb *redis.Client
		if cfg.Redis.Addr != "" {
			rdb = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.WithError(err).Warn("redis unreachable; catalog served from postgres")
			}
		}

		deps.Bookings = booking.NewRepository(conn)
		deps.Properties = property.NewRepository(conn)
		deps.Plans = insurance.Checked{
			Source: insurance.Cached{
				Source: insurance.NewRepository(conn),
				Redis:  rdb,
				TTL:    cfg.Redis.TTL,
				Log:    log,
			},
			Strict: cfg.StrictInsuranceBands,
			Log:    log,
		}
	}

	// Fail fast on a broken catalog instead of on the first checkout.
	if _, err := deps.Plans.List(ctx); err != nil {
		log.WithError(err).Fatal("insurance catalog")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http serve")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
}

// sampleProperties matches the seed migration.
func sampleProperties() []property.Property {
	return []property.Property{
		{ID: "prop-lisbon-loft", HostID: "host-ana", Title: "Sunny loft in Alfama", Location: "Lisbon, Portugal", PricePerNight: decimal.RequireFromString("100.00")},
		{ID: "prop-alps-cabin", HostID: "host-ben", Title: "Alpine cabin with sauna", Location: "Chamonix, France", PricePerNight: decimal.RequireFromString("250.00")},
		{ID: "prop-kyoto-house", HostID: "host-chie", Title: "Traditional machiya", Location: "Kyoto, Japan", PricePerNight: decimal.RequireFromString("42.50")},
	}
}
