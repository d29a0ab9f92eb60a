package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"

	"rental/internal/insurance"
	"rental/pkg/config"
	"rental/pkg/db"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg := config.Load()
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}

	// Uses DIRECT_URL when set.
	if err := db.Migrate(cfg.MigrationsPath, cfg, *down); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}

	// Make sure the runtime connection (DATABASE_URL) also opens. DSNs are never printed.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime db open failed: %v\n", err)
		os.Exit(1)
	}
	pool.Close()

	// Migrations may reseed insurance_plans; drop the cached catalog so the API reloads it.
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := (insurance.Cached{Redis: rdb}).Invalidate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "catalog cache not invalidated: %v\n", err)
		}
		_ = rdb.Close()
	}

	if *down {
		fmt.Println("rolled back one migration")
		return
	}
	fmt.Println("migrations applied")
}
