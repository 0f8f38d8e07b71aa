package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/sals/internal/kv"
	"github.com/abhisek/sals/internal/quizsvc"
	"github.com/abhisek/sals/internal/store"
)

// deps bundles what the quiz commands need.
type deps struct {
	store   *store.Store
	kv      kv.Store
	service quizsvc.Service
	closers []func() error
}

// Close releases the KV backend and the database.
func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

// openDeps opens the store, selects the KV backend and builds the logged
// quiz service client.
func openDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	d := &deps{store: st, closers: []func() error{st.Close}}

	kind, _ := cmd.Flags().GetString("kv")
	if kind == "" {
		kind = os.Getenv("SALS_KV")
	}
	d.kv, err = openKV(ctx, kind, st, d)
	if err != nil {
		d.Close()
		return nil, err
	}

	cfg := quizsvc.ConfigFromEnv()
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.BaseURL = server
	}
	if err := cfg.Validate(); err != nil {
		d.Close()
		return nil, err
	}
	d.service = quizsvc.WithLogging(quizsvc.NewHTTPClient(cfg, nil), st.EventRepo())

	return d, nil
}

func openKV(ctx context.Context, kind string, st *store.Store, d *deps) (kv.Store, error) {
	switch kind {
	case "", "sqlite":
		return st.KV(), nil
	case "memory":
		return kv.NewMemory(), nil
	case "redis":
		cfg, err := redisConfigFromEnv()
		if err != nil {
			return nil, err
		}
		r, err := kv.NewRedis(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		d.closers = append(d.closers, r.Close)
		return r, nil
	default:
		return nil, fmt.Errorf("unknown kv backend %q (want sqlite, redis or memory)", kind)
	}
}

// redisConfigFromEnv reads SALS_REDIS_ADDR, SALS_REDIS_PASSWORD,
// SALS_REDIS_DB and SALS_REDIS_TTL.
func redisConfigFromEnv() (kv.RedisConfig, error) {
	cfg := kv.RedisConfig{
		Addr:     os.Getenv("SALS_REDIS_ADDR"),
		Password: os.Getenv("SALS_REDIS_PASSWORD"),
		Prefix:   kv.DefaultRedisPrefix,
	}
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if v := os.Getenv("SALS_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SALS_REDIS_DB %q: %w", v, err)
		}
		cfg.DB = db
	}
	if v := os.Getenv("SALS_REDIS_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SALS_REDIS_TTL %q: %w", v, err)
		}
		cfg.TTL = ttl
	}
	return cfg, nil
}
