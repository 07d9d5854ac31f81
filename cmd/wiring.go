package cmd

import (
	"context"
	"errors"
	"fmt"

	"stock-sync/core/config"
	"stock-sync/core/database"
	"stock-sync/core/events"
	"stock-sync/core/lock"
	"stock-sync/core/logger"
	"stock-sync/core/metrics"
	"stock-sync/core/notion"
	"stock-sync/core/storage"
	"stock-sync/core/woocommerce"
	"stock-sync/feature/cycle"
	"stock-sync/feature/history"

	"go.uber.org/zap"
)

// runtime is everything a command needs, built from the configuration.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Registry
	catalog *woocommerce.Catalog
	records *notion.Records
	cycles  *cycle.Service
	history *history.Service
	closers []func() error
}

// bootstrap loads the configuration and builds the gateways and the cycle
// service. With backends set it also connects the optional history, lock
// and event backends that are enabled.
func bootstrap(ctx context.Context, backends bool, tweak func(*config.Config)) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if tweak != nil {
		tweak(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: l, metrics: metrics.NewRegistry()}

	wc, err := woocommerce.NewClient(cfg.WooCommerce, l, rt.metrics)
	if err != nil {
		return nil, err
	}
	rt.catalog = woocommerce.NewCatalog(wc)

	nc, err := notion.NewClient(cfg.Notion, l, rt.metrics)
	if err != nil {
		return nil, err
	}
	rt.records = notion.NewRecords(nc)

	deps := cycle.Deps{
		Catalog: rt.catalog,
		Records: rt.records,
		Metrics: rt.metrics,
		Logger:  l,
	}

	if backends {
		if err := rt.connectBackends(ctx, &deps); err != nil {
			rt.Close()
			return nil, err
		}
	}

	rt.cycles = cycle.NewService(cfg.Sync, deps)
	return rt, nil
}

func (rt *runtime) connectBackends(ctx context.Context, deps *cycle.Deps) error {
	cfg, l := rt.cfg, rt.logger

	var repo *history.Repository
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repo = history.NewRepository(db)
		if err := repo.Migrate(); err != nil {
			return err
		}
		if missing, err := repo.Check(); err != nil {
			l.Warn("Failed to inspect history table", zap.Error(err))
		} else if len(missing) > 0 {
			l.Warn("History table is missing columns", zap.Strings("missing", missing))
		}
		l.Info("Cycle history enabled", zap.String("driver", cfg.Database.Driver))
	}

	var archive *history.Archive
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return err
		}
		archive = history.NewArchive(client, cfg.Storage, l)
		l.Info("Report archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	if repo != nil || archive != nil {
		rt.history = history.NewService(repo, archive, l)
		deps.Recorder = rt.history
	}

	if cfg.Redis.Enabled {
		client, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		rt.closers = append(rt.closers, client.Close)
		deps.Locker = lock.NewRedisLocker(client, cfg.Redis, l)
		l.Info("Distributed cycle lock enabled", zap.String("key", cfg.Redis.Key))
	}

	if cfg.Kafka.Enabled {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka, l)
		if err != nil {
			return fmt.Errorf("failed to create event publisher: %w", err)
		}
		rt.closers = append(rt.closers, publisher.Close)
		deps.Publisher = publisher
		l.Info("Cycle events enabled", zap.String("topic", cfg.Kafka.Topic))
	}
	return nil
}

// Close releases the backends and flushes the logger.
func (rt *runtime) Close() {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	if err := errors.Join(errs...); err != nil {
		rt.logger.Warn("Failed to close backends", zap.Error(err))
	}
	_ = rt.logger.Sync()
}
