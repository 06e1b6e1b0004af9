package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"beanbags/internal/beanbag"
	"beanbags/internal/config"
	"beanbags/internal/domain"
	"beanbags/internal/infrastructure/logger"
	"beanbags/internal/infrastructure/mysql"
	"beanbags/internal/infrastructure/redis"
	"beanbags/internal/metrics"
	"beanbags/internal/server"
	"beanbags/internal/snapshot"
	"beanbags/internal/store"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots, closeSnapshots, err := newSnapshotter(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating snapshot backend", zap.String("backend", cfg.Snapshot.Backend), zap.Error(err))
	}
	defer closeSnapshots()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	st := store.New(snapshots, domain.NewSequence(), zapLogger)
	beanBagCtrl := beanbag.NewModule(st, m, zapLogger)

	router := server.NewRouter(beanBagCtrl, m, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func newSnapshotter(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (store.Snapshotter, func(), error) {
	switch cfg.Snapshot.Backend {
	case config.BackendMySQL:
		db, err := mysql.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := mysql.NewSnapshotRepository(db, zapLogger, cfg.Database.MaxRetryAttempts)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		zapLogger.Info("database connected")
		return repo, func() { db.Close() }, nil

	case config.BackendRedis:
		client := redis.NewClient(cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		return redis.NewSnapshotRepository(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL), func() { client.Close() }, nil

	default:
		zapLogger.Info("using file snapshots", zap.String("dir", cfg.Snapshot.Dir))
		return snapshot.NewFileStore(cfg.Snapshot.Dir), func() {}, nil
	}
}
