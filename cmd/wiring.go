package cmd

import (
	"context"
	"fmt"

	"sgsync/core/config"
	"sgsync/core/database"
	"sgsync/core/logger"
	"sgsync/core/redisclient"
	"sgsync/core/storage"
	"sgsync/feature/firewall"
	"sgsync/feature/membership"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// wiring holds the connections and backends shared by every command.
type wiring struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	redis    *redis.Client
	provider firewall.Provider
	store    membership.Store
}

// setup loads and validates configuration, then opens only the connections
// the configured backends need.
func setup(ctx context.Context) (*wiring, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.Cluster.InstanceID == "" {
		cfg.Cluster.InstanceID = membership.NewInstanceID()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := &wiring{cfg: cfg, logger: l.With(
		zap.String("app", cfg.Cluster.AppName),
		zap.String("region", cfg.Cluster.Region),
		zap.String("instance_id", cfg.Cluster.InstanceID),
	)}

	if cfg.NeedsDatabase() {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		rt.db = db
		rt.logger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	backends := membership.Backends{DB: rt.db, Bucket: cfg.Storage.Bucket}
	if cfg.NeedsRedis() {
		client, err := redisclient.Connect(cfg.Redis)
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.redis = client
		backends.Redis = client
		rt.logger.Info("Connected to Redis")
	}
	if cfg.NeedsStorage() {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		backends.Storage = client
	}

	rt.provider, err = firewall.New(ctx, cfg.Firewall, rt.db)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.store, err = membership.New(ctx, cfg.Membership, backends)
	if err != nil {
		rt.close()
		return nil, err
	}
	return rt, nil
}

// self is the registry record of the local node.
func (rt *wiring) self() membership.Member {
	c := rt.cfg.Cluster
	return membership.Member{
		InstanceID: c.InstanceID,
		AppID:      c.AppName,
		Region:     c.Region,
		HostName:   c.HostName,
		HostIP:     c.HostIP,
	}
}

func (rt *wiring) close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = rt.logger.Sync()
}
