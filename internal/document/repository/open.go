package repository

import (
	"context"

	"github.com/gogotex/collab-editor/internal/config"
	"github.com/gogotex/collab-editor/internal/database"
	"github.com/gogotex/collab-editor/internal/storage"
	"github.com/gogotex/collab-editor/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Open builds the snapshot store selected by cfg.Snapshot.Backend and returns
// it with the name of the backend actually in use and a cleanup func. A
// backend that cannot be reached falls back to the file store.
func Open(ctx context.Context, cfg *config.Config, rdb *redis.Client) (Store, string, func()) {
	noop := func() {}
	fallback := func(reason string, err error) (Store, string, func()) {
		logger.Warnf("%s snapshot backend unavailable (%s: %v); using file %s", cfg.Snapshot.Backend, reason, err, cfg.Snapshot.Path)
		return NewFileStore(cfg.Snapshot.Path), "file", noop
	}

	switch cfg.Snapshot.Backend {
	case "memory":
		return NewMemoryStore(), "memory", noop
	case "redis":
		if rdb == nil {
			return fallback("redis", errMissing("REDIS_HOST"))
		}
		return NewRedisStore(rdb, cfg.Snapshot.RedisKey), "redis", noop
	case "mongo":
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			return fallback("mongo", err)
		}
		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		return NewMongoStore(col), "mongo", func() { _ = client.Disconnect(context.Background()) }
	case "minio":
		objs, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return fallback("minio", err)
		}
		return NewObjectStore(objs, cfg.Snapshot.ObjectKey), "minio", noop
	}
	return NewFileStore(cfg.Snapshot.Path), "file", noop
}

type errMissing string

func (e errMissing) Error() string { return string(e) + " is not set" }
