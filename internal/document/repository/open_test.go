package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gogotex/collab-editor/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	return &config.Config{
		Snapshot: config.SnapshotConfig{
			Backend:   backend,
			Path:      filepath.Join(t.TempDir(), "documents.json"),
			RedisKey:  "collab:documents",
			ObjectKey: "documents.json",
		},
		MongoDB: config.MongoDBConfig{Timeout: 50 * time.Millisecond},
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, name, done := Open(ctx, testConfig(t, "file"), nil)
	defer done()
	require.Equal(t, "file", name)
	require.IsType(t, &FileStore{}, s)

	s, name, _ = Open(ctx, testConfig(t, "memory"), nil)
	require.Equal(t, "memory", name)
	require.IsType(t, &MemoryStore{}, s)

	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	s, name, _ = Open(ctx, testConfig(t, "redis"), redis.NewClient(&redis.Options{Addr: m.Addr()}))
	require.Equal(t, "redis", name)
	require.IsType(t, &RedisStore{}, s)
	require.Equal(t, name, BackendName(s))
}

func TestOpen_FallsBackToFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, backend := range []string{"redis", "mongo", "minio"} {
		s, name, _ := Open(ctx, testConfig(t, backend), nil)
		require.Equal(t, "file", name, backend)
		require.IsType(t, &FileStore{}, s, backend)
		require.Equal(t, "file", BackendName(s))
	}
}
