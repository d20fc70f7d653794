package storage

import (
	"context"
	"testing"

	"github.com/gogotex/collab-editor/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewMinIOStorage_RequiresEndpoint(t *testing.T) {
	s, err := NewMinIOStorage(context.Background(), config.MinIOConfig{Bucket: "collab"})
	require.Error(t, err)
	require.Nil(t, s)
}
