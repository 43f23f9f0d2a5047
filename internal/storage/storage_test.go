package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evidenceapi/internal/config"
)

func TestContentKey(t *testing.T) {
	a := ContentKey("case-1", []byte("hello"), "Photo.JPG")
	b := ContentKey("case-1", []byte("hello"), "other.jpg")
	c := ContentKey("case-1", []byte("world"), "Photo.JPG")

	assert.True(t, strings.HasPrefix(a, "evidence/case-1/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.Equal(t, a, b, "same bytes and extension share a key")
	assert.NotEqual(t, a, c)
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	info, err := s.Put(ctx, "evidence/x/1.txt", strings.NewReader("hello world"), PutObjectOptions{
		Size:        11,
		ContentType: "text/plain",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), info.Size)
	assert.NotEmpty(t, info.ETag)

	t.Run("get", func(t *testing.T) {
		rc, got, err := s.Get(ctx, "evidence/x/1.txt")
		require.NoError(t, err)
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		assert.Equal(t, "hello world", string(b))
		assert.Equal(t, "text/plain", got.ContentType)
	})

	t.Run("read all", func(t *testing.T) {
		b, _, err := ReadAll(ctx, s, "evidence/x/1.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(b))
	})

	t.Run("presign", func(t *testing.T) {
		u, err := s.PresignGet(ctx, "evidence/x/1.txt", 0)
		require.NoError(t, err)
		assert.Equal(t, "memory:///evidence/x/1.txt", u)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.PresignGet(ctx, "nope", 0)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "evidence/x/1.txt"))
		_, _, err := s.Get(ctx, "evidence/x/1.txt")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestNew(t *testing.T) {
	s, err := New(config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = New(config.StorageConfig{Driver: "minio"})
	assert.ErrorContains(t, err, "minio endpoint is required")

	_, err = New(config.StorageConfig{Driver: "gcs"})
	assert.ErrorContains(t, err, "unsupported storage driver")
}
