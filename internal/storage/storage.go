// Package storage holds the raw bytes of uploaded evidence behind a content-addressable key.
// Case and evidence metadata never live here; only the bytes the analysis client re-reads.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the content store for raw evidence bytes.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// ContentKey derives the content-addressable key for data stored under prefix.
// The lowercased file extension is kept.
func ContentKey(prefix string, data []byte, filename string) string {
	sum := sha256.Sum256(data)
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("evidence", prefix, hex.EncodeToString(sum[:])+ext)
}

// ReadAll fetches the whole object stored under key.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, ObjectInfo, error) {
	rc, info, err := s.Get(ctx, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	return b, info, nil
}
