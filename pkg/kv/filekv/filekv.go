package filekv

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/jakechorley/runroster/pkg/kv"
)

const (
	dirPerms  = 0700
	filePerms = 0600
)

// Store keeps one file per key in a directory. Writes go to a temp file that
// is synced and renamed over the target, so a crash leaves either the old or
// the new value.
type Store struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Option configures a Store
type Option func(*Store) error

// WithCompression zstd-compresses values on disk
func WithCompression() Option {
	return func(s *Store) error {
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			encoder.Close()
			return fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		s.encoder = encoder
		s.decoder = decoder
		return nil
	}
}

// New opens (creating if needed) a file store rooted at dir
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{dir: dir}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get reads the value at key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}

	if s.decoder == nil {
		return data, nil
	}

	decompressed, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %q: %w", key, err)
	}
	return decompressed, nil
}

// Set atomically replaces the value at key
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	data := value
	if s.encoder != nil {
		data = s.encoder.EncodeAll(value, make([]byte, 0, len(value)/2))
	}

	target := s.path(key)
	tmpFile := target + ".tmp"

	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerms)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to sync %q: %w", key, err)
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to close %q: %w", key, err)
	}

	if err = os.Rename(tmpFile, target); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to replace %q: %w", key, err)
	}
	return nil
}

// Close releases the compression codecs
func (s *Store) Close() error {
	if s.decoder != nil {
		s.decoder.Close()
	}
	if s.encoder != nil {
		return s.encoder.Close()
	}
	return nil
}

func (s *Store) path(key string) string {
	ext := ".json"
	if s.encoder != nil {
		ext = ".json.zst"
	}
	return filepath.Join(s.dir, url.PathEscape(key)+ext)
}
