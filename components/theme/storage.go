package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStorageReset reports a write that was persisted after the previous,
// unreadable contents were discarded.
var ErrStorageReset = errors.New("theme: storage reset")

// Storage is the durable key-value store holding serialized preferences.
// Get reports found=false for missing keys without an error. Set may return
// an error wrapping ErrStorageReset when the value was stored but other
// entries were lost.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryStorage keeps entries for the lifetime of the process.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// FileStorage persists entries as a JSON object in a single file. Writes go
// through a temp file and rename so readers never observe a partial file.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage stores entries at path. The parent directory is created on
// first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the backing file location.
func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		return nil, false, err
	}
	value, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (s *FileStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, readErr := s.read()
	if readErr != nil {
		entries = map[string]string{}
	}
	entries[key] = string(value)
	if err := s.write(entries); err != nil {
		return err
	}
	if readErr != nil {
		return fmt.Errorf("%w: %w", ErrStorageReset, readErr)
	}
	return nil
}

func (s *FileStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("theme: read storage %s: %w", s.path, err)
	}
	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("theme: decode storage %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *FileStorage) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("theme: encode storage: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("theme: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*")
	if err != nil {
		return fmt.Errorf("theme: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("theme: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("theme: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("theme: replace storage %s: %w", s.path, err)
	}
	return nil
}

// RedisStorage keeps entries in Redis so several processes share one value.
type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOption customizes a RedisStorage.
type RedisOption func(*RedisStorage)

// WithRedisPrefix namespaces keys, e.g. "hub:".
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStorage) { s.prefix = prefix }
}

// WithRedisTTL expires entries after ttl. Zero keeps them forever.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStorage) { s.ttl = ttl }
}

// NewRedisStorage wraps an existing client.
func NewRedisStorage(client *redis.Client, opts ...RedisOption) *RedisStorage {
	s := &RedisStorage{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DialRedis connects and pings the server before returning the client.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("theme: redis ping: %w", err)
	}
	return client, nil
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("theme: redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("theme: redis set %s: %w", key, err)
	}
	return nil
}
