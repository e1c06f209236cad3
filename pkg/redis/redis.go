package redis

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var NilError = goredis.Nil

type Options = goredis.UniversalOptions

// Adapter is the subset of redis the engine depends on: plain KV plus
// SetNX for short-lived locks.
type Adapter interface {
	Set(key string, value []byte, ttl time.Duration) error
	SetNX(key string, value []byte, ttl time.Duration) (bool, error)
	Get(key string) ([]byte, error)
	Del(key string) error
	Exist(key string) (int64, error)
	Client() goredis.UniversalClient
}

type redisAdapter struct {
	prefix string
	conn   goredis.UniversalClient
	name   string
}

var (
	instancesMu sync.RWMutex
	instances   map[string]Adapter
)

// NewAdapter connects (or returns the already-connected adapter registered
// under connName). All keys are transparently prefixed with keysPrefix.
func NewAdapter(connName string, keysPrefix string, opts *goredis.UniversalOptions) (Adapter, error) {
	instancesMu.RLock()
	if a, ok := instances[connName]; ok {
		instancesMu.RUnlock()
		return a, nil
	}
	instancesMu.RUnlock()

	c := goredis.NewUniversalClient(opts)
	if cmd := c.Ping(context.Background()); cmd.Err() != nil {
		return nil, cmd.Err()
	}

	adapter := &redisAdapter{conn: c, prefix: keysPrefix, name: connName}

	instancesMu.Lock()
	defer instancesMu.Unlock()
	if instances == nil {
		instances = make(map[string]Adapter)
	}
	if a, ok := instances[connName]; ok {
		return a, nil
	}
	instances[connName] = adapter
	return adapter, nil
}

func Get(connName ...string) Adapter {
	instancesMu.RLock()
	defer instancesMu.RUnlock()

	name := "default"
	if len(connName) > 0 && connName[0] != "" {
		name = connName[0]
	}
	if a, ok := instances[name]; ok {
		return a
	}
	return instances["default"]
}

func (r *redisAdapter) Set(key string, value []byte, ttl time.Duration) error {
	return r.conn.Set(context.Background(), r.prefix+key, value, ttl).Err()
}

func (r *redisAdapter) SetNX(key string, value []byte, ttl time.Duration) (bool, error) {
	cmd := r.conn.SetNX(context.Background(), r.prefix+key, value, ttl)
	if err := cmd.Err(); err != nil {
		return false, err
	}
	return cmd.Val(), nil
}

func (r *redisAdapter) Get(key string) ([]byte, error) {
	cmd := r.conn.Get(context.Background(), r.prefix+key)
	if err := cmd.Err(); err != nil {
		return nil, err
	}
	return cmd.Bytes()
}

func (r *redisAdapter) Del(key string) error {
	return r.conn.Del(context.Background(), r.prefix+key).Err()
}

func (r *redisAdapter) Exist(key string) (int64, error) {
	cmd := r.conn.Exists(context.Background(), r.prefix+key)
	if err := cmd.Err(); err != nil {
		return 0, err
	}
	return cmd.Val(), nil
}

func (r *redisAdapter) Client() goredis.UniversalClient {
	return r.conn
}
