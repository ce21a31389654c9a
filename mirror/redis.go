// Package mirror keeps a secondary copy of registered handlers in Redis.
package mirror

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fulldump/handlerdb/registry"
)

// Redis stores every handler msgpack encoded under "<prefix>handler:<id>"
// and keeps the set of ids in "<prefix>handlers". Ids are case folded.
type Redis struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedis(client *redis.Client, prefix string, timeout time.Duration) *Redis {
	return &Redis{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
	}
}

// Dial connects to the Redis server at addr.
func Dial(ctx context.Context, addr, prefix string, timeout time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	r := NewRedis(client, prefix, timeout)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return r, nil
}

func (r *Redis) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Redis) key(id string) string {
	return r.prefix + "handler:" + registry.Fold(id)
}

func (r *Redis) index() string {
	return r.prefix + "handlers"
}

func (r *Redis) Register(ctx context.Context, h *registry.Handler) error {
	buf := &bytes.Buffer{}
	enc := msgpack.NewEncoder(buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encode handler '%s': %w", h.ID, err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.key(h.ID), buf.Bytes(), 0)
		p.SAdd(ctx, r.index(), registry.Fold(h.ID))
		return nil
	})
	return err
}

func (r *Redis) Unregister(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.key(id))
		p.SRem(ctx, r.index(), registry.Fold(id))
		return nil
	})
	return err
}

// Get returns the mirrored copy of handler id.
func (r *Redis) Get(ctx context.Context, id string) (*registry.Handler, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("mirror '%s': %w", id, registry.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	h := &registry.Handler{}
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(h); err != nil {
		return nil, fmt.Errorf("decode handler '%s': %w", id, err)
	}
	return h, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
