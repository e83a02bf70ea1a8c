package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

// pruneHashScript removes hash fields that are still stale. ARGV holds
// (field, mode, value) triples; mode "g" drops the field when its guard key
// in KEYS is gone, mode "v" when the field still equals value.
var pruneHashScript = redis.NewScript(`
local removed = 0
local n = 1
for i = 1, #ARGV, 3 do
	n = n + 1
	local field, mode, value = ARGV[i], ARGV[i + 1], ARGV[i + 2]
	local drop = false
	if mode == "g" then
		drop = redis.call("EXISTS", KEYS[n]) == 0
	else
		drop = redis.call("HGET", KEYS[1], field) == value
	end
	if drop then
		removed = removed + redis.call("HDEL", KEYS[1], field)
	end
end
return removed
`)

type ephemeralStore struct {
	client redis.UniversalClient
	prefix string
}

// NewEphemeralStore returns a Redis backed store. Every key is namespaced
// with prefix so several deployments can share one Redis database.
func NewEphemeralStore(client redis.UniversalClient, prefix string) repository.EphemeralStore {
	return &ephemeralStore{client: client, prefix: prefix}
}

func (s *ephemeralStore) key(k string) string {
	return s.prefix + k
}

func (s *ephemeralStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}
	return b, nil
}

func (s *ephemeralStore) Exists(ctx context.Context, keys ...string) ([]bool, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.IntCmd, len(keys))
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = p.Exists(ctx, s.key(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]bool, len(keys))
	for i, cmd := range cmds {
		out[i] = cmd.Val() > 0
	}
	return out, nil
}

func (s *ephemeralStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	raw, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(raw))
	for f, v := range raw {
		out[f] = []byte(v)
	}
	return out, nil
}

func (s *ephemeralStore) Write(ctx context.Context, fn func(w repository.EphemeralWriter)) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		fn(&txWriter{ctx: ctx, p: p, store: s})
		return nil
	})
	return err
}

func (s *ephemeralStore) PruneHash(ctx context.Context, key string, prunes []repository.HashPrune) error {
	if len(prunes) == 0 {
		return nil
	}

	keys := make([]string, 0, len(prunes)+1)
	args := make([]interface{}, 0, len(prunes)*3)
	keys = append(keys, s.key(key))
	for _, p := range prunes {
		if p.GuardKey != "" {
			keys = append(keys, s.key(p.GuardKey))
			args = append(args, p.Field, "g", "")
			continue
		}
		keys = append(keys, s.key(key))
		args = append(args, p.Field, "v", p.Value)
	}

	err := pruneHashScript.Run(ctx, s.client, keys, args...).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// txWriter queues commands on a MULTI/EXEC pipeline.
type txWriter struct {
	ctx   context.Context
	p     redis.Pipeliner
	store *ephemeralStore
}

func (w *txWriter) Set(key string, value []byte, ttl time.Duration) {
	w.p.Set(w.ctx, w.store.key(key), value, ttl)
}

func (w *txWriter) Delete(keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = w.store.key(k)
	}
	w.p.Del(w.ctx, full...)
}

func (w *txWriter) HSet(key, field string, value []byte) {
	w.p.HSet(w.ctx, w.store.key(key), field, value)
}

func (w *txWriter) HDel(key string, fields ...string) {
	if len(fields) == 0 {
		return
	}
	w.p.HDel(w.ctx, w.store.key(key), fields...)
}

func (w *txWriter) Expire(key string, ttl time.Duration) {
	w.p.Expire(w.ctx, w.store.key(key), ttl)
}
