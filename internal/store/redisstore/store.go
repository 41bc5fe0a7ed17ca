package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store tracks live presence in Redis so sibling processes can answer "is
// user N online" without talking to the in-process hub.
type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func presenceKey(userID uint64) string {
	return fmt.Sprintf("presence:user:%d", userID)
}

// SetPresent marks the user online under the given session identity. The TTL
// is refreshed on every heartbeat; a crashed process simply lets it lapse.
func (s *Store) SetPresent(ctx context.Context, userID uint64, sessionID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, presenceKey(userID), sessionID, ttl).Err()
}

// ClearPresent removes the presence key, but only when it still belongs to
// the given session; a newer connection's key survives a stale disconnect.
func (s *Store) ClearPresent(ctx context.Context, userID uint64, sessionID string) error {
	const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
	return s.rdb.Eval(ctx, script, []string{presenceKey(userID)}, sessionID).Err()
}

// IsPresent reports whether the user has a live presence key.
func (s *Store) IsPresent(ctx context.Context, userID uint64) (bool, error) {
	n, err := s.rdb.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
