package redis

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceKeyPrefix = "presence:"

// PresenceStore publishes online/offline transitions as TTL-bound redis
// keys so other processes can observe who is connected. The in-memory
// session registry stays authoritative; this is advisory only.
type PresenceStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPresenceStore connects to the redis instance named by REDIS_URL.
// Returns nil when REDIS_URL is unset; the registry treats a nil announcer
// as "presence disabled".
func NewPresenceStore() *PresenceStore {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password by default
		DB:       0,  // use default DB
	})
	return &PresenceStore{
		client: client,
		ttl:    90 * time.Second,
	}
}

// Online marks username as connected. The TTL covers the ping period of a
// healthy connection, so a crashed process's keys age out on their own.
func (s *PresenceStore) Online(ctx context.Context, username string) error {
	return s.client.Set(ctx, presenceKeyPrefix+username, time.Now().Unix(), s.ttl).Err()
}

// Offline removes the presence key for username.
func (s *PresenceStore) Offline(ctx context.Context, username string) error {
	return s.client.Del(ctx, presenceKeyPrefix+username).Err()
}
