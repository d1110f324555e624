package membership

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultKeyPrefix prefixes member keys when none is configured.
	DefaultKeyPrefix = "sgsync:member:"
	// DefaultMemberTTL is the expiry of a member key that is not re-registered.
	DefaultMemberTTL = 90 * time.Second

	scanBatch = 200
)

// redisClient is the subset of *redis.Client the registry needs.
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// RedisRegistry keeps one expiring key per member.
type RedisRegistry struct {
	client redisClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisRegistry returns a registry over client. Keys are
// <prefix><app>:<instance> and expire after ttl unless re-registered.
func NewRedisRegistry(client redisClient, prefix string, ttl time.Duration) *RedisRegistry {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultMemberTTL
	}
	return &RedisRegistry{client: client, prefix: prefix, ttl: ttl, now: time.Now}
}

func (r *RedisRegistry) key(appID, instanceID string) string {
	return r.prefix + appID + ":" + instanceID
}

// Register writes the member record and resets its TTL.
func (r *RedisRegistry) Register(ctx context.Context, m Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.UpdatedAt = r.now().UTC()

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode member %s: %w", m.InstanceID, err)
	}
	if err := r.client.Set(ctx, r.key(m.AppID, m.InstanceID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to register member %s: %w", m.InstanceID, err)
	}
	return nil
}

// Deregister deletes the member key.
func (r *RedisRegistry) Deregister(ctx context.Context, m Member) error {
	if err := r.client.Del(ctx, r.key(m.AppID, m.InstanceID)).Err(); err != nil {
		return fmt.Errorf("failed to deregister member %s: %w", m.InstanceID, err)
	}
	return nil
}

// ListMembers implements Registry. Keys that expire between SCAN and MGET are skipped.
func (r *RedisRegistry) ListMembers(ctx context.Context, appID string) ([]Member, error) {
	match := r.prefix + appID + ":*"

	var keys []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan members of %s: %w", appID, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	members := []Member{}
	if len(keys) == 0 {
		return members, nil
	}

	seen := make(map[string]struct{}, len(keys))
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		values, err := r.client.MGet(ctx, keys[start:end]...).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read members of %s: %w", appID, err)
		}
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var m Member
			if err := json.Unmarshal([]byte(raw), &m); err != nil {
				return nil, fmt.Errorf("failed to decode member key %s: %w", keys[start+i], err)
			}
			// SCAN may return a key more than once.
			if _, dup := seen[m.InstanceID]; dup {
				continue
			}
			seen[m.InstanceID] = struct{}{}
			members = append(members, m)
		}
	}

	sortMembers(members)
	return members, nil
}
