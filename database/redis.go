package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

var ErrSessionNotFound = errors.New("session not found")

// RedisClient wraps the redis connection and holds the authenticated-session
// storage. Challenge slots live in ChallengeStore on the same connection.
type RedisClient struct {
	client *redis.Client
}

func GetRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromConn wraps an existing connection. Used by tests to back
// the stores with miniredis.
func NewRedisClientFromConn(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// SetSession stores an authenticated session token for the user.
func (rc *RedisClient) SetSession(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	if err := rc.client.Set(ctx, sessionKeyPrefix+token, strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetSession resolves a session token to the owning user's ID.
func (rc *RedisClient) GetSession(ctx context.Context, token string) (uint, error) {
	value, err := rc.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("failed to read session: %w", err)
	}

	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session record: %w", err)
	}
	return uint(userID), nil
}

// DeleteSession removes a session token. Deleting an unknown token is not an
// error.
func (rc *RedisClient) DeleteSession(ctx context.Context, token string) error {
	if err := rc.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
