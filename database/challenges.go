package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fmoraes/auth-api/utils"
)

// ChallengeKind identifies which login challenge a slot belongs to.
type ChallengeKind string

const (
	ChallengeCaptcha      ChallengeKind = "captcha"
	ChallengeSecondFactor ChallengeKind = "second_factor"
)

const challengeCodeLength = 6

// ErrNoChallenge is returned by Consume when no code is pending for the
// given slot: none was ever issued, it expired, or it was already consumed.
var ErrNoChallenge = errors.New("no pending challenge")

// ChallengeStore holds one-time login challenge codes. Slots are keyed by
// (session identity, username, challenge kind) so concurrent logins for the
// same username from different clients cannot clobber each other's codes.
// Every slot expires after the configured TTL.
type ChallengeStore struct {
	redis *RedisClient
	ttl   time.Duration
}

func NewChallengeStore(redis *RedisClient, ttl time.Duration) *ChallengeStore {
	return &ChallengeStore{
		redis: redis,
		ttl:   ttl,
	}
}

func (cs *ChallengeStore) key(sessionID, username string, kind ChallengeKind) string {
	return fmt.Sprintf("challenge:%s:%s:%s", sessionID, username, kind)
}

// Issue generates a fresh 6-digit code, stores it in the slot and returns
// it. Any previously pending code for the slot is overwritten.
func (cs *ChallengeStore) Issue(ctx context.Context, sessionID, username string, kind ChallengeKind) (string, error) {
	code, err := utils.RandomNumericCode(challengeCodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate challenge code: %w", err)
	}

	if err := cs.redis.client.Set(ctx, cs.key(sessionID, username, kind), code, cs.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store challenge code: %w", err)
	}

	return code, nil
}

// Consume reads and deletes the pending code for the slot. The read and the
// delete are a single GETDEL so a code can never be verified twice.
func (cs *ChallengeStore) Consume(ctx context.Context, sessionID, username string, kind ChallengeKind) (string, error) {
	code, err := cs.redis.client.GetDel(ctx, cs.key(sessionID, username, kind)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoChallenge
		}
		return "", fmt.Errorf("failed to consume challenge code: %w", err)
	}
	return code, nil
}

// Clear drops both challenge slots for the session/username pair.
func (cs *ChallengeStore) Clear(ctx context.Context, sessionID, username string) error {
	keys := []string{
		cs.key(sessionID, username, ChallengeCaptcha),
		cs.key(sessionID, username, ChallengeSecondFactor),
	}
	if err := cs.redis.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear challenge slots: %w", err)
	}
	return nil
}
