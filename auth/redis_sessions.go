package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adamspd/QuizTrack/models"
	"github.com/adamspd/QuizTrack/utils"
)

const (
	sessionKeyPrefix     = "quiztrack:session:"
	userSessionKeyPrefix = "quiztrack:user_sessions:"
)

// RedisSessionStore shares sessions between server instances. Expiry is
// delegated to Redis key TTLs.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore connects using a redis:// URL and pings the server.
func NewRedisSessionStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	utils.LogStartup("Session store connected to redis at %s", opts.Addr)
	return &RedisSessionStore{client: client, ttl: ttl}, nil
}

func (s *RedisSessionStore) CreateSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session := newSession(user, s.ttl)
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}

	userKey := userSessionKeyPrefix + user.ID
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKeyPrefix+session.ID, payload, s.ttl)
		pipe.SAdd(ctx, userKey, session.ID)
		pipe.Expire(ctx, userKey, s.ttl)
		return nil
	})
	if err != nil {
		utils.LogError("Failed to store session for user %s: %v", user.ID, err)
		return nil, err
	}
	return session, nil
}

func (s *RedisSessionStore) GetSession(ctx context.Context, sessionID string) (*models.Session, bool, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		utils.LogError("Failed to load session %s: %v", utils.ShortToken(sessionID), err)
		return nil, false, err
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, false, nil
	}
	return &session, true, nil
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	session, ok, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+sessionID)
	if ok {
		pipe.SRem(ctx, userSessionKeyPrefix+session.UserID, sessionID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) DeleteUserSessions(ctx context.Context, userID string) error {
	userKey := userSessionKeyPrefix + userID
	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, userKey)
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
