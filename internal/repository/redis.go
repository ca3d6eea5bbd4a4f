package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "passgen:prefs:"

// NewRedisClient parses redisURL and checks the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// RedisPreferenceStore keeps each owner's preferences in one Redis hash.
type RedisPreferenceStore struct {
	client redis.Cmdable
}

// NewRedisPreferenceStore creates a store over an existing client.
func NewRedisPreferenceStore(client redis.Cmdable) *RedisPreferenceStore {
	return &RedisPreferenceStore{client: client}
}

// LoadPreference returns the value stored for owner under name.
func (s *RedisPreferenceStore) LoadPreference(ctx context.Context, owner, name string) (string, error) {
	value, err := s.client.HGet(ctx, redisKey(owner), name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrPreferenceNotFound
		}
		return "", err
	}
	return value, nil
}

// SavePreference sets the value for owner under name.
func (s *RedisPreferenceStore) SavePreference(ctx context.Context, owner, name, value string) error {
	return s.client.HSet(ctx, redisKey(owner), name, value).Err()
}

func redisKey(owner string) string {
	return redisKeyPrefix + owner
}
