package flagstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

var redisFlagPrefix = "review/"

// RedisFlagStore persists review flags as redis sets, shared across pipeline
// instances.
type RedisFlagStore struct {
	Client *redis.Client
}

var _ FlagStore = (*RedisFlagStore)(nil)

func NewRedisFlagStore(redisURL string) (*RedisFlagStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.Background()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisFlagStore{Client: rdb}, nil
}

func (s *RedisFlagStore) Get(ctx context.Context, contentHash string) ([]string, error) {
	v, err := s.Client.SMembers(ctx, redisFlagPrefix+contentHash).Result()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *RedisFlagStore) Add(ctx context.Context, contentHash string, flags []string) error {
	if len(flags) == 0 {
		return nil
	}
	args := make([]interface{}, len(flags))
	for i, f := range flags {
		args[i] = f
	}
	return s.Client.SAdd(ctx, redisFlagPrefix+contentHash, args...).Err()
}

func (s *RedisFlagStore) Remove(ctx context.Context, contentHash string, flags []string) error {
	if len(flags) == 0 {
		return nil
	}
	args := make([]interface{}, len(flags))
	for i, f := range flags {
		args[i] = f
	}
	return s.Client.SRem(ctx, redisFlagPrefix+contentHash, args...).Err()
}
