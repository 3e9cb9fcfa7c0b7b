package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
)

const DefaultRedisPrefix = "catalog"

// Redis keeps each collection in one hash, id -> JSON document.
type Redis[T model.Document[T]] struct {
	client *redis.Client
	key    string
}

func NewRedis[T model.Document[T]](client *redis.Client, prefix string) *Redis[T] {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	var zero T
	return &Redis[T]{client: client, key: prefix + ":" + zero.Collection()}
}

// FindAll returns documents ordered by id; hashes carry no insertion order.
func (s *Redis[T]) FindAll(ctx context.Context) ([]T, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", s.key, err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		doc, err := s.decode(raw[id])
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *Redis[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var zero T

	raw, err := s.client.HGet(ctx, s.key, id).Result()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("redis hget %s %s: %w", s.key, id, err)
	}

	doc, err := s.decode(raw)
	if err != nil {
		return zero, false, err
	}
	return doc, true, nil
}

func (s *Redis[T]) FindByExample(ctx context.Context, example T, mode match.Mode) ([]T, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return match.Filter(all, fieldsOf[T], example.Fields(), mode), nil
}

func (s *Redis[T]) Save(ctx context.Context, doc T) (T, error) {
	var zero T

	if doc.DocumentID() == "" {
		doc = doc.WithID(uuid.NewString())
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", s.key, err)
	}

	if err := s.client.HSet(ctx, s.key, doc.DocumentID(), payload).Err(); err != nil {
		return zero, fmt.Errorf("redis hset %s %s: %w", s.key, doc.DocumentID(), err)
	}
	return doc, nil
}

func (s *Redis[T]) DeleteByID(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, s.key, id).Err(); err != nil {
		return fmt.Errorf("redis hdel %s %s: %w", s.key, id, err)
	}
	return nil
}

func (s *Redis[T]) DeleteAll(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}

func (s *Redis[T]) decode(raw string) (T, error) {
	var doc T
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return doc, nil
}

// NewRedisSet returns stores for every resource on client.
func NewRedisSet(client *redis.Client, prefix string) Set {
	return Set{
		Authors:    NewRedis[model.Author](client, prefix),
		Books:      NewRedis[model.Book](client, prefix),
		Publishers: NewRedis[model.Publisher](client, prefix),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		Close: client.Close,
	}
}
