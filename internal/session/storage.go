// Package session keeps per-customer state that outlives a single request:
// a small Redis-backed key/value store and the in-process stores bound to
// each signed-in customer.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a per-customer key/value store kept in one Redis hash.
type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStorage(client *redis.Client, ttl time.Duration) *Storage {
	return &Storage{client: client, ttl: ttl}
}

// Get returns the value under key. ok is false when the key is unset.
func (s *Storage) Get(ctx context.Context, customerID, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, hashKey(customerID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key and refreshes the expiry of the whole hash.
func (s *Storage) Set(ctx context.Context, customerID, key, value string) error {
	hk := hashKey(customerID)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, hk, key, value)
		if s.ttl > 0 {
			p.Expire(ctx, hk, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, customerID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, hashKey(customerID), keys...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// Clear removes every key stored for the customer.
func (s *Storage) Clear(ctx context.Context, customerID string) error {
	if err := s.client.Del(ctx, hashKey(customerID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// GetJSON decodes the value under key into dst.
func (s *Storage) GetJSON(ctx context.Context, customerID, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, customerID, key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("session decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Storage) SetJSON(ctx context.Context, customerID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session encode %s: %w", key, err)
	}
	return s.Set(ctx, customerID, key, string(data))
}

func hashKey(customerID string) string {
	return "session:" + customerID
}
