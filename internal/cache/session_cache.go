// Package cache 는 사용자 프로필과 직원 명부처럼 자주 읽히는 데이터를
// 시간제한을 두고 보관한다. 값은 (데이터, 저장 시각) 쌍으로 저장해서
// 신선도 판정을 명시적으로 한다.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

// Snapshot 은 캐시된 값 하나이다.
type Snapshot struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// IsStale 은 저장 후 maxAge 가 지났는지 여부이다.
func (s Snapshot) IsStale(maxAge time.Duration, now time.Time) bool {
	return now.Sub(s.FetchedAt) > maxAge
}

// Store 는 redis 에 스냅샷을 보관한다. redis TTL 로도 수명이 제한되지만,
// 저장 시각을 함께 들고 있어서 신선도 판정이 키 수명과 무관하게 동작한다.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

const directoryKey = "employee_directory"

func profileKey(userID int64) string {
	return fmt.Sprintf("profile_%d", userID)
}

func (s *Store) get(ctx context.Context, key string, dst any) (bool, error) {
	payload, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return false, err
	}
	if snapshot.IsStale(s.ttl, time.Now()) {
		return false, nil
	}

	if err := json.Unmarshal(snapshot.Data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(Snapshot{Data: data, FetchedAt: time.Now()})
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s *Store) GetDirectory(ctx context.Context) ([]*domain.User, bool, error) {
	var users []*domain.User
	ok, err := s.get(ctx, directoryKey, &users)
	return users, ok, err
}

func (s *Store) SetDirectory(ctx context.Context, users []*domain.User) error {
	return s.set(ctx, directoryKey, users)
}

func (s *Store) InvalidateDirectory(ctx context.Context) error {
	return s.rdb.Del(ctx, directoryKey).Err()
}

func (s *Store) GetProfile(ctx context.Context, userID int64) (*domain.User, bool, error) {
	var user domain.User
	ok, err := s.get(ctx, profileKey(userID), &user)
	if !ok || err != nil {
		return nil, ok, err
	}
	return &user, true, nil
}

func (s *Store) SetProfile(ctx context.Context, user *domain.User) error {
	return s.set(ctx, profileKey(user.ID), user)
}

func (s *Store) InvalidateProfile(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, profileKey(userID)).Err()
}
