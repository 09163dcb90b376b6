package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// ReservationCountCache はレストラン別予約数のキャッシュを管理する
// レストラン詳細（関連情報付き）の読み取りで使い、予約の作成・削除時に無効化する
type ReservationCountCache struct {
	client *redis.Client
}

// NewReservationCountCache は新しいReservationCountCacheインスタンスを作成する
func NewReservationCountCache(client *redis.Client) *ReservationCountCache {
	return &ReservationCountCache{client: client}
}

// GetCount はレストランの予約数をキャッシュから取得する
func (c *ReservationCountCache) GetCount(ctx context.Context, restaurantID string) (int, error) {
	key := c.countKey(restaurantID)
	val, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetCount はレストランの予約数をキャッシュに保存する
func (c *ReservationCountCache) SetCount(ctx context.Context, restaurantID string, count int, ttl time.Duration) error {
	key := c.countKey(restaurantID)
	err := c.client.Set(ctx, key, count, ttl).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はレストランのキャッシュを無効化する
func (c *ReservationCountCache) Invalidate(ctx context.Context, restaurantID string) error {
	key := c.countKey(restaurantID)
	err := c.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *ReservationCountCache) countKey(restaurantID string) string {
	return fmt.Sprintf("reservations:count:%s", restaurantID)
}

var _ ReservationCountCacheInterface = (*ReservationCountCache)(nil)
