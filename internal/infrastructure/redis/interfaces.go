package redis

import (
	"context"
	"time"
)

// Lock は取得済みロックのインターフェース
type Lock interface {
	Release(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) error
}

// LockManagerInterface は分散ロックマネージャーのインターフェース
// アプリケーション層のテストでモックに差し替えるための抽象化
type LockManagerInterface interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (Lock, error)
	AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (Lock, error)
}

// ReservationCountCacheInterface は予約数キャッシュのインターフェース
type ReservationCountCacheInterface interface {
	GetCount(ctx context.Context, restaurantID string) (int, error)
	SetCount(ctx context.Context, restaurantID string, count int, ttl time.Duration) error
	Invalidate(ctx context.Context, restaurantID string) error
}
