package reservation

import (
	"context"
	"time"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

// Filter は予約一覧取得の絞り込み条件。空のフィールドは無条件
type Filter struct {
	UserID       string
	RestaurantID string
}

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する
	// (user, restaurant, 暦日) の一意制約違反は ErrDuplicateReservation を返す
	Create(ctx context.Context, r *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// ListByUser はユーザーの予約一覧を取得する
	ListByUser(ctx context.Context, userID string) ([]*Reservation, error)

	// List は条件に一致する予約一覧を取得する
	List(ctx context.Context, filter Filter) ([]*Reservation, error)

	// CountByRestaurant はレストランの予約数を取得する
	CountByRestaurant(ctx context.Context, restaurantID string) (int, error)

	// Update は予約を更新する
	Update(ctx context.Context, r *Reservation) error

	// Delete は予約を削除する
	Delete(ctx context.Context, id string) error

	// DeleteByRestaurant はレストランの予約をまとめて削除する（レストラン削除と同一トランザクション）
	DeleteByRestaurant(ctx context.Context, tx transaction.Tx, restaurantID string) (int64, error)

	// DeleteOlderThan は予約時刻がcutoffより前の予約を削除し、削除件数を返す
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
