package table

import (
	"context"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

// Repository はテーブルリポジトリのインターフェース
type Repository interface {
	// Create は新しいテーブルを作成する
	Create(ctx context.Context, t *Table) error

	// GetByID はIDからテーブルを取得する
	GetByID(ctx context.Context, id string) (*Table, error)

	// List はテーブル一覧を取得する。restaurantIDが空の場合は全件
	List(ctx context.Context, restaurantID string) ([]*Table, error)

	// Update はテーブルを更新する
	Update(ctx context.Context, t *Table) error

	// Delete はテーブルを削除する
	Delete(ctx context.Context, id string) error

	// DeleteByRestaurant はレストランのテーブルをまとめて削除する（レストラン削除と同一トランザクション）
	DeleteByRestaurant(ctx context.Context, tx transaction.Tx, restaurantID string) (int64, error)
}
