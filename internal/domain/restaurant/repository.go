package restaurant

import (
	"context"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

// Repository はレストランリポジトリのインターフェース
type Repository interface {
	// Create は新しいレストランを作成する
	Create(ctx context.Context, r *Restaurant) error

	// GetByID はIDからレストランを取得する
	GetByID(ctx context.Context, id string) (*Restaurant, error)

	// List はレストラン一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Restaurant, error)

	// Update はレストランを更新する
	Update(ctx context.Context, r *Restaurant) error

	// Delete はレストランを削除する（関連レコードの削除と同一トランザクションで実行）
	Delete(ctx context.Context, tx transaction.Tx, id string) error
}
