package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

type tableRow struct {
	ID           string    `db:"id"`
	RestaurantID string    `db:"restaurant_id"`
	Capacity     int       `db:"capacity"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *tableRow) toEntity() *table.Table {
	return &table.Table{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		Capacity:     r.Capacity,
		Status:       table.Status(r.Status),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// TableRepository はテーブルリポジトリのPostgreSQL実装
type TableRepository struct {
	db *sqlx.DB
}

// NewTableRepository はTableRepositoryを作成する
func NewTableRepository(db *sqlx.DB) *TableRepository {
	return &TableRepository{db: db}
}

// Create は新しいテーブルを作成する
func (r *TableRepository) Create(ctx context.Context, t *table.Table) error {
	query := `
		INSERT INTO tables (restaurant_id, capacity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		t.RestaurantID, t.Capacity, string(t.Status), t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("テーブル作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDからテーブルを取得する
func (r *TableRepository) GetByID(ctx context.Context, id string) (*table.Table, error) {
	var row tableRow
	query := `SELECT id, restaurant_id, capacity, status, created_at, updated_at FROM tables WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, table.ErrTableNotFound
		}
		return nil, fmt.Errorf("テーブル取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// List はテーブル一覧を取得する。restaurantIDが空の場合は全件
func (r *TableRepository) List(ctx context.Context, restaurantID string) ([]*table.Table, error) {
	query := `SELECT id, restaurant_id, capacity, status, created_at, updated_at FROM tables`
	args := []interface{}{}
	if restaurantID != "" {
		query += ` WHERE restaurant_id = $1`
		args = append(args, restaurantID)
	}
	query += ` ORDER BY created_at ASC`

	var rows []tableRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("テーブル一覧取得に失敗: %w", err)
	}
	result := make([]*table.Table, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// Update はテーブルを更新する
func (r *TableRepository) Update(ctx context.Context, t *table.Table) error {
	query := `
		UPDATE tables
		SET restaurant_id = $1, capacity = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		t.RestaurantID, t.Capacity, string(t.Status), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("テーブル更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return table.ErrTableNotFound
	}
	return nil
}

// Delete はテーブルを削除する
func (r *TableRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("テーブル削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return table.ErrTableNotFound
	}
	return nil
}

// DeleteByRestaurant はレストランのテーブルをまとめて削除する
func (r *TableRepository) DeleteByRestaurant(ctx context.Context, tx transaction.Tx, restaurantID string) (int64, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return 0, fmt.Errorf("不正なトランザクション型です")
	}
	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM tables WHERE restaurant_id = $1`, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("レストランテーブルの削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

var _ table.Repository = (*TableRepository)(nil)
