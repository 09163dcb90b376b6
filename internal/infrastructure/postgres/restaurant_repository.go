package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

// restaurantRow はDBの行を表す構造体
type restaurantRow struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Address     *string    `db:"address"`
	PhoneNumber *string    `db:"phone_number"`
	OpenTime    *time.Time `db:"open_time"`
	CloseTime   *time.Time `db:"close_time"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// toEntity はrestaurantRowをRestaurantエンティティに変換する
func (r *restaurantRow) toEntity() *restaurant.Restaurant {
	var address, phone string
	if r.Address != nil {
		address = *r.Address
	}
	if r.PhoneNumber != nil {
		phone = *r.PhoneNumber
	}
	return &restaurant.Restaurant{
		ID:          r.ID,
		Name:        r.Name,
		Address:     address,
		PhoneNumber: phone,
		OpenTime:    r.OpenTime,
		CloseTime:   r.CloseTime,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// RestaurantRepository はレストランリポジトリのPostgreSQL実装
type RestaurantRepository struct {
	db *sqlx.DB
}

// NewRestaurantRepository はRestaurantRepositoryを作成する
func NewRestaurantRepository(db *sqlx.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// Create は新しいレストランを作成する
func (r *RestaurantRepository) Create(ctx context.Context, rest *restaurant.Restaurant) error {
	query := `
		INSERT INTO restaurants (name, address, phone_number, open_time, close_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var address, phone *string
	if rest.Address != "" {
		address = &rest.Address
	}
	if rest.PhoneNumber != "" {
		phone = &rest.PhoneNumber
	}

	err := r.db.QueryRowContext(ctx, query,
		rest.Name, address, phone, rest.OpenTime, rest.CloseTime, rest.CreatedAt, rest.UpdatedAt,
	).Scan(&rest.ID)
	if err != nil {
		return fmt.Errorf("レストラン作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDからレストランを取得する
func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	var row restaurantRow
	query := `SELECT id, name, address, phone_number, open_time, close_time, created_at, updated_at FROM restaurants WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, restaurant.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("レストラン取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// List はレストラン一覧を取得する
func (r *RestaurantRepository) List(ctx context.Context, limit, offset int) ([]*restaurant.Restaurant, error) {
	var rows []restaurantRow
	query := `SELECT id, name, address, phone_number, open_time, close_time, created_at, updated_at FROM restaurants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("レストラン一覧取得に失敗: %w", err)
	}
	result := make([]*restaurant.Restaurant, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// Update はレストランを更新する
func (r *RestaurantRepository) Update(ctx context.Context, rest *restaurant.Restaurant) error {
	query := `
		UPDATE restaurants
		SET name = $1, address = $2, phone_number = $3, open_time = $4, close_time = $5, updated_at = $6
		WHERE id = $7
	`
	var address, phone *string
	if rest.Address != "" {
		address = &rest.Address
	}
	if rest.PhoneNumber != "" {
		phone = &rest.PhoneNumber
	}

	result, err := r.db.ExecContext(ctx, query,
		rest.Name, address, phone, rest.OpenTime, rest.CloseTime, rest.UpdatedAt, rest.ID,
	)
	if err != nil {
		return fmt.Errorf("レストラン更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return restaurant.ErrRestaurantNotFound
	}
	return nil
}

// Delete はレストランを削除する
func (r *RestaurantRepository) Delete(ctx context.Context, tx transaction.Tx, id string) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("不正なトランザクション型です")
	}
	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("レストラン削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return restaurant.ErrRestaurantNotFound
	}
	return nil
}

var _ restaurant.Repository = (*RestaurantRepository)(nil)
