package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
)

type reservationRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	RestaurantID    string    `db:"restaurant_id"`
	RestaurantName  string    `db:"restaurant_name"`
	ReservationDate time.Time `db:"reservation_date"`
	Quantity        int       `db:"quantity"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID:              r.ID,
		UserID:          r.UserID,
		RestaurantID:    r.RestaurantID,
		RestaurantName:  r.RestaurantName,
		ReservationDate: r.ReservationDate,
		Quantity:        r.Quantity,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

const reservationColumns = `id, user_id, restaurant_id, restaurant_name, reservation_date, quantity, created_at, updated_at`

// ReservationRepository は予約リポジトリのPostgreSQL実装
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository はReservationRepositoryを作成する
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create は新しい予約を作成する
// (user_id, restaurant_id, 暦日) の一意インデックス違反は ErrDuplicateReservation にマップする
func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	query := `
		INSERT INTO reservations (user_id, restaurant_id, restaurant_name, reservation_date, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		res.UserID, res.RestaurantID, res.RestaurantName, res.ReservationDate, res.Quantity, res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return reservation.ErrDuplicateReservation
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDから予約を取得する
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ListByUser はユーザーの予約一覧を取得する
func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]*reservation.Reservation, error) {
	return r.List(ctx, reservation.Filter{UserID: userID})
}

// List は条件に一致する予約一覧を取得する
func (r *ReservationRepository) List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := []interface{}{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.RestaurantID != "" {
		args = append(args, filter.RestaurantID)
		query += fmt.Sprintf(" AND restaurant_id = $%d", len(args))
	}
	query += " ORDER BY reservation_date ASC"

	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// CountByRestaurant はレストランの予約数を取得する
func (r *ReservationRepository) CountByRestaurant(ctx context.Context, restaurantID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reservations WHERE restaurant_id = $1`, restaurantID); err != nil {
		return 0, fmt.Errorf("予約数取得に失敗: %w", err)
	}
	return count, nil
}

// Update は予約を更新する
func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	query := `
		UPDATE reservations
		SET restaurant_id = $1, reservation_date = $2, quantity = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		res.RestaurantID, res.ReservationDate, res.Quantity, res.UpdatedAt, res.ID,
	)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return reservation.ErrDuplicateReservation
		}
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

// Delete は予約を削除する
func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

// DeleteByRestaurant はレストランの予約をまとめて削除する
func (r *ReservationRepository) DeleteByRestaurant(ctx context.Context, tx transaction.Tx, restaurantID string) (int64, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return 0, fmt.Errorf("不正なトランザクション型です")
	}
	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM reservations WHERE restaurant_id = $1`, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("レストラン予約の削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// DeleteOlderThan は予約時刻がcutoffより前の予約を削除する
func (r *ReservationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE reservation_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("過去予約の削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
