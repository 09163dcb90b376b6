package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-restaurant-reservation/internal/config"
)

func TestRunMigrations(t *testing.T) {
	cfg := config.Load()
	db, err := NewConnection(&cfg.Database)
	if err != nil {
		t.Skip("PostgreSQL not available")
	}
	defer db.Close()

	// インデックス式がIMMUTABLEでない場合はここで42P17になる
	require.NoError(t, RunMigrations(db.DB, "../../../migrations"))

	t.Run("再実行してもエラーにならない", func(t *testing.T) {
		assert.NoError(t, RunMigrations(db.DB, "../../../migrations"))
	})

	t.Run("同一ユーザー・同一レストラン・同一日はユニークインデックスで拒否される", func(t *testing.T) {
		ctx := context.Background()

		var restaurantID string
		err := db.QueryRowxContext(ctx,
			`INSERT INTO restaurants (name) VALUES ('移行テスト食堂') RETURNING id`,
		).Scan(&restaurantID)
		require.NoError(t, err)
		defer db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, restaurantID)
		defer db.ExecContext(ctx, `DELETE FROM reservations WHERE restaurant_id = $1`, restaurantID)

		day := time.Date(2031, 4, 1, 0, 0, 0, 0, time.UTC)
		insert := `INSERT INTO reservations (user_id, restaurant_id, restaurant_name, reservation_date, quantity)
			VALUES ($1, $2, '移行テスト食堂', $3, 1)`

		_, err = db.ExecContext(ctx, insert, "mig-user", restaurantID, day.Add(10*time.Hour))
		require.NoError(t, err)

		// 同じ暦日の別時刻は一意制約違反
		_, err = db.ExecContext(ctx, insert, "mig-user", restaurantID, day.Add(19*time.Hour))
		require.Error(t, err)
		pgErr, ok := err.(*pq.Error)
		require.True(t, ok)
		assert.Equal(t, pq.ErrorCode("23505"), pgErr.Code)

		// 翌日なら登録できる
		_, err = db.ExecContext(ctx, insert, "mig-user", restaurantID, day.Add(24*time.Hour))
		assert.NoError(t, err)
	})
}
