package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
	redisinfra "github.com/sanosuguru/go-restaurant-reservation/internal/infrastructure/redis"
)

type restaurantTestDeps struct {
	restRepo   *MockRestaurantRepository
	tableRepo  *MockTableRepository
	resRepo    *MockReservationRepository
	txManager  *MockTxManager
	tx         *MockTx
	countCache *MockReservationCountCache
	service    *RestaurantService
}

func newRestaurantTestDeps() *restaurantTestDeps {
	restRepo := new(MockRestaurantRepository)
	tableRepo := new(MockTableRepository)
	resRepo := new(MockReservationRepository)
	txManager := new(MockTxManager)
	tx := new(MockTx)
	countCache := new(MockReservationCountCache)

	service := NewRestaurantService(restRepo, tableRepo, resRepo, txManager, countCache, 0)

	return &restaurantTestDeps{
		restRepo:   restRepo,
		tableRepo:  tableRepo,
		resRepo:    resRepo,
		txManager:  txManager,
		tx:         tx,
		countCache: countCache,
		service:    service,
	}
}

func TestRestaurantService_CreateRestaurant(t *testing.T) {
	ctx := context.Background()

	t.Run("正常に作成できる", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		deps.restRepo.On("Create", ctx, mock.AnythingOfType("*restaurant.Restaurant")).Return(nil)

		r, err := deps.service.CreateRestaurant(ctx, CreateRestaurantInput{
			Name:    "すし処さの",
			Address: "東京都渋谷区1-2-3",
		})

		require.NoError(t, err)
		assert.Equal(t, "すし処さの", r.Name)
	})

	t.Run("店名なしは拒否", func(t *testing.T) {
		deps := newRestaurantTestDeps()

		_, err := deps.service.CreateRestaurant(ctx, CreateRestaurantInput{Name: ""})

		assert.ErrorIs(t, err, restaurant.ErrRestaurantNameRequired)
		deps.restRepo.AssertNotCalled(t, "Create")
	})

	t.Run("開店時刻のみは拒否", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		open := time.Date(2000, 1, 1, 8, 0, 0, 0, time.UTC)

		_, err := deps.service.CreateRestaurant(ctx, CreateRestaurantInput{
			Name:     "店",
			OpenTime: &open,
		})

		assert.ErrorIs(t, err, restaurant.ErrIncompleteOperatingHours)
	})
}

func TestRestaurantService_GetRestaurantDetail(t *testing.T) {
	ctx := context.Background()
	rest := &restaurant.Restaurant{ID: "rest-1", Name: "すし処さの"}
	tables := []*table.Table{{ID: "table-1", RestaurantID: "rest-1", Capacity: 4}}

	t.Run("キャッシュヒット時はストアの件数取得を行わない", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		deps.restRepo.On("GetByID", ctx, "rest-1").Return(rest, nil)
		deps.tableRepo.On("List", ctx, "rest-1").Return(tables, nil)
		deps.countCache.On("GetCount", ctx, "rest-1").Return(12, nil)

		detail, err := deps.service.GetRestaurantDetail(ctx, "rest-1")

		require.NoError(t, err)
		assert.Equal(t, 12, detail.ReservationCount)
		assert.Len(t, detail.Tables, 1)
		deps.resRepo.AssertNotCalled(t, "CountByRestaurant")
	})

	t.Run("キャッシュミス時はストアから取得して書き戻す", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		deps.restRepo.On("GetByID", ctx, "rest-1").Return(rest, nil)
		deps.tableRepo.On("List", ctx, "rest-1").Return(tables, nil)
		deps.countCache.On("GetCount", ctx, "rest-1").Return(0, redisinfra.ErrCacheMiss)
		deps.resRepo.On("CountByRestaurant", ctx, "rest-1").Return(7, nil)
		deps.countCache.On("SetCount", ctx, "rest-1", 7, defaultCountCacheTTL).Return(nil)

		detail, err := deps.service.GetRestaurantDetail(ctx, "rest-1")

		require.NoError(t, err)
		assert.Equal(t, 7, detail.ReservationCount)
		deps.countCache.AssertExpectations(t)
	})

	t.Run("設定されたTTLでキャッシュに書き戻す", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		deps.service = NewRestaurantService(
			deps.restRepo, deps.tableRepo, deps.resRepo, deps.txManager, deps.countCache, 10*time.Minute)
		deps.restRepo.On("GetByID", ctx, "rest-1").Return(rest, nil)
		deps.tableRepo.On("List", ctx, "rest-1").Return(tables, nil)
		deps.countCache.On("GetCount", ctx, "rest-1").Return(0, redisinfra.ErrCacheMiss)
		deps.resRepo.On("CountByRestaurant", ctx, "rest-1").Return(7, nil)
		deps.countCache.On("SetCount", ctx, "rest-1", 7, 10*time.Minute).Return(nil)

		_, err := deps.service.GetRestaurantDetail(ctx, "rest-1")

		require.NoError(t, err)
		deps.countCache.AssertExpectations(t)
	})

	t.Run("キャッシュ障害時はストアにフォールバック", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		deps.restRepo.On("GetByID", ctx, "rest-1").Return(rest, nil)
		deps.tableRepo.On("List", ctx, "rest-1").Return(tables, nil)
		deps.countCache.On("GetCount", ctx, "rest-1").Return(0, errors.New("connection refused"))
		deps.resRepo.On("CountByRestaurant", ctx, "rest-1").Return(7, nil)

		detail, err := deps.service.GetRestaurantDetail(ctx, "rest-1")

		require.NoError(t, err)
		assert.Equal(t, 7, detail.ReservationCount)
	})

	t.Run("存在しないレストランはNotFound", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		deps.restRepo.On("GetByID", ctx, "missing").Return(nil, restaurant.ErrRestaurantNotFound)

		_, err := deps.service.GetRestaurantDetail(ctx, "missing")

		assert.ErrorIs(t, err, restaurant.ErrRestaurantNotFound)
	})
}

func TestRestaurantService_UpdateRestaurant(t *testing.T) {
	ctx := context.Background()

	t.Run("パッチに含まれるフィールドのみ更新する", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		existing := &restaurant.Restaurant{ID: "rest-1", Name: "旧店名", Address: "旧住所"}
		newName := "新店名"

		deps.restRepo.On("GetByID", ctx, "rest-1").Return(existing, nil)
		deps.restRepo.On("Update", ctx, mock.AnythingOfType("*restaurant.Restaurant")).Return(nil)

		r, err := deps.service.UpdateRestaurant(ctx, UpdateRestaurantInput{
			ID:   "rest-1",
			Name: &newName,
		})

		require.NoError(t, err)
		assert.Equal(t, "新店名", r.Name)
		assert.Equal(t, "旧住所", r.Address)
	})

	t.Run("店名を空にする更新は拒否", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		existing := &restaurant.Restaurant{ID: "rest-1", Name: "店"}
		empty := ""

		deps.restRepo.On("GetByID", ctx, "rest-1").Return(existing, nil)

		_, err := deps.service.UpdateRestaurant(ctx, UpdateRestaurantInput{
			ID:   "rest-1",
			Name: &empty,
		})

		assert.ErrorIs(t, err, restaurant.ErrRestaurantNameRequired)
		deps.restRepo.AssertNotCalled(t, "Update")
	})
}

func TestRestaurantService_DeleteRestaurant(t *testing.T) {
	ctx := context.Background()
	rest := &restaurant.Restaurant{ID: "rest-1", Name: "すし処さの"}

	t.Run("関連レコードごと同一トランザクションで削除する", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		deps.restRepo.On("GetByID", ctx, "rest-1").Return(rest, nil)
		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.resRepo.On("DeleteByRestaurant", ctx, deps.tx, "rest-1").Return(int64(3), nil)
		deps.tableRepo.On("DeleteByRestaurant", ctx, deps.tx, "rest-1").Return(int64(2), nil)
		deps.restRepo.On("Delete", ctx, deps.tx, "rest-1").Return(nil)
		deps.tx.On("Commit").Return(nil)
		deps.tx.On("Rollback").Return(nil)
		deps.countCache.On("Invalidate", ctx, "rest-1").Return(nil)

		err := deps.service.DeleteRestaurant(ctx, "rest-1")

		require.NoError(t, err)
		deps.resRepo.AssertExpectations(t)
		deps.tableRepo.AssertExpectations(t)
		deps.tx.AssertCalled(t, "Commit")
	})

	t.Run("存在しないレストランはNotFound", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		deps.restRepo.On("GetByID", ctx, "missing").Return(nil, restaurant.ErrRestaurantNotFound)

		err := deps.service.DeleteRestaurant(ctx, "missing")

		assert.ErrorIs(t, err, restaurant.ErrRestaurantNotFound)
		deps.txManager.AssertNotCalled(t, "Begin")
	})

	t.Run("途中で失敗した場合はコミットされない", func(t *testing.T) {
		deps := newRestaurantTestDeps()
		deps.restRepo.On("GetByID", ctx, "rest-1").Return(rest, nil)
		deps.txManager.On("Begin", ctx).Return(deps.tx, nil)
		deps.resRepo.On("DeleteByRestaurant", ctx, deps.tx, "rest-1").
			Return(int64(0), errors.New("deadlock detected"))
		deps.tx.On("Rollback").Return(nil)

		err := deps.service.DeleteRestaurant(ctx, "rest-1")

		assert.Error(t, err)
		deps.tx.AssertNotCalled(t, "Commit")
		deps.tx.AssertCalled(t, "Rollback")
	})
}

func TestRestaurantService_ListRestaurants_Pagination(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		limit, offset  int
		expectedLimit  int
		expectedOffset int
	}{
		{name: "既定値", limit: 0, offset: 0, expectedLimit: 20, expectedOffset: 0},
		{name: "上限100に丸める", limit: 500, offset: 10, expectedLimit: 100, expectedOffset: 10},
		{name: "負のオフセットは0", limit: 20, offset: -1, expectedLimit: 20, expectedOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newRestaurantTestDeps()
			deps.restRepo.On("List", ctx, tt.expectedLimit, tt.expectedOffset).
				Return([]*restaurant.Restaurant{}, nil)

			_, err := deps.service.ListRestaurants(ctx, tt.limit, tt.offset)

			assert.NoError(t, err)
			deps.restRepo.AssertExpectations(t)
		})
	}
}
