package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-restaurant-reservation/internal/infrastructure/redis"
)

// defaultCountCacheTTL はレストラン別予約数キャッシュの既定TTL
const defaultCountCacheTTL = 5 * time.Minute

type RestaurantService struct {
	restaurantRepo  restaurant.Repository
	tableRepo       table.Repository
	reservationRepo reservation.Repository
	txManager       transaction.Manager
	countCache      redisinfra.ReservationCountCacheInterface
	countCacheTTL   time.Duration
}

// NewRestaurantService はサービスを構築する
// cacheTTLが0以下の場合は既定値を使う
func NewRestaurantService(
	rr restaurant.Repository,
	tr table.Repository,
	resr reservation.Repository,
	txm transaction.Manager,
	cache redisinfra.ReservationCountCacheInterface,
	cacheTTL time.Duration,
) *RestaurantService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCountCacheTTL
	}
	return &RestaurantService{
		restaurantRepo:  rr,
		tableRepo:       tr,
		reservationRepo: resr,
		txManager:       txm,
		countCache:      cache,
		countCacheTTL:   cacheTTL,
	}
}

type CreateRestaurantInput struct {
	Name        string
	Address     string
	PhoneNumber string
	OpenTime    *time.Time
	CloseTime   *time.Time
}

func (s *RestaurantService) CreateRestaurant(ctx context.Context, input CreateRestaurantInput) (*restaurant.Restaurant, error) {
	r := restaurant.NewRestaurant(input.Name, input.Address, input.PhoneNumber, input.OpenTime, input.CloseTime)
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.restaurantRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("レストラン作成に失敗しました: %w", err)
	}
	return r, nil
}

func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	return s.restaurantRepo.GetByID(ctx, id)
}

// RestaurantDetail はレストランと関連情報（テーブル・予約数）をまとめたもの
type RestaurantDetail struct {
	Restaurant       *restaurant.Restaurant
	Tables           []*table.Table
	ReservationCount int
}

// GetRestaurantDetail はレストランをテーブル一覧・予約数付きで取得する
// 予約数はキャッシュを優先し、ミス時にストアから取得してキャッシュに書き戻す
func (s *RestaurantService) GetRestaurantDetail(ctx context.Context, id string) (*RestaurantDetail, error) {
	r, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tables, err := s.tableRepo.List(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.reservationCount(ctx, id)
	if err != nil {
		return nil, err
	}

	return &RestaurantDetail{
		Restaurant:       r,
		Tables:           tables,
		ReservationCount: count,
	}, nil
}

func (s *RestaurantService) ListRestaurants(ctx context.Context, limit, offset int) ([]*restaurant.Restaurant, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.restaurantRepo.List(ctx, limit, offset)
}

// ListRestaurantDetails はレストラン一覧を関連情報付きで取得する
func (s *RestaurantService) ListRestaurantDetails(ctx context.Context, limit, offset int) ([]*RestaurantDetail, error) {
	restaurants, err := s.ListRestaurants(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	details := make([]*RestaurantDetail, len(restaurants))
	for i, r := range restaurants {
		tables, err := s.tableRepo.List(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		count, err := s.reservationCount(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		details[i] = &RestaurantDetail{Restaurant: r, Tables: tables, ReservationCount: count}
	}
	return details, nil
}

type UpdateRestaurantInput struct {
	ID          string
	Name        *string
	Address     *string
	PhoneNumber *string
	OpenTime    *time.Time
	CloseTime   *time.Time
}

// UpdateRestaurant はレストランを更新する。パッチに含まれるフィールドのみ反映する
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, input UpdateRestaurantInput) (*restaurant.Restaurant, error) {
	r, err := s.restaurantRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		r.Name = *input.Name
	}
	if input.Address != nil {
		r.Address = *input.Address
	}
	if input.PhoneNumber != nil {
		r.PhoneNumber = *input.PhoneNumber
	}
	if input.OpenTime != nil {
		r.OpenTime = input.OpenTime
	}
	if input.CloseTime != nil {
		r.CloseTime = input.CloseTime
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	r.UpdatedAt = time.Now()
	if err := s.restaurantRepo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRestaurant はレストランと関連するテーブル・予約を同一トランザクションで削除する
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, id string) error {
	// 存在確認を先に行い、NotFoundをトランザクション外で返す
	if _, err := s.restaurantRepo.GetByID(ctx, id); err != nil {
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.reservationRepo.DeleteByRestaurant(ctx, tx, id); err != nil {
		return err
	}
	if _, err := s.tableRepo.DeleteByRestaurant(ctx, tx, id); err != nil {
		return err
	}
	if err := s.restaurantRepo.Delete(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	if s.countCache != nil {
		_ = s.countCache.Invalidate(ctx, id)
	}
	return nil
}

func (s *RestaurantService) reservationCount(ctx context.Context, restaurantID string) (int, error) {
	if s.countCache != nil {
		count, err := s.countCache.GetCount(ctx, restaurantID)
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			// キャッシュ障害時はストアにフォールバック
			count, serr := s.reservationRepo.CountByRestaurant(ctx, restaurantID)
			if serr != nil {
				return 0, serr
			}
			return count, nil
		}
	}

	count, err := s.reservationRepo.CountByRestaurant(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	if s.countCache != nil {
		_ = s.countCache.SetCount(ctx, restaurantID, count, s.countCacheTTL)
	}
	return count, nil
}
