package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
)

type TableService struct {
	tableRepo      table.Repository
	restaurantRepo restaurant.Repository
}

func NewTableService(tr table.Repository, rr restaurant.Repository) *TableService {
	return &TableService{tableRepo: tr, restaurantRepo: rr}
}

type CreateTableInput struct {
	RestaurantID string
	Capacity     int
	Status       string
}

func (s *TableService) CreateTable(ctx context.Context, input CreateTableInput) (*table.Table, error) {
	// 存在しないレストランへのテーブル登録を防ぐ
	if _, err := s.restaurantRepo.GetByID(ctx, input.RestaurantID); err != nil {
		return nil, err
	}

	t := table.NewTable(input.RestaurantID, input.Capacity, table.Status(input.Status))
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.tableRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("テーブル作成に失敗しました: %w", err)
	}
	return t, nil
}

func (s *TableService) GetTable(ctx context.Context, id string) (*table.Table, error) {
	return s.tableRepo.GetByID(ctx, id)
}

// ListTables はテーブル一覧を取得する。restaurantIDが空の場合は全件
func (s *TableService) ListTables(ctx context.Context, restaurantID string) ([]*table.Table, error) {
	return s.tableRepo.List(ctx, restaurantID)
}

type UpdateTableInput struct {
	ID           string
	RestaurantID *string
	Capacity     *int
	Status       *string
}

// UpdateTable はテーブルを更新する。パッチに含まれるフィールドのみ反映する
func (s *TableService) UpdateTable(ctx context.Context, input UpdateTableInput) (*table.Table, error) {
	t, err := s.tableRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.RestaurantID != nil {
		if _, err := s.restaurantRepo.GetByID(ctx, *input.RestaurantID); err != nil {
			return nil, err
		}
		t.RestaurantID = *input.RestaurantID
	}
	if input.Capacity != nil {
		t.Capacity = *input.Capacity
	}
	if input.Status != nil {
		t.Status = table.Status(*input.Status)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	t.UpdatedAt = time.Now()
	if err := s.tableRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TableService) DeleteTable(ctx context.Context, id string) error {
	return s.tableRepo.Delete(ctx, id)
}
