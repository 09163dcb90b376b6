package table

import "time"

// Status はテーブルの状態を表す
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusUnavailable Status = "UNAVAILABLE"
)

// Table はレストランのテーブルエンティティを表す
type Table struct {
	ID           string
	RestaurantID string
	Capacity     int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewTable は新しいテーブルを作成する。状態未指定の場合はAVAILABLE
func NewTable(restaurantID string, capacity int, status Status) *Table {
	if status == "" {
		status = StatusAvailable
	}
	now := time.Now()
	return &Table{
		RestaurantID: restaurantID,
		Capacity:     capacity,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate はテーブルの検証を行う
func (t *Table) Validate() error {
	if t.RestaurantID == "" {
		return ErrRestaurantIDRequired
	}
	if t.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if t.Status != StatusAvailable && t.Status != StatusUnavailable {
		return ErrInvalidStatus
	}
	return nil
}

// IsAvailable はテーブルが利用可能かを返す
func (t *Table) IsAvailable() bool {
	return t.Status == StatusAvailable
}
