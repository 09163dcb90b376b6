package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReservation(t *testing.T) {
	// Arrange
	date := time.Now().Add(48 * time.Hour)

	// Act
	r := NewReservation("user-1", "rest-1", "すし処さの", date, 2)

	// Assert
	assert.Equal(t, "user-1", r.UserID)
	assert.Equal(t, "rest-1", r.RestaurantID)
	assert.Equal(t, "すし処さの", r.RestaurantName)
	assert.Equal(t, date, r.ReservationDate)
	assert.Equal(t, 2, r.Quantity)
	assert.NotZero(t, r.CreatedAt)
	assert.NotZero(t, r.UpdatedAt)
}

func TestNewReservation_QuantityDefault(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		expected int
	}{
		{name: "0は既定値になる", quantity: 0, expected: DefaultQuantity},
		{name: "負数は既定値になる", quantity: -5, expected: DefaultQuantity},
		{name: "正数はそのまま", quantity: 4, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReservation("user-1", "rest-1", "店", time.Now().Add(time.Hour), tt.quantity)
			assert.Equal(t, tt.expected, r.Quantity)
		})
	}
}

func TestReservation_Validate(t *testing.T) {
	date := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name        string
		reservation *Reservation
		expectedErr error
	}{
		{
			name: "有効な予約",
			reservation: &Reservation{
				UserID: "user-1", RestaurantID: "rest-1", ReservationDate: date, Quantity: 1,
			},
			expectedErr: nil,
		},
		{
			name: "ユーザーIDが空",
			reservation: &Reservation{
				UserID: "", RestaurantID: "rest-1", ReservationDate: date, Quantity: 1,
			},
			expectedErr: ErrUserIDRequired,
		},
		{
			name: "レストランIDが空",
			reservation: &Reservation{
				UserID: "user-1", RestaurantID: "", ReservationDate: date, Quantity: 1,
			},
			expectedErr: ErrRestaurantIDRequired,
		},
		{
			name: "予約日時が未設定",
			reservation: &Reservation{
				UserID: "user-1", RestaurantID: "rest-1", Quantity: 1,
			},
			expectedErr: ErrReservationDateRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reservation.Validate()
			if tt.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}

func TestReservation_IsOwnedBy(t *testing.T) {
	r := &Reservation{UserID: "user-1"}

	assert.True(t, r.IsOwnedBy("user-1"))
	assert.False(t, r.IsOwnedBy("user-2"))
}

func TestReservation_InCancellationLockout(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{name: "2時間前はキャンセル可能", date: now.Add(2 * time.Hour), expected: false},
		{name: "ちょうど1時間前はキャンセル可能", date: now.Add(time.Hour), expected: false},
		{name: "30分前は禁止期間", date: now.Add(30 * time.Minute), expected: true},
		{name: "予約時刻を過ぎても禁止期間", date: now.Add(-time.Hour), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reservation{ReservationDate: tt.date}
			assert.Equal(t, tt.expected, r.InCancellationLockout(now))
		})
	}
}

func TestReservation_ConflictsWith(t *testing.T) {
	// 6月1日19時の既存予約
	existing := &Reservation{
		RestaurantID:    "rest-1",
		ReservationDate: time.Date(2025, 6, 1, 19, 0, 0, 0, time.Local),
	}

	tests := []struct {
		name         string
		restaurantID string
		date         time.Time
		expected     bool
	}{
		{
			name:         "同一レストラン・同一日・別時刻は衝突",
			restaurantID: "rest-1",
			date:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local),
			expected:     true,
		},
		{
			name:         "同一レストラン・翌日は衝突しない",
			restaurantID: "rest-1",
			date:         time.Date(2025, 6, 2, 19, 0, 0, 0, time.Local),
			expected:     false,
		},
		{
			name:         "別レストラン・同一日は衝突しない",
			restaurantID: "rest-2",
			date:         time.Date(2025, 6, 1, 19, 0, 0, 0, time.Local),
			expected:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, existing.ConflictsWith(tt.restaurantID, tt.date))
		})
	}
}

func TestDayBounds(t *testing.T) {
	// Act
	start, end := DayBounds(time.Date(2025, 6, 1, 15, 30, 45, 0, time.Local))

	// Assert
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, 6, 1, 23, 59, 59, 999000000, time.Local), end)
}
