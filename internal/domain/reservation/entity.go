package reservation

import "time"

// MaxActiveReservations は一般ユーザーが同時に保持できる予約数の上限
const MaxActiveReservations = 3

// CancellationLockout は予約時刻前のキャンセル禁止期間
const CancellationLockout = time.Hour

// DefaultQuantity は人数未指定時の既定値
const DefaultQuantity = 1

// Reservation は予約エンティティを表す
// RestaurantName は作成時点のレストラン名の非正規化コピーで、後のレストラン名変更には追随しない
type Reservation struct {
	ID              string
	UserID          string
	RestaurantID    string
	RestaurantName  string
	ReservationDate time.Time
	Quantity        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewReservation は新しい予約を作成する。quantityが0以下の場合は既定値1を使う
func NewReservation(userID, restaurantID, restaurantName string, date time.Time, quantity int) *Reservation {
	if quantity <= 0 {
		quantity = DefaultQuantity
	}
	now := time.Now()
	return &Reservation{
		UserID:          userID,
		RestaurantID:    restaurantID,
		RestaurantName:  restaurantName,
		ReservationDate: date,
		Quantity:        quantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.RestaurantID == "" {
		return ErrRestaurantIDRequired
	}
	if r.ReservationDate.IsZero() {
		return ErrReservationDateRequired
	}
	return nil
}

// IsOwnedBy は指定ユーザーがこの予約の所有者かを返す
func (r *Reservation) IsOwnedBy(userID string) bool {
	return r.UserID == userID
}

// InCancellationLockout はキャンセル禁止期間に入っているかを返す
// 予約時刻を過ぎている場合も禁止期間として扱う
func (r *Reservation) InCancellationLockout(now time.Time) bool {
	return r.ReservationDate.Sub(now) < CancellationLockout
}

// ConflictsWith は同一レストラン・同一暦日の予約と衝突するかを返す
func (r *Reservation) ConflictsWith(restaurantID string, date time.Time) bool {
	if r.RestaurantID != restaurantID {
		return false
	}
	start, end := DayBounds(date)
	return !r.ReservationDate.Before(start) && !r.ReservationDate.After(end)
}

// DayBounds は指定日時を含む暦日の境界 [当日0時, 当日23:59:59.999] をローカル時刻で返す
func DayBounds(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}
