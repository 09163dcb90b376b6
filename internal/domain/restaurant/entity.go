package restaurant

import "time"

// Restaurant はレストランエンティティを表す
// OpenTime/CloseTime は日付を持たない営業時刻で、UTCの壁時計として保持する
// ドライバが別タイムゾーンで返しても UTC() に正規化すれば元の時分に戻る
type Restaurant struct {
	ID          string
	Name        string
	Address     string
	PhoneNumber string
	OpenTime    *time.Time
	CloseTime   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRestaurant は新しいレストランを作成する
func NewRestaurant(name, address, phoneNumber string, openTime, closeTime *time.Time) *Restaurant {
	now := time.Now()
	return &Restaurant{
		Name:        name,
		Address:     address,
		PhoneNumber: phoneNumber,
		OpenTime:    openTime,
		CloseTime:   closeTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate はレストランの検証を行う
func (r *Restaurant) Validate() error {
	if r.Name == "" {
		return ErrRestaurantNameRequired
	}
	if (r.OpenTime == nil) != (r.CloseTime == nil) {
		return ErrIncompleteOperatingHours
	}
	return nil
}

// HasOperatingHours は開店・閉店時刻の両方が定義されているかを返す
func (r *Restaurant) HasOperatingHours() bool {
	return r.OpenTime != nil && r.CloseTime != nil
}

// IsWithinOperatingHours は指定時刻の時分が営業時間内 [open, close] に収まるかを返す
// 比較は分単位の時刻（時×60+分）のみで行い、日付成分は無視する
func (r *Restaurant) IsWithinOperatingHours(t time.Time) bool {
	if !r.HasOperatingHours() {
		return true
	}
	m := MinuteOfDay(t)
	return m >= MinuteOfDay(r.OpenTime.UTC()) && m <= MinuteOfDay(r.CloseTime.UTC())
}

// OperatingHoursLabel は "08:00〜16:00" 形式の営業時間表記を返す
// 営業時間未定義の場合は空文字列
func (r *Restaurant) OperatingHoursLabel() string {
	if !r.HasOperatingHours() {
		return ""
	}
	return r.OpenTime.UTC().Format("15:04") + "〜" + r.CloseTime.UTC().Format("15:04")
}

// MinuteOfDay は時刻を分単位の時刻（0〜1439）に変換する。秒以下は切り捨て
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
