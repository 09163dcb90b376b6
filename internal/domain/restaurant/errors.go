package restaurant

import "errors"

// Restaurant ドメインのエラー定義
var (
	ErrRestaurantNotFound       = errors.New("レストランが見つかりません")
	ErrRestaurantNameRequired   = errors.New("レストラン名は必須です")
	ErrIncompleteOperatingHours = errors.New("開店時刻と閉店時刻は両方指定する必要があります")
	ErrOutsideOperatingHours    = errors.New("営業時間外の予約はできません")
)
