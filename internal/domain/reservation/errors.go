package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound      = errors.New("予約が見つかりません")
	ErrReservationDateRequired  = errors.New("予約日時は必須です")
	ErrReservationDateNotFuture = errors.New("予約日時は未来である必要があります")
	ErrQuotaExceeded            = errors.New("予約数が上限の3件に達しています")
	ErrDuplicateReservation     = errors.New("同じレストランに同じ日の予約が既に存在します")
	ErrCancellationLockedOut    = errors.New("予約時刻の1時間前を過ぎているためキャンセルできません")
	ErrNotReservationOwner      = errors.New("この予約を操作する権限がありません")
	ErrUserIDRequired           = errors.New("ユーザーIDは必須です")
	ErrRestaurantIDRequired     = errors.New("レストランIDは必須です")
)
