package table

import "errors"

// Table ドメインのエラー定義
var (
	ErrTableNotFound        = errors.New("テーブルが見つかりません")
	ErrRestaurantIDRequired = errors.New("レストランIDは必須です")
	ErrInvalidCapacity      = errors.New("席数は1以上である必要があります")
	ErrInvalidStatus        = errors.New("テーブル状態の指定が不正です")
)
