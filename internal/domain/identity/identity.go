package identity

// Role は呼び出し元の権限クラスを表す
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole は文字列からRoleを解決する。未知の値はRoleUserとして扱う
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Principal は認証済みの呼び出し元を表す
// 認証・トークン検証は外部（トランスポート層）の責務で、ここでは解決済みの結果のみを受け取る
type Principal struct {
	UserID string
	Role   Role
}

// IsExemptFromQuota は予約数上限の対象外かを返す
func (r Role) IsExemptFromQuota() bool {
	return r == RoleAdmin
}

// IsExemptFromOwnership は所有者チェックの対象外かを返す
func (r Role) IsExemptFromOwnership() bool {
	return r == RoleAdmin
}

// IsExemptFromCancellationLockout はキャンセル期限の対象外かを返す
func (r Role) IsExemptFromCancellationLockout() bool {
	return r == RoleAdmin
}

// 同一日重複ルールには免除が存在しない（管理者も対象）
// ルールごとの免除範囲を監査しやすくするため、ここに明示的な免除メソッドを置かないことで表現している
