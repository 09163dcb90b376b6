package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/identity"
)

// HeaderUserID と HeaderUserRole は認証基盤が解決済みの呼び出し元情報を渡すヘッダー
// トークン検証そのものは外部（APIゲートウェイ等）の責務
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const principalContextKey = "principal"

// RequirePrincipal は呼び出し元情報を検証してコンテキストに格納するミドルウェア
// X-User-ID がない場合は401を返す。ロール未指定・未知ロールは user として扱う
func RequirePrincipal() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(HeaderUserID)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
			}
			role := identity.ParseRole(c.Request().Header.Get(HeaderUserRole))
			SetPrincipal(c, identity.Principal{UserID: userID, Role: role})
			return next(c)
		}
	}
}

// SetPrincipal は呼び出し元情報をコンテキストに格納する
func SetPrincipal(c echo.Context, p identity.Principal) {
	c.Set(principalContextKey, p)
}

// PrincipalFrom はコンテキストから呼び出し元情報を取り出す
func PrincipalFrom(c echo.Context) (identity.Principal, bool) {
	p, ok := c.Get(principalContextKey).(identity.Principal)
	return p, ok
}
