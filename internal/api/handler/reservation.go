package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-restaurant-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/restaurant"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type CreateReservationRequest struct {
	ReservationDate string      `json:"reservation_date" example:"2025-12-31T18:00:00+09:00"`
	Quantity        interface{} `json:"quantity" example:"2"`
}

type UpdateReservationRequest struct {
	ReservationDate *string `json:"reservation_date,omitempty" example:"2025-12-31T19:00:00+09:00"`
	RestaurantID    *string `json:"restaurant_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
}

type ReservationResponse struct {
	ID              string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID          string    `json:"user_id" example:"user-123"`
	RestaurantID    string    `json:"restaurant_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	RestaurantName  string    `json:"restaurant_name" example:"すし処さの"`
	ReservationDate time.Time `json:"reservation_date"`
	Quantity        int       `json:"quantity" example:"2"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID: r.ID, UserID: r.UserID,
		RestaurantID: r.RestaurantID, RestaurantName: r.RestaurantName,
		ReservationDate: r.ReservationDate, Quantity: r.Quantity,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// Create godoc
// @Summary 予約を作成
// @Description レストランに対する新しい予約を作成します
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param X-User-Role header string false "ロール（user/admin）"
// @Param restaurantId path string true "レストランID"
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /restaurants/{restaurantId}/reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}

	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if req.ReservationDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, reservation.ErrReservationDateRequired.Error())
	}
	date, err := time.Parse(time.RFC3339, req.ReservationDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "予約日時の形式が不正です")
	}

	r, err := h.service.CreateReservation(c.Request().Context(), p, application.CreateReservationInput{
		RestaurantID:    c.Param("restaurantId"),
		ReservationDate: date,
		Quantity:        coerceQuantity(req.Quantity),
	})
	if err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// GetByID godoc
// @Summary 予約を取得
// @Description 指定IDの予約を取得します（所有者または管理者のみ）
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	r, err := h.service.GetReservation(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// List godoc
// @Summary 予約一覧を取得
// @Description 管理者は全予約、一般ユーザーは自分の予約のみを取得します
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param restaurant_id query string false "レストランIDで絞り込み"
// @Success 200 {array} ReservationResponse
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}

	// ネストルート（/restaurants/:restaurantId/reservations）のパスパラメータを優先
	restaurantID := c.Param("restaurantId")
	if restaurantID == "" {
		restaurantID = c.QueryParam("restaurant_id")
	}

	reservations, err := h.service.ListReservations(c.Request().Context(), p, restaurantID)
	if err != nil {
		return reservationError(err)
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 予約を更新
// @Description 予約の日時・レストランを変更します（所有者または管理者のみ）
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Param request body UpdateReservationRequest true "更新内容"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}

	var req UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	input := application.UpdateReservationInput{RestaurantID: req.RestaurantID}
	if req.ReservationDate != nil {
		date, err := time.Parse(time.RFC3339, *req.ReservationDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "予約日時の形式が不正です")
		}
		input.ReservationDate = &date
	}

	r, err := h.service.UpdateReservation(c.Request().Context(), p, c.Param("id"), input)
	if err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約を削除します。一般ユーザーは予約時刻の1時間前までのみ可能です
// @Tags reservations
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param id path string true "予約ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	if err := h.service.CancelReservation(c.Request().Context(), p, c.Param("id")); err != nil {
		return reservationError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// coerceQuantity は人数フィールドを整数に変換する
// 未指定・数値以外は既定値1、数値は整数に切り捨てる（上限は設けない）
func coerceQuantity(v interface{}) int {
	switch q := v.(type) {
	case float64:
		return int(q)
	case string:
		if n, err := strconv.Atoi(q); err == nil {
			return n
		}
		return reservation.DefaultQuantity
	case nil:
		return reservation.DefaultQuantity
	default:
		return reservation.DefaultQuantity
	}
}

// reservationError はドメインエラーをHTTPエラーにマップする
// ビジネスルール違反は理由をそのまま返し、ストア障害は詳細を伏せて500にする
func reservationError(err error) error {
	switch {
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, restaurant.ErrRestaurantNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, reservation.ErrNotReservationOwner):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, reservation.ErrReservationDateRequired),
		errors.Is(err, reservation.ErrReservationDateNotFuture),
		errors.Is(err, restaurant.ErrOutsideOperatingHours),
		errors.Is(err, reservation.ErrQuotaExceeded),
		errors.Is(err, reservation.ErrDuplicateReservation),
		errors.Is(err, reservation.ErrCancellationLockedOut):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "予約処理に失敗しました")
	}
}
