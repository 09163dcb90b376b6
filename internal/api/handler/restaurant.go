package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/restaurant"
)

type RestaurantHandler struct {
	service RestaurantServiceInterface
}

func NewRestaurantHandler(s RestaurantServiceInterface) *RestaurantHandler {
	return &RestaurantHandler{service: s}
}

type CreateRestaurantRequest struct {
	Name        string  `json:"name" validate:"required" example:"すし処さの"`
	Address     string  `json:"address" example:"東京都渋谷区1-2-3"`
	PhoneNumber string  `json:"phone_number" example:"03-1234-5678"`
	OpenTime    *string `json:"open_time,omitempty" validate:"omitempty,clocktime" example:"11:00"`
	CloseTime   *string `json:"close_time,omitempty" validate:"omitempty,clocktime" example:"22:00"`
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name,omitempty" example:"すし処さの 本店"`
	Address     *string `json:"address,omitempty" example:"東京都渋谷区1-2-3"`
	PhoneNumber *string `json:"phone_number,omitempty" example:"03-1234-5678"`
	OpenTime    *string `json:"open_time,omitempty" validate:"omitempty,clocktime" example:"11:00"`
	CloseTime   *string `json:"close_time,omitempty" validate:"omitempty,clocktime" example:"22:00"`
}

type RestaurantResponse struct {
	ID          string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string    `json:"name" example:"すし処さの"`
	Address     string    `json:"address,omitempty" example:"東京都渋谷区1-2-3"`
	PhoneNumber string    `json:"phone_number,omitempty" example:"03-1234-5678"`
	OpenTime    string    `json:"open_time,omitempty" example:"11:00"`
	CloseTime   string    `json:"close_time,omitempty" example:"22:00"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RestaurantDetailResponse struct {
	RestaurantResponse
	Tables           []TableResponse `json:"tables"`
	ReservationCount int             `json:"reservation_count" example:"12"`
}

func toRestaurantResponse(r *restaurant.Restaurant) RestaurantResponse {
	resp := RestaurantResponse{
		ID: r.ID, Name: r.Name,
		Address: r.Address, PhoneNumber: r.PhoneNumber,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if r.OpenTime != nil {
		resp.OpenTime = r.OpenTime.UTC().Format("15:04")
	}
	if r.CloseTime != nil {
		resp.CloseTime = r.CloseTime.UTC().Format("15:04")
	}
	return resp
}

func toRestaurantDetailResponse(d *application.RestaurantDetail) RestaurantDetailResponse {
	tables := make([]TableResponse, len(d.Tables))
	for i, t := range d.Tables {
		tables[i] = toTableResponse(t)
	}
	return RestaurantDetailResponse{
		RestaurantResponse: toRestaurantResponse(d.Restaurant),
		Tables:             tables,
		ReservationCount:   d.ReservationCount,
	}
}

// Create godoc
// @Summary レストランを登録
// @Description 新しいレストランを登録します
// @Tags restaurants
// @Accept json
// @Produce json
// @Param request body CreateRestaurantRequest true "レストラン情報"
// @Success 201 {object} RestaurantResponse
// @Failure 400 {object} map[string]string
// @Router /restaurants [post]
func (h *RestaurantHandler) Create(c echo.Context) error {
	var req CreateRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, restaurant.ErrRestaurantNameRequired.Error())
	}

	openTime, err := parseClockTime(req.OpenTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開店時刻の形式が不正です")
	}
	closeTime, err := parseClockTime(req.CloseTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "閉店時刻の形式が不正です")
	}

	r, err := h.service.CreateRestaurant(c.Request().Context(), application.CreateRestaurantInput{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		OpenTime:    openTime,
		CloseTime:   closeTime,
	})
	if err != nil {
		return restaurantError(err)
	}
	return c.JSON(http.StatusCreated, toRestaurantResponse(r))
}

// GetByID godoc
// @Summary レストラン詳細を取得
// @Description レストランをテーブル一覧・予約数つきで取得します
// @Tags restaurants
// @Produce json
// @Param id path string true "レストランID"
// @Success 200 {object} RestaurantDetailResponse
// @Failure 404 {object} map[string]string
// @Router /restaurants/{id} [get]
func (h *RestaurantHandler) GetByID(c echo.Context) error {
	d, err := h.service.GetRestaurantDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return restaurantError(err)
	}
	return c.JSON(http.StatusOK, toRestaurantDetailResponse(d))
}

// List godoc
// @Summary レストラン一覧を取得
// @Description レストラン一覧をテーブル・予約数つきで取得します
// @Tags restaurants
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} RestaurantDetailResponse
// @Router /restaurants [get]
func (h *RestaurantHandler) List(c echo.Context) error {
	limit, offset := paginationParams(c)
	details, err := h.service.ListRestaurantDetails(c.Request().Context(), limit, offset)
	if err != nil {
		return restaurantError(err)
	}
	resp := make([]RestaurantDetailResponse, len(details))
	for i, d := range details {
		resp[i] = toRestaurantDetailResponse(d)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary レストランを更新
// @Description レストラン情報を部分更新します
// @Tags restaurants
// @Accept json
// @Produce json
// @Param id path string true "レストランID"
// @Param request body UpdateRestaurantRequest true "更新内容"
// @Success 200 {object} RestaurantResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /restaurants/{id} [put]
func (h *RestaurantHandler) Update(c echo.Context) error {
	var req UpdateRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	openTime, err := parseClockTime(req.OpenTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開店時刻の形式が不正です")
	}
	closeTime, err := parseClockTime(req.CloseTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "閉店時刻の形式が不正です")
	}

	r, err := h.service.UpdateRestaurant(c.Request().Context(), application.UpdateRestaurantInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		OpenTime:    openTime,
		CloseTime:   closeTime,
	})
	if err != nil {
		return restaurantError(err)
	}
	return c.JSON(http.StatusOK, toRestaurantResponse(r))
}

// Delete godoc
// @Summary レストランを削除
// @Description レストランと関連するテーブル・予約をまとめて削除します
// @Tags restaurants
// @Produce json
// @Param id path string true "レストランID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /restaurants/{id} [delete]
func (h *RestaurantHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteRestaurant(c.Request().Context(), c.Param("id")); err != nil {
		return restaurantError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// parseClockTime は "15:04" 形式の時刻文字列をパースする。nilはnilのまま返す
func parseClockTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse("15:04", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func paginationParams(c echo.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func restaurantError(err error) error {
	switch {
	case errors.Is(err, restaurant.ErrRestaurantNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, restaurant.ErrRestaurantNameRequired),
		errors.Is(err, restaurant.ErrIncompleteOperatingHours):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "レストラン処理に失敗しました")
	}
}
