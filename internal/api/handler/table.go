package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-restaurant-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
)

type TableHandler struct {
	service TableServiceInterface
}

func NewTableHandler(s TableServiceInterface) *TableHandler {
	return &TableHandler{service: s}
}

type CreateTableRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Capacity     int    `json:"capacity" validate:"required,gt=0" example:"4"`
	Status       string `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE UNAVAILABLE" example:"AVAILABLE"`
}

type UpdateTableRequest struct {
	RestaurantID *string `json:"restaurant_id,omitempty"`
	Capacity     *int    `json:"capacity,omitempty" example:"6"`
	Status       *string `json:"status,omitempty" example:"UNAVAILABLE"`
}

type TableResponse struct {
	ID           string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	RestaurantID string    `json:"restaurant_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Capacity     int       `json:"capacity" example:"4"`
	Status       string    `json:"status" example:"AVAILABLE"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toTableResponse(t *table.Table) TableResponse {
	return TableResponse{
		ID:           t.ID,
		RestaurantID: t.RestaurantID,
		Capacity:     t.Capacity,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// Create godoc
// @Summary テーブルを登録
// @Description レストランに新しいテーブルを登録します
// @Tags tables
// @Accept json
// @Produce json
// @Param request body CreateTableRequest true "テーブル情報"
// @Success 201 {object} TableResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables [post]
func (h *TableHandler) Create(c echo.Context) error {
	var req CreateTableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := h.service.CreateTable(c.Request().Context(), application.CreateTableInput{
		RestaurantID: req.RestaurantID,
		Capacity:     req.Capacity,
		Status:       req.Status,
	})
	if err != nil {
		return tableError(err)
	}
	return c.JSON(http.StatusCreated, toTableResponse(t))
}

// GetByID godoc
// @Summary テーブルを取得
// @Tags tables
// @Produce json
// @Param id path string true "テーブルID"
// @Success 200 {object} TableResponse
// @Failure 404 {object} map[string]string
// @Router /tables/{id} [get]
func (h *TableHandler) GetByID(c echo.Context) error {
	t, err := h.service.GetTable(c.Request().Context(), c.Param("id"))
	if err != nil {
		return tableError(err)
	}
	return c.JSON(http.StatusOK, toTableResponse(t))
}

// List godoc
// @Summary テーブル一覧を取得
// @Tags tables
// @Produce json
// @Param restaurant_id query string false "レストランIDで絞り込み"
// @Success 200 {array} TableResponse
// @Router /tables [get]
func (h *TableHandler) List(c echo.Context) error {
	restaurantID := c.Param("restaurantId")
	if restaurantID == "" {
		restaurantID = c.QueryParam("restaurant_id")
	}

	tables, err := h.service.ListTables(c.Request().Context(), restaurantID)
	if err != nil {
		return tableError(err)
	}
	resp := make([]TableResponse, len(tables))
	for i, t := range tables {
		resp[i] = toTableResponse(t)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary テーブルを更新
// @Tags tables
// @Accept json
// @Produce json
// @Param id path string true "テーブルID"
// @Param request body UpdateTableRequest true "更新内容"
// @Success 200 {object} TableResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tables/{id} [put]
func (h *TableHandler) Update(c echo.Context) error {
	var req UpdateTableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	t, err := h.service.UpdateTable(c.Request().Context(), application.UpdateTableInput{
		ID:           c.Param("id"),
		RestaurantID: req.RestaurantID,
		Capacity:     req.Capacity,
		Status:       req.Status,
	})
	if err != nil {
		return tableError(err)
	}
	return c.JSON(http.StatusOK, toTableResponse(t))
}

// Delete godoc
// @Summary テーブルを削除
// @Tags tables
// @Produce json
// @Param id path string true "テーブルID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tables/{id} [delete]
func (h *TableHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteTable(c.Request().Context(), c.Param("id")); err != nil {
		return tableError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func tableError(err error) error {
	switch {
	case errors.Is(err, table.ErrTableNotFound),
		errors.Is(err, restaurant.ErrRestaurantNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, table.ErrRestaurantIDRequired),
		errors.Is(err, table.ErrInvalidCapacity),
		errors.Is(err, table.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "テーブル処理に失敗しました")
	}
}
