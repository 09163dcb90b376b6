package handler

import (
	"context"

	"github.com/sanosuguru/go-restaurant-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/identity"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/restaurant"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/table"
)

// RestaurantServiceInterface はレストランサービスのインターフェース
type RestaurantServiceInterface interface {
	CreateRestaurant(ctx context.Context, input application.CreateRestaurantInput) (*restaurant.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*restaurant.Restaurant, error)
	GetRestaurantDetail(ctx context.Context, id string) (*application.RestaurantDetail, error)
	ListRestaurants(ctx context.Context, limit, offset int) ([]*restaurant.Restaurant, error)
	ListRestaurantDetails(ctx context.Context, limit, offset int) ([]*application.RestaurantDetail, error)
	UpdateRestaurant(ctx context.Context, input application.UpdateRestaurantInput) (*restaurant.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id string) error
}

// TableServiceInterface はテーブルサービスのインターフェース
type TableServiceInterface interface {
	CreateTable(ctx context.Context, input application.CreateTableInput) (*table.Table, error)
	GetTable(ctx context.Context, id string) (*table.Table, error)
	ListTables(ctx context.Context, restaurantID string) ([]*table.Table, error)
	UpdateTable(ctx context.Context, input application.UpdateTableInput) (*table.Table, error)
	DeleteTable(ctx context.Context, id string) error
}

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, p identity.Principal, input application.CreateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, p identity.Principal, id string) (*reservation.Reservation, error)
	ListReservations(ctx context.Context, p identity.Principal, restaurantID string) ([]*reservation.Reservation, error)
	UpdateReservation(ctx context.Context, p identity.Principal, id string, input application.UpdateReservationInput) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, p identity.Principal, id string) error
}
