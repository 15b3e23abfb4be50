package handler

import (
	"context"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/application"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/movie"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/user"
)

// AuthServiceInterface は認証サービスのインターフェース
type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string) (*user.User, error)
	Login(ctx context.Context, username, password string) (string, *user.User, error)
}

// MovieServiceInterface は映画サービスのインターフェース
type MovieServiceInterface interface {
	CreateMovie(ctx context.Context, input application.CreateMovieInput) (*movie.Movie, error)
	GetMovie(ctx context.Context, id string) (*movie.Movie, error)
	ListMovies(ctx context.Context, onlyAvailable bool, limit, offset int) ([]*movie.Movie, error)
	UpdateMovie(ctx context.Context, input application.UpdateMovieInput) (*movie.Movie, error)
	DeleteMovie(ctx context.Context, id string) error
}

// ScreeningServiceInterface は上映回サービスのインターフェース
type ScreeningServiceInterface interface {
	CreateScreening(ctx context.Context, input application.CreateScreeningInput) (*screening.Screening, error)
	GetScreening(ctx context.Context, id string) (*screening.Screening, error)
	ListScreenings(ctx context.Context, limit, offset int) ([]*screening.Screening, error)
	ListUpcomingByMovie(ctx context.Context, movieID string) ([]*screening.Screening, error)
	AvailableSeats(ctx context.Context, screeningID string) ([]string, error)
	CountAvailableSeats(ctx context.Context, screeningID string) (int, error)
	UpdateScreening(ctx context.Context, input application.UpdateScreeningInput) (*screening.Screening, error)
	DeleteScreening(ctx context.Context, id string) error
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	Reserve(ctx context.Context, screeningID, userID string, seatLabels []string) (*user.Booking, error)
	Cancel(ctx context.Context, userID string, bookingIndex int, seatLabels []string) ([]string, error)
	ListBookings(ctx context.Context, userID string) ([]user.Booking, error)
}
