package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/application"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/user"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	ScreeningID string   `json:"screening_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Seats       []string `json:"seats" validate:"required,min=1" example:"A1,A2"`
}

type CancelBookingRequest struct {
	// Seats が省略された場合は予約全体をキャンセルする
	Seats []string `json:"seats"`
}

type BookingResponse struct {
	Index       int       `json:"index" example:"0"`
	MovieID     string    `json:"movie_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ScreeningID string    `json:"screening_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Seats       []string  `json:"seats" example:"A1,A2"`
	ShowsAt     time.Time `json:"shows_at"`
}

type CancelBookingResponse struct {
	Released []string `json:"released" example:"A1,A2"`
}

func toBookingResponse(index int, b user.Booking) BookingResponse {
	return BookingResponse{
		Index:       index,
		MovieID:     b.MovieID,
		ScreeningID: b.ScreeningID,
		Seats:       b.Seats,
		ShowsAt:     b.ShowsAt,
	}
}

// currentUserID はJWTミドルウェアが設定したユーザーIDを取り出す
func currentUserID(c echo.Context) (string, error) {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
	}
	return userID, nil
}

// Create godoc
// @Summary 座席を予約
// @Description 上映回の座席を予約します
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string "座席指定が不正"
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string "上映回が存在しない"
// @Failure 409 {object} map[string]string "座席が既に予約済み・上映開始済み"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.service.Reserve(c.Request().Context(), req.ScreeningID, userID, req.Seats)
	if err != nil {
		return bookingErrorToHTTP(err)
	}

	// 予約番号は履歴の末尾位置になる
	bookings, listErr := h.service.ListBookings(c.Request().Context(), userID)
	index := 0
	if listErr == nil && len(bookings) > 0 {
		index = len(bookings) - 1
	}
	return c.JSON(http.StatusCreated, toBookingResponse(index, *booking))
}

// List godoc
// @Summary 予約一覧を取得
// @Description ログインユーザーの予約履歴を予約順で取得します
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BookingResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookings, err := h.service.ListBookings(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(i, b)
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約番号で指定した予約の座席を解放します（seats省略時は全席）
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param index path int true "予約番号（0始まり）"
// @Param request body CancelBookingRequest false "キャンセルする座席"
// @Success 200 {object} CancelBookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string "予約が存在しない"
// @Router /bookings/{index}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "予約番号が不正です")
	}

	var req CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	released, err := h.service.Cancel(c.Request().Context(), userID, index, req.Seats)
	if err != nil {
		return bookingErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, CancelBookingResponse{Released: released})
}

// bookingErrorToHTTP は予約系のドメインエラーをHTTPステータスに対応付ける
func bookingErrorToHTTP(err error) error {
	var (
		unknownErr     *application.UnknownSeatsError
		unavailableErr *application.UnavailableSeatsError
		foreignErr     *application.ForeignSeatsError
	)
	switch {
	case errors.As(err, &unknownErr),
		errors.As(err, &foreignErr),
		errors.Is(err, application.ErrNoSeatsSelected):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &unavailableErr),
		errors.Is(err, screening.ErrScreeningClosed),
		errors.Is(err, application.ErrSeatsBusy):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, screening.ErrScreeningNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, user.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
