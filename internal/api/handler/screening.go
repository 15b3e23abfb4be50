package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/application"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/movie"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
)

type ScreeningHandler struct {
	service ScreeningServiceInterface
}

func NewScreeningHandler(s ScreeningServiceInterface) *ScreeningHandler {
	return &ScreeningHandler{service: s}
}

type CreateScreeningRequest struct {
	MovieID     string    `json:"movie_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	TotalSeats  int       `json:"total_seats" validate:"required,gt=0" example:"50"`
	SeatsPerRow int       `json:"seats_per_row" validate:"omitempty,gt=0" example:"10"`
}

type UpdateScreeningRequest struct {
	MovieID    string    `json:"movie_id"`
	StartsAt   time.Time `json:"starts_at"`
	TotalSeats int       `json:"total_seats" validate:"omitempty,gt=0"`
}

type ScreeningResponse struct {
	ID             string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	MovieID        string    `json:"movie_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	StartsAt       time.Time `json:"starts_at"`
	TotalSeats     int       `json:"total_seats" example:"50"`
	AvailableCount int       `json:"available_count" example:"48"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type AvailableSeatsResponse struct {
	ScreeningID string   `json:"screening_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Seats       []string `json:"seats" example:"A1,A2,B3"`
	Count       int      `json:"count" example:"3"`
}

func toScreeningResponse(s *screening.Screening) ScreeningResponse {
	return ScreeningResponse{
		ID:             s.ID,
		MovieID:        s.MovieID,
		StartsAt:       s.StartsAt,
		TotalSeats:     s.TotalSeats,
		AvailableCount: s.AvailableCount(),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// Create godoc
// @Summary 上映回を作成
// @Description 全席空きの座席マップ付きで上映回を作成します
// @Tags screenings
// @Accept json
// @Produce json
// @Param request body CreateScreeningRequest true "上映回情報"
// @Success 201 {object} ScreeningResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "映画が存在しない"
// @Router /screenings [post]
func (h *ScreeningHandler) Create(c echo.Context) error {
	var req CreateScreeningRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.service.CreateScreening(c.Request().Context(), application.CreateScreeningInput{
		MovieID:     req.MovieID,
		StartsAt:    req.StartsAt,
		TotalSeats:  req.TotalSeats,
		SeatsPerRow: req.SeatsPerRow,
	})
	if err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toScreeningResponse(s))
}

// GetByID godoc
// @Summary 上映回を取得
// @Description 指定IDの上映回を取得します
// @Tags screenings
// @Produce json
// @Param id path string true "上映回ID"
// @Success 200 {object} ScreeningResponse
// @Failure 404 {object} map[string]string
// @Router /screenings/{id} [get]
func (h *ScreeningHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	s, err := h.service.GetScreening(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, screening.ErrScreeningNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toScreeningResponse(s))
}

// List godoc
// @Summary 上映回一覧を取得
// @Description 上映回の一覧を開始日時順で取得します
// @Tags screenings
// @Produce json
// @Param movie_id query string false "映画IDで絞り込み（未来の上映回のみ）"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ScreeningResponse
// @Router /screenings [get]
func (h *ScreeningHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		screenings []*screening.Screening
		err        error
	)
	if movieID := c.QueryParam("movie_id"); movieID != "" {
		screenings, err = h.service.ListUpcomingByMovie(ctx, movieID)
	} else {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		screenings, err = h.service.ListScreenings(ctx, limit, offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]ScreeningResponse, len(screenings))
	for i, s := range screenings {
		resp[i] = toScreeningResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// AvailableSeats godoc
// @Summary 空席一覧を取得
// @Description 上映回の空席ラベルを行・列順で取得します
// @Tags screenings
// @Produce json
// @Param id path string true "上映回ID"
// @Success 200 {object} AvailableSeatsResponse
// @Failure 404 {object} map[string]string
// @Router /screenings/{id}/seats [get]
func (h *ScreeningHandler) AvailableSeats(c echo.Context) error {
	id := c.Param("id")
	seats, err := h.service.AvailableSeats(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, screening.ErrScreeningNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, AvailableSeatsResponse{
		ScreeningID: id,
		Seats:       seats,
		Count:       len(seats),
	})
}

// CountAvailableSeats godoc
// @Summary 空席数を取得
// @Description 上映回の空席数を取得します（キャッシュ併用）
// @Tags screenings
// @Produce json
// @Param id path string true "上映回ID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string
// @Router /screenings/{id}/seats/count [get]
func (h *ScreeningHandler) CountAvailableSeats(c echo.Context) error {
	id := c.Param("id")
	count, err := h.service.CountAvailableSeats(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, screening.ErrScreeningNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

// Update godoc
// @Summary 上映回を更新
// @Description 上映回の映画・日時・座席数を更新します（保持中の座席は削除不可）
// @Tags screenings
// @Accept json
// @Produce json
// @Param id path string true "上映回ID"
// @Param request body UpdateScreeningRequest true "更新情報"
// @Success 200 {object} ScreeningResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "保持中の座席を削除しようとした"
// @Router /screenings/{id} [put]
func (h *ScreeningHandler) Update(c echo.Context) error {
	var req UpdateScreeningRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s, err := h.service.UpdateScreening(c.Request().Context(), application.UpdateScreeningInput{
		ID:         c.Param("id"),
		MovieID:    req.MovieID,
		StartsAt:   req.StartsAt,
		TotalSeats: req.TotalSeats,
	})
	if err != nil {
		if errors.Is(err, screening.ErrScreeningNotFound) || errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if errors.Is(err, screening.ErrSeatHeld) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toScreeningResponse(s))
}

// Delete godoc
// @Summary 上映回を削除
// @Description 上映回を削除します
// @Tags screenings
// @Param id path string true "上映回ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /screenings/{id} [delete]
func (h *ScreeningHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.DeleteScreening(c.Request().Context(), id); err != nil {
		if errors.Is(err, screening.ErrScreeningNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
