package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/application"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/movie"
)

type MovieHandler struct {
	service MovieServiceInterface
}

func NewMovieHandler(s MovieServiceInterface) *MovieHandler {
	return &MovieHandler{service: s}
}

type CreateMovieRequest struct {
	Title       string    `json:"title" validate:"required" example:"仮面の告白"`
	Genre       string    `json:"genre" example:"drama"`
	DurationMin int       `json:"duration_min" validate:"required,gt=0" example:"128"`
	ReleaseDate time.Time `json:"release_date" validate:"required"`
	Available   bool      `json:"available" example:"true"`
}

type UpdateMovieRequest struct {
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	DurationMin int       `json:"duration_min" validate:"omitempty,gt=0"`
	ReleaseDate time.Time `json:"release_date"`
	Available   *bool     `json:"available"`
}

type MovieResponse struct {
	ID          string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title       string    `json:"title" example:"仮面の告白"`
	Genre       string    `json:"genre,omitempty" example:"drama"`
	DurationMin int       `json:"duration_min" example:"128"`
	ReleaseDate time.Time `json:"release_date"`
	Available   bool      `json:"available" example:"true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toMovieResponse(m *movie.Movie) MovieResponse {
	return MovieResponse{
		ID:          m.ID,
		Title:       m.Title,
		Genre:       m.Genre,
		DurationMin: m.DurationMin,
		ReleaseDate: m.ReleaseDate,
		Available:   m.Available,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Create godoc
// @Summary 映画を登録
// @Description 新しい映画をカタログに登録します
// @Tags movies
// @Accept json
// @Produce json
// @Param request body CreateMovieRequest true "映画情報"
// @Success 201 {object} MovieResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "同名の映画が既に存在"
// @Router /movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var req CreateMovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m, err := h.service.CreateMovie(c.Request().Context(), application.CreateMovieInput{
		Title:       req.Title,
		Genre:       req.Genre,
		DurationMin: req.DurationMin,
		ReleaseDate: req.ReleaseDate,
		Available:   req.Available,
	})
	if err != nil {
		if errors.Is(err, movie.ErrTitleTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toMovieResponse(m))
}

// GetByID godoc
// @Summary 映画を取得
// @Description 指定IDの映画を取得します
// @Tags movies
// @Produce json
// @Param id path string true "映画ID"
// @Success 200 {object} MovieResponse
// @Failure 404 {object} map[string]string
// @Router /movies/{id} [get]
func (h *MovieHandler) GetByID(c echo.Context) error {
	id := c.Param("id")
	m, err := h.service.GetMovie(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toMovieResponse(m))
}

// List godoc
// @Summary 映画一覧を取得
// @Description 映画の一覧を取得します（available=true で公開中のみ）
// @Tags movies
// @Produce json
// @Param available query bool false "公開中のみ" default(false)
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} MovieResponse
// @Router /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	onlyAvailable, _ := strconv.ParseBool(c.QueryParam("available"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	movies, err := h.service.ListMovies(c.Request().Context(), onlyAvailable, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]MovieResponse, len(movies))
	for i, m := range movies {
		resp[i] = toMovieResponse(m)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 映画を更新
// @Description 映画の情報を更新します（省略したフィールドは据え置き）
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "映画ID"
// @Param request body UpdateMovieRequest true "更新情報"
// @Success 200 {object} MovieResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /movies/{id} [put]
func (h *MovieHandler) Update(c echo.Context) error {
	var req UpdateMovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m, err := h.service.UpdateMovie(c.Request().Context(), application.UpdateMovieInput{
		ID:          c.Param("id"),
		Title:       req.Title,
		Genre:       req.Genre,
		DurationMin: req.DurationMin,
		ReleaseDate: req.ReleaseDate,
		Available:   req.Available,
	})
	if err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if errors.Is(err, movie.ErrTitleTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toMovieResponse(m))
}

// Delete godoc
// @Summary 映画を削除
// @Description 映画と関連する上映回を削除します
// @Tags movies
// @Param id path string true "映画ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /movies/{id} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.DeleteMovie(c.Request().Context(), id); err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
