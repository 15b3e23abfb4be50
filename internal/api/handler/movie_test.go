package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/application"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/movie"
)

// MockMovieService はMovieServiceInterfaceのモック
type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) CreateMovie(ctx context.Context, input application.CreateMovieInput) (*movie.Movie, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieService) GetMovie(ctx context.Context, id string) (*movie.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieService) ListMovies(ctx context.Context, onlyAvailable bool, limit, offset int) ([]*movie.Movie, error) {
	args := m.Called(ctx, onlyAvailable, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*movie.Movie), args.Error(1)
}

func (m *MockMovieService) UpdateMovie(ctx context.Context, input application.UpdateMovieInput) (*movie.Movie, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieService) DeleteMovie(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestMovie() *movie.Movie {
	return &movie.Movie{
		ID:          "movie-123",
		Title:       "仮面の告白",
		Genre:       "drama",
		DurationMin: 128,
		ReleaseDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Available:   true,
	}
}

func TestMovieHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に映画を登録できる", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("CreateMovie", mock.Anything, mock.MatchedBy(func(in application.CreateMovieInput) bool {
			return in.Title == "仮面の告白" && in.DurationMin == 128
		})).Return(newTestMovie(), nil)

		handler := NewMovieHandler(mockService)

		reqBody := `{"title": "仮面の告白", "genre": "drama", "duration_min": 128, "release_date": "2026-09-01T00:00:00Z", "available": true}`
		req := httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp MovieResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "movie-123", resp.ID)
		assert.Equal(t, "仮面の告白", resp.Title)

		mockService.AssertExpectations(t)
	})

	t.Run("同名の映画が既に存在する場合409", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("CreateMovie", mock.Anything, mock.Anything).
			Return(nil, movie.ErrTitleTaken)

		handler := NewMovieHandler(mockService)

		reqBody := `{"title": "仮面の告白", "duration_min": 128, "release_date": "2026-09-01T00:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})

	t.Run("上映時間が0の場合400", func(t *testing.T) {
		mockService := new(MockMovieService)
		handler := NewMovieHandler(mockService)

		reqBody := `{"title": "仮面の告白", "duration_min": 0, "release_date": "2026-09-01T00:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockService.AssertNotCalled(t, "CreateMovie")
	})
}

func TestMovieHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に映画を取得できる", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("GetMovie", mock.Anything, "movie-123").Return(newTestMovie(), nil)

		handler := NewMovieHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/movies/movie-123", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("movie-123")

		err := handler.GetByID(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("存在しない映画の場合404", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("GetMovie", mock.Anything, "gone").
			Return(nil, movie.ErrMovieNotFound)

		handler := NewMovieHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/movies/gone", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("gone")

		err := handler.GetByID(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestMovieHandler_List(t *testing.T) {
	e := NewTestEcho()

	t.Run("available指定で公開中のみ取得する", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("ListMovies", mock.Anything, true, 0, 0).
			Return([]*movie.Movie{newTestMovie()}, nil)

		handler := NewMovieHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/movies?available=true", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []MovieResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		require.Len(t, resp, 1)

		mockService.AssertExpectations(t)
	})
}

func TestMovieHandler_Update(t *testing.T) {
	e := NewTestEcho()

	t.Run("availableをfalseに更新できる", func(t *testing.T) {
		mockService := new(MockMovieService)
		updated := newTestMovie()
		updated.Available = false
		mockService.On("UpdateMovie", mock.Anything, mock.MatchedBy(func(in application.UpdateMovieInput) bool {
			return in.ID == "movie-123" && in.Available != nil && !*in.Available
		})).Return(updated, nil)

		handler := NewMovieHandler(mockService)

		reqBody := `{"available": false}`
		req := httptest.NewRequest(http.MethodPut, "/movies/movie-123", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("movie-123")

		err := handler.Update(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp MovieResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.False(t, resp.Available)

		mockService.AssertExpectations(t)
	})
}

func TestMovieHandler_Delete(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に映画を削除できる", func(t *testing.T) {
		mockService := new(MockMovieService)
		mockService.On("DeleteMovie", mock.Anything, "movie-123").Return(nil)

		handler := NewMovieHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/movies/movie-123", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("movie-123")

		err := handler.Delete(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockService.AssertExpectations(t)
	})
}
