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
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
)

// MockScreeningService はScreeningServiceInterfaceのモック
type MockScreeningService struct {
	mock.Mock
}

func (m *MockScreeningService) CreateScreening(ctx context.Context, input application.CreateScreeningInput) (*screening.Screening, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*screening.Screening), args.Error(1)
}

func (m *MockScreeningService) GetScreening(ctx context.Context, id string) (*screening.Screening, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*screening.Screening), args.Error(1)
}

func (m *MockScreeningService) ListScreenings(ctx context.Context, limit, offset int) ([]*screening.Screening, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*screening.Screening), args.Error(1)
}

func (m *MockScreeningService) ListUpcomingByMovie(ctx context.Context, movieID string) ([]*screening.Screening, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*screening.Screening), args.Error(1)
}

func (m *MockScreeningService) AvailableSeats(ctx context.Context, screeningID string) ([]string, error) {
	args := m.Called(ctx, screeningID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockScreeningService) CountAvailableSeats(ctx context.Context, screeningID string) (int, error) {
	args := m.Called(ctx, screeningID)
	return args.Int(0), args.Error(1)
}

func (m *MockScreeningService) UpdateScreening(ctx context.Context, input application.UpdateScreeningInput) (*screening.Screening, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*screening.Screening), args.Error(1)
}

func (m *MockScreeningService) DeleteScreening(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestScreeningEntity(t *testing.T) *screening.Screening {
	t.Helper()
	s, err := screening.NewScreening("movie-123", time.Now().Add(24*time.Hour), 10, 5)
	require.NoError(t, err)
	s.ID = "screening-123"
	return s
}

func TestScreeningHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に上映回を作成できる", func(t *testing.T) {
		mockService := new(MockScreeningService)
		s := newTestScreeningEntity(t)
		mockService.On("CreateScreening", mock.Anything, mock.MatchedBy(func(in application.CreateScreeningInput) bool {
			return in.MovieID == "movie-123" && in.TotalSeats == 10 && in.SeatsPerRow == 5
		})).Return(s, nil)

		handler := NewScreeningHandler(mockService)

		reqBody := `{"movie_id": "movie-123", "starts_at": "2026-09-01T19:00:00Z", "total_seats": 10, "seats_per_row": 5}`
		req := httptest.NewRequest(http.MethodPost, "/screenings", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp ScreeningResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "screening-123", resp.ID)
		assert.Equal(t, 10, resp.TotalSeats)
		assert.Equal(t, 10, resp.AvailableCount)

		mockService.AssertExpectations(t)
	})

	t.Run("映画が存在しない場合404", func(t *testing.T) {
		mockService := new(MockScreeningService)
		mockService.On("CreateScreening", mock.Anything, mock.Anything).
			Return(nil, movie.ErrMovieNotFound)

		handler := NewScreeningHandler(mockService)

		reqBody := `{"movie_id": "gone", "starts_at": "2026-09-01T19:00:00Z", "total_seats": 10}`
		req := httptest.NewRequest(http.MethodPost, "/screenings", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("座席数が0の場合400", func(t *testing.T) {
		mockService := new(MockScreeningService)
		handler := NewScreeningHandler(mockService)

		reqBody := `{"movie_id": "movie-123", "starts_at": "2026-09-01T19:00:00Z", "total_seats": 0}`
		req := httptest.NewRequest(http.MethodPost, "/screenings", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockService.AssertNotCalled(t, "CreateScreening")
	})
}

func TestScreeningHandler_List(t *testing.T) {
	e := NewTestEcho()

	t.Run("movie_id指定時は未来の上映回のみ取得する", func(t *testing.T) {
		mockService := new(MockScreeningService)
		s := newTestScreeningEntity(t)
		mockService.On("ListUpcomingByMovie", mock.Anything, "movie-123").
			Return([]*screening.Screening{s}, nil)

		handler := NewScreeningHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/screenings?movie_id=movie-123", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []ScreeningResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "screening-123", resp[0].ID)

		mockService.AssertExpectations(t)
	})

	t.Run("movie_id未指定時は通常の一覧を取得する", func(t *testing.T) {
		mockService := new(MockScreeningService)
		mockService.On("ListScreenings", mock.Anything, 0, 0).
			Return([]*screening.Screening{}, nil)

		handler := NewScreeningHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/screenings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestScreeningHandler_AvailableSeats(t *testing.T) {
	e := NewTestEcho()

	t.Run("空席一覧を行・列順で取得できる", func(t *testing.T) {
		mockService := new(MockScreeningService)
		mockService.On("AvailableSeats", mock.Anything, "screening-123").
			Return([]string{"A1", "A2", "B1"}, nil)

		handler := NewScreeningHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/screenings/screening-123/seats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("screening-123")

		err := handler.AvailableSeats(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AvailableSeatsResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, []string{"A1", "A2", "B1"}, resp.Seats)
		assert.Equal(t, 3, resp.Count)

		mockService.AssertExpectations(t)
	})

	t.Run("上映回が存在しない場合404", func(t *testing.T) {
		mockService := new(MockScreeningService)
		mockService.On("AvailableSeats", mock.Anything, "gone").
			Return(nil, screening.ErrScreeningNotFound)

		handler := NewScreeningHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/screenings/gone/seats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("gone")

		err := handler.AvailableSeats(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestScreeningHandler_CountAvailableSeats(t *testing.T) {
	e := NewTestEcho()

	t.Run("空席数を取得できる", func(t *testing.T) {
		mockService := new(MockScreeningService)
		mockService.On("CountAvailableSeats", mock.Anything, "screening-123").Return(8, nil)

		handler := NewScreeningHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/screenings/screening-123/seats/count", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("screening-123")

		err := handler.CountAvailableSeats(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]int
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, 8, resp["count"])

		mockService.AssertExpectations(t)
	})
}

func TestScreeningHandler_Update(t *testing.T) {
	e := NewTestEcho()

	t.Run("保持中の座席を削除しようとした場合409", func(t *testing.T) {
		mockService := new(MockScreeningService)
		mockService.On("UpdateScreening", mock.Anything, mock.Anything).
			Return(nil, screening.ErrSeatHeld)

		handler := NewScreeningHandler(mockService)

		reqBody := `{"total_seats": 5}`
		req := httptest.NewRequest(http.MethodPut, "/screenings/screening-123", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("screening-123")

		err := handler.Update(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}

func TestScreeningHandler_Delete(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に上映回を削除できる", func(t *testing.T) {
		mockService := new(MockScreeningService)
		mockService.On("DeleteScreening", mock.Anything, "screening-123").Return(nil)

		handler := NewScreeningHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/screenings/screening-123", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("screening-123")

		err := handler.Delete(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("存在しない上映回の場合404", func(t *testing.T) {
		mockService := new(MockScreeningService)
		mockService.On("DeleteScreening", mock.Anything, "gone").
			Return(screening.ErrScreeningNotFound)

		handler := NewScreeningHandler(mockService)

		req := httptest.NewRequest(http.MethodDelete, "/screenings/gone", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("gone")

		err := handler.Delete(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}
