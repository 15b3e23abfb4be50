package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/movie"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/transaction"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/user"
)

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockScreeningRepository implements screening.Repository
type MockScreeningRepository struct {
	mock.Mock
}

func (m *MockScreeningRepository) Create(ctx context.Context, s *screening.Screening) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockScreeningRepository) GetByID(ctx context.Context, id string) (*screening.Screening, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*screening.Screening), args.Error(1)
}

func (m *MockScreeningRepository) List(ctx context.Context, limit, offset int) ([]*screening.Screening, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*screening.Screening), args.Error(1)
}

func (m *MockScreeningRepository) ListByMovieID(ctx context.Context, movieID string) ([]*screening.Screening, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*screening.Screening), args.Error(1)
}

func (m *MockScreeningRepository) Update(ctx context.Context, tx transaction.Tx, s *screening.Screening) error {
	args := m.Called(ctx, tx, s)
	return args.Error(0)
}

func (m *MockScreeningRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, tx transaction.Tx, u *user.User) error {
	args := m.Called(ctx, tx, u)
	return args.Error(0)
}

// MockMovieRepository implements movie.Repository
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Create(ctx context.Context, mv *movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id string) (*movie.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByTitle(ctx context.Context, title string) (*movie.Movie, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movie.Movie), args.Error(1)
}

func (m *MockMovieRepository) List(ctx context.Context, onlyAvailable bool, limit, offset int) ([]*movie.Movie, error) {
	args := m.Called(ctx, onlyAvailable, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*movie.Movie), args.Error(1)
}

func (m *MockMovieRepository) Update(ctx context.Context, mv *movie.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovieRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
