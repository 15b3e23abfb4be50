package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/movie"
)

// MovieService は映画カタログの管理を担うサービス
type MovieService struct {
	movieRepo movie.Repository
}

func NewMovieService(movieRepo movie.Repository) *MovieService {
	return &MovieService{movieRepo: movieRepo}
}

type CreateMovieInput struct {
	Title       string
	Genre       string
	DurationMin int
	ReleaseDate time.Time
	Available   bool
}

// CreateMovie は新しい映画を登録する（タイトル重複は不可）
func (s *MovieService) CreateMovie(ctx context.Context, input CreateMovieInput) (*movie.Movie, error) {
	existing, err := s.movieRepo.GetByTitle(ctx, input.Title)
	if err != nil && !errors.Is(err, movie.ErrMovieNotFound) {
		return nil, fmt.Errorf("タイトル重複チェックに失敗: %w", err)
	}
	if existing != nil {
		return nil, movie.ErrTitleTaken
	}

	m := movie.NewMovie(input.Title, input.Genre, input.DurationMin, input.ReleaseDate, input.Available)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.movieRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("映画作成に失敗: %w", err)
	}
	return m, nil
}

func (s *MovieService) GetMovie(ctx context.Context, id string) (*movie.Movie, error) {
	return s.movieRepo.GetByID(ctx, id)
}

// ListMovies は映画一覧を返す（onlyAvailable=true で公開中のみ）
func (s *MovieService) ListMovies(ctx context.Context, onlyAvailable bool, limit, offset int) ([]*movie.Movie, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.movieRepo.List(ctx, onlyAvailable, limit, offset)
}

type UpdateMovieInput struct {
	ID          string
	Title       string
	Genre       string
	DurationMin int
	ReleaseDate time.Time
	Available   *bool
}

// UpdateMovie は映画の情報を更新する（ゼロ値のフィールドは据え置き）
func (s *MovieService) UpdateMovie(ctx context.Context, input UpdateMovieInput) (*movie.Movie, error) {
	m, err := s.movieRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		m.Title = input.Title
	}
	if input.Genre != "" {
		m.Genre = input.Genre
	}
	if input.DurationMin != 0 {
		m.DurationMin = input.DurationMin
	}
	if !input.ReleaseDate.IsZero() {
		m.ReleaseDate = input.ReleaseDate
	}
	if input.Available != nil {
		m.Available = *input.Available
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.movieRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MovieService) DeleteMovie(ctx context.Context, id string) error {
	return s.movieRepo.Delete(ctx, id)
}
