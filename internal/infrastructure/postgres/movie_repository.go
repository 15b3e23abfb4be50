package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/movie"
)

// movieRow はDBの行を表す構造体
type movieRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Genre       *string   `db:"genre"`
	DurationMin int       `db:"duration_min"`
	ReleaseDate time.Time `db:"release_date"`
	Available   bool      `db:"available"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Version     int       `db:"version"`
}

// toEntity はmovieRowをMovieエンティティに変換する
func (r *movieRow) toEntity() *movie.Movie {
	var genre string
	if r.Genre != nil {
		genre = *r.Genre
	}
	return &movie.Movie{
		ID:          r.ID,
		Title:       r.Title,
		Genre:       genre,
		DurationMin: r.DurationMin,
		ReleaseDate: r.ReleaseDate,
		Available:   r.Available,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

// MovieRepository は映画リポジトリのPostgreSQL実装
type MovieRepository struct {
	db *sqlx.DB
}

// NewMovieRepository はMovieRepositoryを作成する
func NewMovieRepository(db *sqlx.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create は新しい映画を作成する
func (r *MovieRepository) Create(ctx context.Context, m *movie.Movie) error {
	query := `
		INSERT INTO movies (title, genre, duration_min, release_date, available, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var genre *string
	if m.Genre != "" {
		genre = &m.Genre
	}

	err := r.db.QueryRowContext(ctx, query,
		m.Title, genre, m.DurationMin, m.ReleaseDate, m.Available, m.CreatedAt, m.UpdatedAt, m.Version,
	).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return movie.ErrTitleTaken
		}
		return fmt.Errorf("映画作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから映画を取得する
func (r *MovieRepository) GetByID(ctx context.Context, id string) (*movie.Movie, error) {
	query := `SELECT id, title, genre, duration_min, release_date, available, created_at, updated_at, version FROM movies WHERE id = $1`

	var row movieRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, fmt.Errorf("映画取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByTitle はタイトルから映画を取得する
func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (*movie.Movie, error) {
	query := `SELECT id, title, genre, duration_min, release_date, available, created_at, updated_at, version FROM movies WHERE title = $1`

	var row movieRow
	err := r.db.GetContext(ctx, &row, query, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, fmt.Errorf("映画取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List は映画一覧を取得する（onlyAvailable=true で公開中のみ）
func (r *MovieRepository) List(ctx context.Context, onlyAvailable bool, limit, offset int) ([]*movie.Movie, error) {
	query := `
		SELECT id, title, genre, duration_min, release_date, available, created_at, updated_at, version
		FROM movies
		WHERE ($1 = false OR available = true)
		ORDER BY release_date DESC
		LIMIT $2 OFFSET $3
	`

	var rows []movieRow
	err := r.db.SelectContext(ctx, &rows, query, onlyAvailable, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("映画一覧取得に失敗しました: %w", err)
	}

	movies := make([]*movie.Movie, len(rows))
	for i, row := range rows {
		movies[i] = row.toEntity()
	}
	return movies, nil
}

// Update は映画を更新する（楽観的ロック）
func (r *MovieRepository) Update(ctx context.Context, m *movie.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, genre = $2, duration_min = $3, release_date = $4,
		    available = $5, updated_at = $6, version = version + 1
		WHERE id = $7 AND version = $8
	`

	var genre *string
	if m.Genre != "" {
		genre = &m.Genre
	}

	result, err := r.db.ExecContext(ctx, query,
		m.Title, genre, m.DurationMin, m.ReleaseDate, m.Available, time.Now(), m.ID, m.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return movie.ErrTitleTaken
		}
		return fmt.Errorf("映画更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return movie.ErrOptimisticLockConflict
	}

	m.Version++
	return nil
}

// Delete は映画を削除する
func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM movies WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("映画削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

// インターフェースを満たしているか確認
var _ movie.Repository = (*MovieRepository)(nil)
