package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/transaction"
)

// screeningRow はDBの行を表す構造体
// 座席マップはJSONB列に {ラベル: 状態} で格納する
type screeningRow struct {
	ID         string    `db:"id"`
	MovieID    string    `db:"movie_id"`
	StartsAt   time.Time `db:"starts_at"`
	TotalSeats int       `db:"total_seats"`
	Seats      []byte    `db:"seats"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	Version    int       `db:"version"`
}

// toEntity はscreeningRowをScreeningエンティティに変換する
func (r *screeningRow) toEntity() (*screening.Screening, error) {
	seats := make(map[string]screening.SeatState)
	if len(r.Seats) > 0 {
		if err := json.Unmarshal(r.Seats, &seats); err != nil {
			return nil, fmt.Errorf("座席マップの復元に失敗しました: %w", err)
		}
	}
	return &screening.Screening{
		ID:         r.ID,
		MovieID:    r.MovieID,
		StartsAt:   r.StartsAt,
		TotalSeats: r.TotalSeats,
		Seats:      seats,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Version:    r.Version,
	}, nil
}

// ScreeningRepository は上映回リポジトリのPostgreSQL実装
type ScreeningRepository struct {
	db *sqlx.DB
}

// NewScreeningRepository はScreeningRepositoryを作成する
func NewScreeningRepository(db *sqlx.DB) *ScreeningRepository {
	return &ScreeningRepository{db: db}
}

// Create は新しい上映回を作成する
func (r *ScreeningRepository) Create(ctx context.Context, s *screening.Screening) error {
	seats, err := json.Marshal(s.Seats)
	if err != nil {
		return fmt.Errorf("座席マップの変換に失敗しました: %w", err)
	}

	query := `
		INSERT INTO screenings (movie_id, starts_at, total_seats, seats, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query,
		s.MovieID, s.StartsAt, s.TotalSeats, seats, s.CreatedAt, s.UpdatedAt, s.Version,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("上映回作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから上映回を取得する
func (r *ScreeningRepository) GetByID(ctx context.Context, id string) (*screening.Screening, error) {
	query := `SELECT id, movie_id, starts_at, total_seats, seats, created_at, updated_at, version FROM screenings WHERE id = $1`

	var row screeningRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, screening.ErrScreeningNotFound
		}
		return nil, fmt.Errorf("上映回取得に失敗しました: %w", err)
	}
	return row.toEntity()
}

// List は上映回一覧を取得する
func (r *ScreeningRepository) List(ctx context.Context, limit, offset int) ([]*screening.Screening, error) {
	query := `
		SELECT id, movie_id, starts_at, total_seats, seats, created_at, updated_at, version
		FROM screenings
		ORDER BY starts_at ASC
		LIMIT $1 OFFSET $2
	`

	var rows []screeningRow
	err := r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("上映回一覧取得に失敗しました: %w", err)
	}
	return toScreenings(rows)
}

// ListByMovieID は映画IDから上映回一覧を取得する
func (r *ScreeningRepository) ListByMovieID(ctx context.Context, movieID string) ([]*screening.Screening, error) {
	query := `
		SELECT id, movie_id, starts_at, total_seats, seats, created_at, updated_at, version
		FROM screenings
		WHERE movie_id = $1
		ORDER BY starts_at ASC
	`

	var rows []screeningRow
	err := r.db.SelectContext(ctx, &rows, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("上映回一覧取得に失敗しました: %w", err)
	}
	return toScreenings(rows)
}

// Update は座席マップを含む上映回を更新する（楽観的ロック）
// 予約履歴との二重書き込みを束ねるためトランザクション内で実行する
func (r *ScreeningRepository) Update(ctx context.Context, tx transaction.Tx, s *screening.Screening) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが必要です")
	}

	seats, err := json.Marshal(s.Seats)
	if err != nil {
		return fmt.Errorf("座席マップの変換に失敗しました: %w", err)
	}

	query := `
		UPDATE screenings
		SET movie_id = $1, starts_at = $2, total_seats = $3, seats = $4,
		    updated_at = $5, version = version + 1
		WHERE id = $6 AND version = $7
	`
	result, err := sqlxTx.ExecContext(ctx, query,
		s.MovieID, s.StartsAt, s.TotalSeats, seats, time.Now(), s.ID, s.Version,
	)
	if err != nil {
		return fmt.Errorf("上映回更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return screening.ErrOptimisticLockConflict
	}

	s.Version++
	return nil
}

// Delete は上映回を削除する
func (r *ScreeningRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM screenings WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("上映回削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return screening.ErrScreeningNotFound
	}
	return nil
}

func toScreenings(rows []screeningRow) ([]*screening.Screening, error) {
	screenings := make([]*screening.Screening, len(rows))
	for i, row := range rows {
		s, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		screenings[i] = s
	}
	return screenings, nil
}

// インターフェースを満たしているか確認
var _ screening.Repository = (*ScreeningRepository)(nil)
