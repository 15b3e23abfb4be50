package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/transaction"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/user"
)

// userRow はDBの行を表す構造体
// 予約履歴はJSONB列に予約順の配列で格納する
type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	Role         string    `db:"role"`
	Bookings     []byte    `db:"bookings"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	Version      int       `db:"version"`
}

// toEntity はuserRowをUserエンティティに変換する
func (r *userRow) toEntity() (*user.User, error) {
	bookings := []user.Booking{}
	if len(r.Bookings) > 0 {
		if err := json.Unmarshal(r.Bookings, &bookings); err != nil {
			return nil, fmt.Errorf("予約履歴の復元に失敗しました: %w", err)
		}
	}
	return &user.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         user.Role(r.Role),
		Bookings:     bookings,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}, nil
}

// UserRepository はユーザーリポジトリのPostgreSQL実装
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository はUserRepositoryを作成する
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create は新しいユーザーを作成する
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	bookings, err := json.Marshal(u.Bookings)
	if err != nil {
		return fmt.Errorf("予約履歴の変換に失敗しました: %w", err)
	}

	query := `
		INSERT INTO users (username, password_hash, role, bookings, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query,
		u.Username, u.PasswordHash, string(u.Role), bookings, u.CreatedAt, u.UpdatedAt, u.Version,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("ユーザー作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからユーザーを取得する
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT id, username, password_hash, role, bookings, created_at, updated_at, version FROM users WHERE id = $1`

	var row userRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗しました: %w", err)
	}
	return row.toEntity()
}

// GetByUsername はユーザー名からユーザーを取得する
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT id, username, password_hash, role, bookings, created_at, updated_at, version FROM users WHERE username = $1`

	var row userRow
	err := r.db.GetContext(ctx, &row, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗しました: %w", err)
	}
	return row.toEntity()
}

// List はユーザー一覧を取得する
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	query := `
		SELECT id, username, password_hash, role, bookings, created_at, updated_at, version
		FROM users
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	var rows []userRow
	err := r.db.SelectContext(ctx, &rows, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧取得に失敗しました: %w", err)
	}

	users := make([]*user.User, len(rows))
	for i, row := range rows {
		u, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		users[i] = u
	}
	return users, nil
}

// Update は予約履歴を含むユーザーを更新する（楽観的ロック）
// 座席マップとの二重書き込みを束ねるためトランザクション内で実行する
func (r *UserRepository) Update(ctx context.Context, tx transaction.Tx, u *user.User) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("トランザクションが必要です")
	}

	bookings, err := json.Marshal(u.Bookings)
	if err != nil {
		return fmt.Errorf("予約履歴の変換に失敗しました: %w", err)
	}

	query := `
		UPDATE users
		SET username = $1, password_hash = $2, role = $3, bookings = $4,
		    updated_at = $5, version = version + 1
		WHERE id = $6 AND version = $7
	`
	result, err := sqlxTx.ExecContext(ctx, query,
		u.Username, u.PasswordHash, string(u.Role), bookings, time.Now(), u.ID, u.Version,
	)
	if err != nil {
		return fmt.Errorf("ユーザー更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return user.ErrOptimisticLockConflict
	}

	u.Version++
	return nil
}

// インターフェースを満たしているか確認
var _ user.Repository = (*UserRepository)(nil)
