package user

import (
	"context"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/transaction"
)

// Repository はユーザーリポジトリのインターフェース
type Repository interface {
	// Create は新しいユーザーを作成する
	Create(ctx context.Context, u *User) error

	// GetByID はIDからユーザーを取得する
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername はユーザー名からユーザーを取得する
	GetByUsername(ctx context.Context, username string) (*User, error)

	// List はユーザー一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*User, error)

	// Update は予約履歴を含むユーザーを更新する（楽観的ロック、トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, u *User) error
}
