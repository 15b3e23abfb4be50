package screening

import (
	"context"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/transaction"
)

// Repository は上映回リポジトリのインターフェース
type Repository interface {
	// Create は新しい上映回を作成する
	Create(ctx context.Context, s *Screening) error

	// GetByID はIDから上映回を取得する
	GetByID(ctx context.Context, id string) (*Screening, error)

	// List は上映回一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Screening, error)

	// ListByMovieID は映画IDから上映回一覧を取得する
	ListByMovieID(ctx context.Context, movieID string) ([]*Screening, error)

	// Update は座席マップを含む上映回を更新する（楽観的ロック、トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, s *Screening) error

	// Delete は上映回を削除する
	Delete(ctx context.Context, id string) error
}
