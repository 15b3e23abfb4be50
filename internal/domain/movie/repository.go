package movie

import "context"

// Repository は映画リポジトリのインターフェース
type Repository interface {
	// Create は新しい映画を作成する
	Create(ctx context.Context, m *Movie) error

	// GetByID はIDから映画を取得する
	GetByID(ctx context.Context, id string) (*Movie, error)

	// GetByTitle はタイトルから映画を取得する（重複チェック用）
	GetByTitle(ctx context.Context, title string) (*Movie, error)

	// List は映画一覧を取得する（onlyAvailable=true で公開中のみ）
	List(ctx context.Context, onlyAvailable bool, limit, offset int) ([]*Movie, error)

	// Update は映画を更新する（楽観的ロック）
	Update(ctx context.Context, m *Movie) error

	// Delete は映画を削除する
	Delete(ctx context.Context, id string) error
}
