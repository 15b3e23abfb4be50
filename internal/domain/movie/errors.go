package movie

import "errors"

// Movie ドメインのエラー定義
var (
	ErrMovieNotFound          = errors.New("映画が見つかりません")
	ErrTitleRequired          = errors.New("タイトルは必須です")
	ErrTitleTaken             = errors.New("同じタイトルの映画が既に存在します")
	ErrInvalidDuration        = errors.New("上映時間は1分以上である必要があります")
	ErrReleaseDateRequired    = errors.New("公開日は必須です")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
