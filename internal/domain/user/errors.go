package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound           = errors.New("ユーザーが見つかりません")
	ErrUsernameTaken          = errors.New("このユーザー名は既に使用されています")
	ErrUsernameRequired       = errors.New("ユーザー名は必須です")
	ErrPasswordTooShort       = errors.New("パスワードは8文字以上である必要があります")
	ErrInvalidCredentials     = errors.New("ユーザー名またはパスワードが正しくありません")
	ErrBookingNotFound        = errors.New("予約が見つかりません")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
