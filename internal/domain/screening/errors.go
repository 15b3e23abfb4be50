package screening

import "errors"

// Screening ドメインのエラー定義
var (
	ErrScreeningNotFound      = errors.New("上映回が見つかりません")
	ErrScreeningClosed        = errors.New("上映開始済みの回は予約できません")
	ErrMovieIDRequired        = errors.New("映画IDは必須です")
	ErrStartTimeRequired      = errors.New("上映開始日時は必須です")
	ErrInvalidSeatCount       = errors.New("座席数は1以上である必要があります")
	ErrInvalidSeatsPerRow     = errors.New("1行あたりの座席数は1以上である必要があります")
	ErrSeatMapTooLarge        = errors.New("座席マップは26行（A〜Z）までです")
	ErrSeatNotFound           = errors.New("座席が見つかりません")
	ErrSeatNotAvailable       = errors.New("座席は空席ではありません")
	ErrSeatHeld               = errors.New("予約中の座席は削除できません")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)
