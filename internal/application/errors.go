package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
)

// アプリケーション層のエラー定義
var (
	ErrNoSeatsSelected    = errors.New("座席が選択されていません")
	ErrInconsistentState  = errors.New("予約記録と座席マップの整合性が取れていません")
	ErrPersistenceFailure = errors.New("永続化に失敗しました")
	ErrSeatsBusy          = errors.New("座席が他のユーザーによって処理中です")
)

// UnknownSeatsError は座席マップに存在しないラベルが指定されたことを表す
type UnknownSeatsError struct {
	Labels []string
}

func (e *UnknownSeatsError) Error() string {
	return fmt.Sprintf("存在しない座席が指定されました: %s", strings.Join(e.Labels, ", "))
}

func (e *UnknownSeatsError) Unwrap() error {
	return screening.ErrSeatNotFound
}

// UnavailableSeatsError は空席でない座席が指定されたことを表す
type UnavailableSeatsError struct {
	Labels []string
}

func (e *UnavailableSeatsError) Error() string {
	return fmt.Sprintf("空席でない座席が指定されました: %s", strings.Join(e.Labels, ", "))
}

func (e *UnavailableSeatsError) Unwrap() error {
	return screening.ErrSeatNotAvailable
}

// ForeignSeatsError はキャンセル指定の全ラベルが予約記録に含まれないことを表す
// 一部だけ含まれない場合は含まれない分を読み飛ばすため、このエラーにはならない
type ForeignSeatsError struct {
	Labels []string
}

func (e *ForeignSeatsError) Error() string {
	return fmt.Sprintf("予約に含まれない座席が指定されました: %s", strings.Join(e.Labels, ", "))
}

func (e *ForeignSeatsError) Unwrap() error {
	return ErrNoSeatsSelected
}

// PersistenceError はストアへの書き込み失敗を表す
// 二重書き込みの途中で失敗した場合、ストア間の不整合が残っている可能性がある
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: 永続化に失敗しました: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistenceFailure
}
