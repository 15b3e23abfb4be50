package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/transaction"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/user"
	redisinfra "github.com/anjeelupreti/movie-ticket-booking-system/internal/infrastructure/redis"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/pkg/logger"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/pkg/metrics"
)

const (
	lockTTL        = 10 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// BookingService は座席の予約とキャンセルを担うサービス
// 上映回の座席マップとユーザーの予約履歴の二重書き込みを
// 1トランザクションに束ね、上映回単位のRedisロックで直列化する
type BookingService struct {
	screeningRepo screening.Repository
	userRepo      user.Repository
	txManager     transaction.Manager
	lockManager   *redisinfra.LockManager
	cache         *redisinfra.AvailabilityCache
}

func NewBookingService(
	sr screening.Repository,
	ur user.Repository,
	tm transaction.Manager,
	lm *redisinfra.LockManager,
	cache *redisinfra.AvailabilityCache,
) *BookingService {
	return &BookingService{
		screeningRepo: sr,
		userRepo:      ur,
		txManager:     tm,
		lockManager:   lm,
		cache:         cache,
	}
}

// Reserve は指定座席を予約し、作成された予約記録を返す
// 検証は 選択なし→未知の座席→空席でない座席→上映開始済み の順に
// 短絡評価され、書き込みは全検証を通過した後にのみ行われる
func (s *BookingService) Reserve(ctx context.Context, screeningID, userID string, seatLabels []string) (*user.Booking, error) {
	labels := dedupeLabels(seatLabels)
	if len(labels) == 0 {
		s.countReservation("invalid")
		return nil, ErrNoSeatsSelected
	}

	// 上映回単位のロックで read-validate-write を直列化する
	if s.lockManager != nil {
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, screeningLockKey(screeningID), lockTTL, lockMaxRetries, lockRetryDelay)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countReservation("lock_failed")
				return nil, ErrSeatsBusy
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	sc, err := s.screeningRepo.GetByID(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("上映回取得に失敗: %w", err)
	}

	if unknown := sc.UnknownSeats(labels); len(unknown) > 0 {
		s.countReservation("invalid")
		return nil, &UnknownSeatsError{Labels: unknown}
	}
	if unavailable := sc.UnavailableSeats(labels); len(unavailable) > 0 {
		s.countReservation("conflict")
		return nil, &UnavailableSeatsError{Labels: unavailable}
	}
	if !sc.IsUpcoming(time.Now()) {
		s.countReservation("closed")
		return nil, screening.ErrScreeningClosed
	}

	usr, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}

	if err := sc.HoldSeats(labels, userID); err != nil {
		s.countReservation("conflict")
		return nil, err
	}
	booking := user.Booking{
		MovieID:     sc.MovieID,
		ScreeningID: sc.ID,
		Seats:       labels,
		ShowsAt:     sc.StartsAt,
	}
	usr.AddBooking(booking)

	if err := s.saveBoth(ctx, sc, usr); err != nil {
		s.countReservation("error")
		return nil, err
	}

	s.invalidateCache(ctx, screeningID)
	s.countReservation("success")
	logger.Info("座席を予約しました",
		zap.String("screening_id", screeningID),
		zap.String("user_id", userID),
		zap.Strings("seats", labels),
	)
	return &booking, nil
}

// Cancel は予約番号で指定した予約の座席を解放し、解放したラベルを返す
// seatLabels が nil の場合は予約全体をキャンセルする
// 予約に含まれないラベルはエラーにせず読み飛ばす（意図した寛容動作）が、
// 有効なラベルが1つも残らない場合は ForeignSeatsError を返す
func (s *BookingService) Cancel(ctx context.Context, userID string, bookingIndex int, seatLabels []string) ([]string, error) {
	usr, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}

	booking, err := usr.BookingAt(bookingIndex)
	if err != nil {
		return nil, err
	}

	if s.lockManager != nil {
		lock, lockErr := s.lockManager.AcquireLockWithRetry(ctx, screeningLockKey(booking.ScreeningID), lockTTL, lockMaxRetries, lockRetryDelay)
		if lockErr != nil {
			if errors.Is(lockErr, redisinfra.ErrLockNotAcquired) {
				return nil, ErrSeatsBusy
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", lockErr)
		}
		defer lock.Release(ctx)
	}

	sc, err := s.screeningRepo.GetByID(ctx, booking.ScreeningID)
	if err != nil {
		if errors.Is(err, screening.ErrScreeningNotFound) {
			return nil, fmt.Errorf("%w: 予約が参照する上映回 %s が存在しません", ErrInconsistentState, booking.ScreeningID)
		}
		return nil, fmt.Errorf("上映回取得に失敗: %w", err)
	}
	if missing := sc.UnknownSeats(booking.Seats); len(missing) > 0 {
		return nil, fmt.Errorf("%w: 予約座席 %v が座席マップに存在しません", ErrInconsistentState, missing)
	}

	toCancel, foreign := splitCancelSet(booking.Seats, seatLabels)
	if len(toCancel) == 0 {
		if len(foreign) == 0 {
			return nil, ErrNoSeatsSelected
		}
		return nil, &ForeignSeatsError{Labels: foreign}
	}
	if len(foreign) > 0 {
		logger.Warn("予約に含まれない座席指定を読み飛ばします",
			zap.String("user_id", userID),
			zap.Strings("foreign", foreign),
		)
	}

	released := sc.ReleaseSeats(toCancel)
	if err := usr.RemoveSeatsFromBooking(bookingIndex, toCancel); err != nil {
		return nil, err
	}

	if err := s.saveBoth(ctx, sc, usr); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, sc.ID)
	if m := metrics.Get(); m != nil {
		m.SeatsReleasedTotal.Add(float64(len(released)))
	}
	logger.Info("座席を解放しました",
		zap.String("screening_id", sc.ID),
		zap.String("user_id", userID),
		zap.Strings("seats", released),
	)
	return released, nil
}

// ListBookings はユーザーの予約履歴を予約順で返す
// 予約番号はこの並びの位置（0始まり）であり、呼び出しのたびに振り直される
func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]user.Booking, error) {
	usr, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザー取得に失敗: %w", err)
	}
	return usr.Bookings, nil
}

// saveBoth は座席マップと予約履歴を1トランザクションで保存する
// どちらかの書き込みが失敗した場合は PersistenceError として報告する
func (s *BookingService) saveBoth(ctx context.Context, sc *screening.Screening, usr *user.User) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return &PersistenceError{Op: "トランザクション開始", Err: err}
	}
	defer tx.Rollback()

	if err := s.screeningRepo.Update(ctx, tx, sc); err != nil {
		return &PersistenceError{Op: "上映回保存", Err: err}
	}
	if err := s.userRepo.Update(ctx, tx, usr); err != nil {
		return &PersistenceError{Op: "ユーザー保存", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "コミット", Err: err}
	}
	return nil
}

func (s *BookingService) invalidateCache(ctx context.Context, screeningID string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, screeningID); err != nil {
			logger.Warn("キャッシュ無効化エラー", zap.Error(err))
		}
	}
}

func (s *BookingService) countReservation(status string) {
	if m := metrics.Get(); m != nil {
		m.BookingsTotal.WithLabelValues(status).Inc()
	}
}

func screeningLockKey(screeningID string) string {
	return "screening:" + screeningID
}

// dedupeLabels は空要素を除き、初出順を保ったまま重複を畳む
func dedupeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	result := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		result = append(result, label)
	}
	return result
}

// splitCancelSet はキャンセル指定を予約記録内のラベルと予約外のラベルに分ける
// requested が nil の場合は予約全体をキャンセル対象にする
func splitCancelSet(bookingSeats, requested []string) (toCancel, foreign []string) {
	if requested == nil {
		toCancel = make([]string, len(bookingSeats))
		copy(toCancel, bookingSeats)
		return toCancel, nil
	}

	owned := make(map[string]struct{}, len(bookingSeats))
	for _, seat := range bookingSeats {
		owned[seat] = struct{}{}
	}
	for _, label := range dedupeLabels(requested) {
		if _, ok := owned[label]; ok {
			toCancel = append(toCancel, label)
		} else {
			foreign = append(foreign, label)
		}
	}
	return toCancel, foreign
}
