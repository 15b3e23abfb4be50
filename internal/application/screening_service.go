package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/movie"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/transaction"
	redisinfra "github.com/anjeelupreti/movie-ticket-booking-system/internal/infrastructure/redis"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/pkg/logger"
)

const availabilityCacheTTL = 30 * time.Second

// ScreeningService は上映回の管理と空席照会を担うサービス
type ScreeningService struct {
	screeningRepo screening.Repository
	movieRepo     movie.Repository
	txManager     transaction.Manager
	cache         *redisinfra.AvailabilityCache
}

func NewScreeningService(sr screening.Repository, mr movie.Repository, tm transaction.Manager, cache *redisinfra.AvailabilityCache) *ScreeningService {
	return &ScreeningService{screeningRepo: sr, movieRepo: mr, txManager: tm, cache: cache}
}

type CreateScreeningInput struct {
	MovieID     string
	StartsAt    time.Time
	TotalSeats  int
	SeatsPerRow int
}

// CreateScreening は全席空きの座席マップ付きで上映回を作成する
func (s *ScreeningService) CreateScreening(ctx context.Context, input CreateScreeningInput) (*screening.Screening, error) {
	if _, err := s.movieRepo.GetByID(ctx, input.MovieID); err != nil {
		return nil, fmt.Errorf("映画取得に失敗: %w", err)
	}
	seatsPerRow := input.SeatsPerRow
	if seatsPerRow == 0 {
		seatsPerRow = screening.DefaultSeatsPerRow
	}
	sc, err := screening.NewScreening(input.MovieID, input.StartsAt, input.TotalSeats, seatsPerRow)
	if err != nil {
		return nil, err
	}
	if err := s.screeningRepo.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("上映回作成に失敗: %w", err)
	}
	return sc, nil
}

func (s *ScreeningService) GetScreening(ctx context.Context, id string) (*screening.Screening, error) {
	return s.screeningRepo.GetByID(ctx, id)
}

func (s *ScreeningService) ListScreenings(ctx context.Context, limit, offset int) ([]*screening.Screening, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.screeningRepo.List(ctx, limit, offset)
}

// ListUpcomingByMovie は指定映画の未来の上映回のみを返す
func (s *ScreeningService) ListUpcomingByMovie(ctx context.Context, movieID string) ([]*screening.Screening, error) {
	all, err := s.screeningRepo.ListByMovieID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	upcoming := make([]*screening.Screening, 0, len(all))
	for _, sc := range all {
		if sc.IsUpcoming(now) {
			upcoming = append(upcoming, sc)
		}
	}
	return upcoming, nil
}

// AvailableSeats は空席ラベルを行・列順で返す
func (s *ScreeningService) AvailableSeats(ctx context.Context, screeningID string) ([]string, error) {
	sc, err := s.screeningRepo.GetByID(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	return sc.AvailableSeats(), nil
}

// CountAvailableSeats は空席数を返す（キャッシュ併用）
func (s *ScreeningService) CountAvailableSeats(ctx context.Context, screeningID string) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetCount(ctx, screeningID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("screening_id", screeningID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	sc, err := s.screeningRepo.GetByID(ctx, screeningID)
	if err != nil {
		return 0, err
	}
	count := sc.AvailableCount()

	if s.cache != nil {
		if cacheErr := s.cache.SetCount(ctx, screeningID, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return count, nil
}

type UpdateScreeningInput struct {
	ID         string
	MovieID    string
	StartsAt   time.Time
	TotalSeats int
}

// UpdateScreening は上映回の映画・日時・座席数を更新する
// 座席数の変更は Resize により行い、保持中の座席は削除できない
func (s *ScreeningService) UpdateScreening(ctx context.Context, input UpdateScreeningInput) (*screening.Screening, error) {
	sc, err := s.screeningRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.MovieID != "" && input.MovieID != sc.MovieID {
		if _, err := s.movieRepo.GetByID(ctx, input.MovieID); err != nil {
			return nil, fmt.Errorf("映画取得に失敗: %w", err)
		}
		sc.MovieID = input.MovieID
	}
	if !input.StartsAt.IsZero() {
		sc.StartsAt = input.StartsAt
	}
	if input.TotalSeats != 0 && input.TotalSeats != sc.TotalSeats {
		if err := sc.Resize(input.TotalSeats, screening.DefaultSeatsPerRow); err != nil {
			return nil, err
		}
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "トランザクション開始", Err: err}
	}
	defer tx.Rollback()
	if err := s.screeningRepo.Update(ctx, tx, sc); err != nil {
		return nil, &PersistenceError{Op: "上映回保存", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return nil, &PersistenceError{Op: "コミット", Err: err}
	}

	s.invalidateCache(ctx, sc.ID)
	return sc, nil
}

func (s *ScreeningService) DeleteScreening(ctx context.Context, id string) error {
	if err := s.screeningRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *ScreeningService) invalidateCache(ctx context.Context, screeningID string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, screeningID); err != nil {
			logger.Warn("キャッシュ無効化エラー", zap.Error(err))
		}
	}
}
