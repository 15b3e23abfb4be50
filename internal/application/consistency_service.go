package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/screening"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/domain/user"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/pkg/logger"
	"github.com/anjeelupreti/movie-ticket-booking-system/internal/pkg/metrics"
)

const auditPageSize = 100

// ConsistencyService は座席マップと予約履歴という2つの投影の突き合わせを行う
// 不整合は検出・報告のみで、自動修復はしない
type ConsistencyService struct {
	screeningRepo screening.Repository
	userRepo      user.Repository
}

func NewConsistencyService(sr screening.Repository, ur user.Repository) *ConsistencyService {
	return &ConsistencyService{screeningRepo: sr, userRepo: ur}
}

// AuditBookings は全ユーザーの予約記録を座席マップと突き合わせ、
// 検出した不整合の件数を返す
// 不整合: 参照先の上映回が無い、座席がマップに無い、座席の保持者が予約者でない
func (s *ConsistencyService) AuditBookings(ctx context.Context) (int, error) {
	drift := 0
	screenings := make(map[string]*screening.Screening)

	for offset := 0; ; offset += auditPageSize {
		users, err := s.userRepo.List(ctx, auditPageSize, offset)
		if err != nil {
			return drift, fmt.Errorf("ユーザー一覧取得に失敗: %w", err)
		}
		if len(users) == 0 {
			break
		}

		for _, u := range users {
			for i, b := range u.Bookings {
				sc, ok := screenings[b.ScreeningID]
				if !ok {
					sc, err = s.screeningRepo.GetByID(ctx, b.ScreeningID)
					if err != nil {
						if errors.Is(err, screening.ErrScreeningNotFound) {
							drift++
							s.report(u.ID, i, "上映回が存在しません", zap.String("screening_id", b.ScreeningID))
							continue
						}
						return drift, fmt.Errorf("上映回取得に失敗: %w", err)
					}
					screenings[b.ScreeningID] = sc
				}

				for _, label := range b.Seats {
					state, exists := sc.Seats[label]
					switch {
					case !exists:
						drift++
						s.report(u.ID, i, "座席がマップに存在しません", zap.String("seat", label))
					case state.Holder() != u.ID:
						drift++
						s.report(u.ID, i, "座席の保持者が予約者と一致しません",
							zap.String("seat", label),
							zap.String("holder", state.Holder()),
						)
					}
				}
			}
		}

		if len(users) < auditPageSize {
			break
		}
	}

	if m := metrics.Get(); m != nil {
		m.BookingInconsistencies.Set(float64(drift))
	}
	return drift, nil
}

func (s *ConsistencyService) report(userID string, bookingIndex int, msg string, fields ...zap.Field) {
	fields = append(fields,
		zap.String("user_id", userID),
		zap.Int("booking_index", bookingIndex),
	)
	logger.Warn("予約整合性の不一致を検出: "+msg, fields...)
}
