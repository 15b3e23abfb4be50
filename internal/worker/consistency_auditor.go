package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/anjeelupreti/movie-ticket-booking-system/internal/pkg/logger"
)

// BookingAuditor は予約記録と座席マップの突き合わせを行うインターフェース
type BookingAuditor interface {
	AuditBookings(ctx context.Context) (int, error)
}

// ConsistencyAuditor は予約記録と座席マップの不整合を定期的に検査するワーカー
// 検出した不整合はログとメトリクスで報告するのみで、自動修復は行わない
type ConsistencyAuditor struct {
	auditService BookingAuditor
	interval     time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewConsistencyAuditor は新しい監査ワーカーを作成
func NewConsistencyAuditor(as BookingAuditor, interval time.Duration) *ConsistencyAuditor {
	return &ConsistencyAuditor{
		auditService: as,
		interval:     interval,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start は監査ワーカーを開始
func (a *ConsistencyAuditor) Start(ctx context.Context) {
	logger.Info("整合性監査ワーカー開始",
		zap.Duration("interval", a.interval),
	)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	defer close(a.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("整合性監査ワーカー停止（コンテキストキャンセル）")
			return
		case <-a.stopCh:
			logger.Info("整合性監査ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			a.audit(ctx)
		}
	}
}

// Stop は監査ワーカーを停止
func (a *ConsistencyAuditor) Stop() {
	close(a.stopCh)
	<-a.doneCh
}

// audit は予約記録と座席マップを突き合わせる
func (a *ConsistencyAuditor) audit(ctx context.Context) {
	log := logger.Get()
	log.Debug("整合性監査開始")

	drift, err := a.auditService.AuditBookings(ctx)
	if err != nil {
		log.Error("整合性監査に失敗", zap.Error(err))
		return
	}

	if drift > 0 {
		log.Warn("予約記録と座席マップの不整合を検出", zap.Int("drift", drift))
	} else {
		log.Debug("不整合なし")
	}
}
