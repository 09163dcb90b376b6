package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/logger"
)

// ReservationPurger は保持期間を過ぎた過去予約を削除するインターフェース
type ReservationPurger interface {
	PurgePastReservations(ctx context.Context, retention time.Duration) (int64, error)
}

// PastReservationCleaner は予約時刻から保持期間を過ぎたレコードを定期削除するワーカー
type PastReservationCleaner struct {
	reservationService ReservationPurger
	interval           time.Duration
	retention          time.Duration
	stopCh             chan struct{}
	doneCh             chan struct{}
}

// NewPastReservationCleaner は新しいクリーナーを作成
func NewPastReservationCleaner(
	rs ReservationPurger,
	interval time.Duration,
	retention time.Duration,
) *PastReservationCleaner {
	return &PastReservationCleaner{
		reservationService: rs,
		interval:           interval,
		retention:          retention,
		stopCh:             make(chan struct{}),
		doneCh:             make(chan struct{}),
	}
}

// Start はクリーナーを開始
func (c *PastReservationCleaner) Start(ctx context.Context) {
	logger.Info("過去予約クリーナー開始",
		zap.Duration("interval", c.interval),
		zap.Duration("retention", c.retention),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("過去予約クリーナー停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("過去予約クリーナー停止（シグナル受信）")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// Stop はクリーナーを停止
func (c *PastReservationCleaner) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

// cleanup は保持期間を過ぎた予約を削除
func (c *PastReservationCleaner) cleanup(ctx context.Context) {
	log := logger.Get()
	log.Debug("過去予約のクリーンアップ開始")

	count, err := c.reservationService.PurgePastReservations(ctx, c.retention)
	if err != nil {
		log.Error("過去予約のクリーンアップ失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("過去予約を削除", zap.Int64("count", count))
	} else {
		log.Debug("削除対象の過去予約なし")
	}
}
