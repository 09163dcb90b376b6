package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/identity"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/restaurant"
	redisinfra "github.com/sanosuguru/go-restaurant-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/metrics"
)

// lockTTL ほか、予約作成時のユーザー単位ロックのパラメータ
const (
	defaultLockTTL = 10 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// ReservationService は予約のビジネスルールを適用するサービス
// 作成・変更・キャンセルのすべての経路で、ルールを固定順に評価し最初の違反で打ち切る
type ReservationService struct {
	reservationRepo reservation.Repository
	restaurantRepo  restaurant.Repository
	lockManager     redisinfra.LockManagerInterface
	countCache      redisinfra.ReservationCountCacheInterface
	metrics         *metrics.Metrics
	lockTTL         time.Duration
	now             func() time.Time
}

// NewReservationService はサービスを構築する
// lockTTLが0以下の場合は既定値を使う
func NewReservationService(
	rr reservation.Repository,
	restr restaurant.Repository,
	lm redisinfra.LockManagerInterface,
	cache redisinfra.ReservationCountCacheInterface,
	m *metrics.Metrics,
	lockTTL time.Duration,
) *ReservationService {
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &ReservationService{
		reservationRepo: rr,
		restaurantRepo:  restr,
		lockManager:     lm,
		countCache:      cache,
		metrics:         m,
		lockTTL:         lockTTL,
		now:             time.Now,
	}
}

type CreateReservationInput struct {
	RestaurantID    string
	ReservationDate time.Time
	Quantity        int
}

// CreateReservation は予約を検証して作成する
// ルールの評価順: 日時必須 → 未来日時 → レストラン存在 → 営業時間 → 予約数上限 → 同一日重複
func (s *ReservationService) CreateReservation(ctx context.Context, p identity.Principal, input CreateReservationInput) (*reservation.Reservation, error) {
	now := s.now()

	if input.ReservationDate.IsZero() {
		s.countRejection("date")
		return nil, reservation.ErrReservationDateRequired
	}
	if !input.ReservationDate.After(now) {
		s.countRejection("date")
		return nil, reservation.ErrReservationDateNotFuture
	}

	// 数量・重複チェックはread-then-writeのため、ユーザー単位の分散ロックで直列化する
	if s.lockManager != nil {
		lockStart := time.Now()
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, redisinfra.UserLockKey(p.UserID), s.lockTTL, lockMaxRetries, lockRetryDelay)
		s.observeLock("acquire", time.Since(lockStart), err)
		if err != nil {
			if errors.Is(err, redisinfra.ErrLockNotAcquired) {
				s.countOperation("create", "lock_failed")
				return nil, fmt.Errorf("予約処理が混み合っています: %w", err)
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	rest, err := s.restaurantRepo.GetByID(ctx, input.RestaurantID)
	if err != nil {
		return nil, err
	}

	if !rest.IsWithinOperatingHours(input.ReservationDate) {
		s.countRejection("hours")
		return nil, fmt.Errorf("%w（営業時間 %s）", restaurant.ErrOutsideOperatingHours, rest.OperatingHoursLabel())
	}

	existing, err := s.reservationRepo.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}

	if !p.Role.IsExemptFromQuota() && len(existing) >= reservation.MaxActiveReservations {
		s.countRejection("quota")
		return nil, reservation.ErrQuotaExceeded
	}

	// 同一日重複は管理者も対象（数量上限と異なり免除なし）
	for _, r := range existing {
		if r.ConflictsWith(input.RestaurantID, input.ReservationDate) {
			s.countRejection("duplicate")
			return nil, reservation.ErrDuplicateReservation
		}
	}

	res := reservation.NewReservation(p.UserID, rest.ID, rest.Name, input.ReservationDate, input.Quantity)
	if err := res.Validate(); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.Create(ctx, res); err != nil {
		if errors.Is(err, reservation.ErrDuplicateReservation) {
			s.countRejection("duplicate")
			return nil, err
		}
		s.countOperation("create", "error")
		return nil, err
	}

	s.invalidateCount(ctx, rest.ID)
	s.countOperation("create", "success")
	return res, nil
}

type UpdateReservationInput struct {
	ReservationDate *time.Time
	RestaurantID    *string
}

// UpdateReservation は予約を更新する。パッチに含まれるフィールドのみ反映する
// 日時変更時は未来チェックと営業時間チェックを再実行する
// レストラン変更のみ（日時変更なし）の場合は既存日時に対する営業時間の再検証を行わない（現行動作の維持）
func (s *ReservationService) UpdateReservation(ctx context.Context, p identity.Principal, id string, input UpdateReservationInput) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !res.IsOwnedBy(p.UserID) && !p.Role.IsExemptFromOwnership() {
		return nil, reservation.ErrNotReservationOwner
	}

	if input.ReservationDate != nil {
		newDate := *input.ReservationDate
		if !newDate.After(s.now()) {
			s.countRejection("date")
			return nil, reservation.ErrReservationDateNotFuture
		}

		restaurantID := res.RestaurantID
		if input.RestaurantID != nil {
			restaurantID = *input.RestaurantID
		}
		rest, err := s.restaurantRepo.GetByID(ctx, restaurantID)
		if err != nil && !errors.Is(err, restaurant.ErrRestaurantNotFound) {
			return nil, err
		}
		if rest != nil && !rest.IsWithinOperatingHours(newDate) {
			s.countRejection("hours")
			return nil, fmt.Errorf("%w（営業時間 %s）", restaurant.ErrOutsideOperatingHours, rest.OperatingHoursLabel())
		}

		res.ReservationDate = newDate
	}

	prevRestaurantID := res.RestaurantID
	if input.RestaurantID != nil {
		res.RestaurantID = *input.RestaurantID
	}
	res.UpdatedAt = s.now()

	if err := s.reservationRepo.Update(ctx, res); err != nil {
		if errors.Is(err, reservation.ErrDuplicateReservation) {
			s.countRejection("duplicate")
			return nil, err
		}
		s.countOperation("update", "error")
		return nil, err
	}

	s.invalidateCount(ctx, prevRestaurantID)
	if res.RestaurantID != prevRestaurantID {
		s.invalidateCount(ctx, res.RestaurantID)
	}
	s.countOperation("update", "success")
	return res, nil
}

// CancelReservation は予約をキャンセルする
// 一般ユーザーは予約時刻の1時間前を過ぎるとキャンセルできない（過去の予約も同様）
func (s *ReservationService) CancelReservation(ctx context.Context, p identity.Principal, id string) error {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !res.IsOwnedBy(p.UserID) && !p.Role.IsExemptFromOwnership() {
		return reservation.ErrNotReservationOwner
	}

	if !p.Role.IsExemptFromCancellationLockout() && res.InCancellationLockout(s.now()) {
		s.countRejection("lockout")
		return reservation.ErrCancellationLockedOut
	}

	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		s.countOperation("cancel", "error")
		return err
	}

	s.invalidateCount(ctx, res.RestaurantID)
	s.countOperation("cancel", "success")
	return nil
}

// GetReservation は予約を取得する。所有者または管理者のみ閲覧できる
func (s *ReservationService) GetReservation(ctx context.Context, p identity.Principal, id string) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.IsOwnedBy(p.UserID) && !p.Role.IsExemptFromOwnership() {
		return nil, reservation.ErrNotReservationOwner
	}
	return res, nil
}

// ListReservations は予約一覧を取得する
// 管理者は全件（レストラン絞り込み可）、一般ユーザーは自分の予約のみ（絞り込みはAND条件）
func (s *ReservationService) ListReservations(ctx context.Context, p identity.Principal, restaurantID string) ([]*reservation.Reservation, error) {
	filter := reservation.Filter{RestaurantID: restaurantID}
	if !p.Role.IsExemptFromOwnership() {
		filter.UserID = p.UserID
	}
	return s.reservationRepo.List(ctx, filter)
}

// PurgePastReservations は予約時刻から保持期間を過ぎた予約を削除する
// ワーカーから定期的に呼ばれる
func (s *ReservationService) PurgePastReservations(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	return s.reservationRepo.DeleteOlderThan(ctx, cutoff)
}

func (s *ReservationService) invalidateCount(ctx context.Context, restaurantID string) {
	if s.countCache == nil {
		return
	}
	// キャッシュ無効化の失敗は予約操作を失敗させない
	_ = s.countCache.Invalidate(ctx, restaurantID)
}

func (s *ReservationService) countOperation(operation, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReservationsTotal.WithLabelValues(operation, status).Inc()
}

func (s *ReservationService) countRejection(rule string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReservationRejectionsTotal.WithLabelValues(rule).Inc()
}

func (s *ReservationService) observeLock(operation string, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.metrics.DistributedLockDuration.WithLabelValues(operation, status).Observe(elapsed.Seconds())
}
