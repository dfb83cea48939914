package insights

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klokku/spendpace/internal/event_bus"
	"github.com/klokku/spendpace/internal/utils"
	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/klokku/spendpace/pkg/user"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// TransactionSource supplies the snapshots the insights are computed from.
type TransactionSource interface {
	GetBetween(ctx context.Context, from, to time.Time) ([]transaction.Transaction, error)
	OldestDate(ctx context.Context) (*time.Time, error)
	Categories(ctx context.Context) ([]transaction.Category, error)
}

type Service interface {
	Summary(ctx context.Context, periodType period.Type, anchor *time.Time, filter transaction.Filter) (PeriodSummary, error)
	Breakdown(ctx context.Context, periodType period.Type, anchor *time.Time, filter transaction.Filter) (BreakdownResult, error)
	Navigation(ctx context.Context, periodType period.Type, anchor *time.Time) (Navigation, error)
}

type Navigation struct {
	Window              period.Window
	Week                *period.WeekNumber
	CurrentPeriodStart  time.Time
	EarliestPeriodStart time.Time
	CanStepForward      bool
	CanStepBackward     bool
	Previous            *time.Time
	Next                *time.Time
}

type snapshotKey struct {
	userId int
	from   int64
	to     int64
}

// ServiceImpl memoizes transaction snapshots per window. A user's snapshots are dropped whenever
// one of their transactions or their calendar settings change.
type ServiceImpl struct {
	source    TransactionSource
	clock     utils.Clock
	snapshots *lru.Cache[snapshotKey, []transaction.Transaction]

	// generations is bumped on every invalidation, a fetch started under an older generation is not cached
	mu          sync.Mutex
	generations map[int]uint64
}

func NewService(source TransactionSource, clock utils.Clock, eventBus *event_bus.EventBus, cacheSize int) (*ServiceImpl, error) {
	snapshots, err := lru.New[snapshotKey, []transaction.Transaction](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}
	s := &ServiceImpl{source: source, clock: clock, snapshots: snapshots, generations: map[int]uint64{}}

	event_bus.SubscribeTyped(eventBus, event_bus.TransactionChangedType, func(e event_bus.EventT[event_bus.TransactionChanged]) error {
		s.invalidate(e.Data.UserId)
		return nil
	})
	event_bus.SubscribeTyped(eventBus, event_bus.UserSettingsUpdatedType, func(e event_bus.EventT[event_bus.UserSettingsUpdated]) error {
		s.invalidate(e.Data.UserId)
		return nil
	})
	return s, nil
}

func (s *ServiceImpl) Summary(ctx context.Context, periodType period.Type, anchor *time.Time, filter transaction.Filter) (PeriodSummary, error) {
	timer := prometheus.NewTimer(summaryDuration.WithLabelValues("summary", string(periodType)))
	defer timer.ObserveDuration()

	window, now, err := s.window(ctx, periodType, anchor)
	if err != nil {
		return PeriodSummary{}, err
	}
	transactions, err := s.snapshot(ctx, window)
	if err != nil {
		return PeriodSummary{}, err
	}
	return Aggregate(transactions, window, filter, now), nil
}

func (s *ServiceImpl) Breakdown(ctx context.Context, periodType period.Type, anchor *time.Time, filter transaction.Filter) (BreakdownResult, error) {
	timer := prometheus.NewTimer(summaryDuration.WithLabelValues("breakdown", string(periodType)))
	defer timer.ObserveDuration()

	window, now, err := s.window(ctx, periodType, anchor)
	if err != nil {
		return BreakdownResult{}, err
	}
	transactions, err := s.snapshot(ctx, window)
	if err != nil {
		return BreakdownResult{}, err
	}
	categories, err := s.source.Categories(ctx)
	if err != nil {
		return BreakdownResult{}, fmt.Errorf("failed to get categories: %w", err)
	}
	return Breakdown(transactions, window, filter, now, categories), nil
}

// Navigation places a cursor on the period holding anchor, clamped between the period of the
// oldest transaction and the current one.
func (s *ServiceImpl) Navigation(ctx context.Context, periodType period.Type, anchor *time.Time) (Navigation, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Navigation{}, fmt.Errorf("failed to get current user: %w", err)
	}
	oldest, err := s.source.OldestDate(ctx)
	if err != nil {
		return Navigation{}, fmt.Errorf("failed to find oldest transaction: %w", err)
	}
	now := s.clock.Now().In(currentUser.Settings.Location())
	calculator := period.NewCalculator(currentUser.Settings.PeriodConfig())

	navigator := period.NavigatorFor(calculator, periodType, now, oldest)
	if anchor != nil {
		navigator.MoveTo(*anchor)
	}

	result := Navigation{
		Window:              navigator.Window(),
		CurrentPeriodStart:  navigator.CurrentPeriodStart(),
		EarliestPeriodStart: navigator.EarliestPeriodStart(),
		CanStepForward:      navigator.CanStepForward(),
		CanStepBackward:     navigator.CanStepBackward(),
	}
	if periodType == period.Week {
		week := period.WeekNumberFor(navigator.Current(), calculator.Config().FirstWeekday)
		result.Week = &week
	}
	if previous, ok := navigator.Previous(); ok {
		result.Previous = &previous
	}
	if next, ok := navigator.Next(); ok {
		result.Next = &next
	}
	return result, nil
}

func (s *ServiceImpl) window(ctx context.Context, periodType period.Type, anchor *time.Time) (period.Window, time.Time, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return period.Window{}, time.Time{}, fmt.Errorf("failed to get current user: %w", err)
	}
	loc := currentUser.Settings.Location()
	now := s.clock.Now().In(loc)
	at := now
	if anchor != nil {
		at = anchor.In(loc)
	}
	calculator := period.NewCalculator(currentUser.Settings.PeriodConfig())
	return calculator.Window(at, periodType), now, nil
}

func (s *ServiceImpl) snapshot(ctx context.Context, window period.Window) ([]transaction.Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	key := snapshotKey{userId: userId, from: window.Start.UnixNano(), to: window.End.UnixNano()}
	if cached, ok := s.snapshots.Get(key); ok {
		snapshotLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	snapshotLookups.WithLabelValues("miss").Inc()

	s.mu.Lock()
	generation := s.generations[userId]
	s.mu.Unlock()

	transactions, err := s.source.GetBetween(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[userId] == generation {
		s.snapshots.Add(key, transactions)
	} else {
		log.Debugf("snapshot of user %d changed while fetching, not caching it", userId)
	}
	return transactions, nil
}

func (s *ServiceImpl) invalidate(userId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[userId]++

	removed := 0
	for _, key := range s.snapshots.Keys() {
		if key.userId == userId && s.snapshots.Remove(key) {
			removed++
		}
	}
	if removed > 0 {
		snapshotInvalidations.Add(float64(removed))
		log.Debugf("dropped %d cached snapshots of user %d", removed, userId)
	}
}
