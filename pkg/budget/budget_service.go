package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klokku/spendpace/internal/utils"
	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/klokku/spendpace/pkg/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var ErrMainBudgetExists = errors.New("main budget already exists")

// DefaultHistoryPeriods is used when a history request does not say how many periods it wants.
const DefaultHistoryPeriods = 6

var paceEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "spendpace",
	Subsystem: "budget",
	Name:      "pace_evaluations_total",
	Help:      "Budget pacing evaluations by resulting pace state.",
}, []string{"state"})

// TransactionSource supplies the expense snapshots and categories budgets are checked against.
type TransactionSource interface {
	GetBetween(ctx context.Context, from, to time.Time) ([]transaction.Transaction, error)
	Categories(ctx context.Context) ([]transaction.Category, error)
}

type BudgetService interface {
	GetAll(ctx context.Context) ([]Budget, error)
	Create(ctx context.Context, budget Budget) (Budget, error)
	Delete(ctx context.Context, id int) (bool, error)
	Pacing(ctx context.Context, id int) (PacingSummary, error)
	History(ctx context.Context, id int, periods int) ([]PeriodSpend, error)
}

type BudgetServiceImpl struct {
	repo         BudgetRepo
	transactions TransactionSource
	clock        utils.Clock
}

func NewBudgetServiceImpl(repo BudgetRepo, transactions TransactionSource, clock utils.Clock) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, transactions: transactions, clock: clock}
}

func (s *BudgetServiceImpl) GetAll(ctx context.Context) ([]Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

// Create stores a budget starting at midnight of its start date in the user's timezone.
func (s *BudgetServiceImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	budget.Name = strings.TrimSpace(budget.Name)
	if err := budget.Validate(); err != nil {
		return Budget{}, err
	}
	budget.StartDate = period.StartOfDay(budget.StartDate.In(currentUser.Settings.Location()))

	existing, err := s.repo.GetAll(ctx, currentUser.Id)
	if err != nil {
		return Budget{}, err
	}
	if budget.IsMain() {
		for _, b := range existing {
			if b.IsMain() {
				return Budget{}, ErrMainBudgetExists
			}
		}
	} else if err := s.checkCategory(ctx, *budget.CategoryId); err != nil {
		return Budget{}, err
	}

	maxPosition, err := s.repo.FindMaxPosition(ctx, currentUser.Id)
	if err != nil {
		return Budget{}, err
	}
	budget.Position = maxPosition + 100

	id, err := s.repo.Store(ctx, currentUser.Id, budget)
	if err != nil {
		return Budget{}, err
	}
	budget.ID = id
	log.Debugf("created %s budget %d for user %d", budget.Type, budget.ID, currentUser.Id)
	return budget, nil
}

func (s *BudgetServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Delete(ctx, userId, id)
}

func (s *BudgetServiceImpl) Pacing(ctx context.Context, id int) (PacingSummary, error) {
	budget, now, err := s.load(ctx, id)
	if err != nil {
		return PacingSummary{}, err
	}
	start, end := budget.PeriodContaining(now)
	transactions, err := s.transactions.GetBetween(ctx, start, end)
	if err != nil {
		return PacingSummary{}, fmt.Errorf("failed to get transactions: %w", err)
	}

	summary := Pace(budget, transactions, now)
	paceEvaluations.WithLabelValues(string(summary.PaceState)).Inc()
	return summary, nil
}

func (s *BudgetServiceImpl) History(ctx context.Context, id int, periods int) ([]PeriodSpend, error) {
	if periods <= 0 {
		periods = DefaultHistoryPeriods
	}
	budget, now, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from, to := HistoryRange(budget, now, periods)
	transactions, err := s.transactions.GetBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return History(budget, transactions, now, periods), nil
}

func (s *BudgetServiceImpl) load(ctx context.Context, id int) (Budget, time.Time, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Budget{}, time.Time{}, fmt.Errorf("failed to get current user: %w", err)
	}
	budget, err := s.repo.Get(ctx, currentUser.Id, id)
	if err != nil {
		return Budget{}, time.Time{}, err
	}
	loc := currentUser.Settings.Location()
	budget.StartDate = budget.StartDate.In(loc)
	return budget, s.clock.Now().In(loc), nil
}

func (s *BudgetServiceImpl) checkCategory(ctx context.Context, categoryId int) error {
	categories, err := s.transactions.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	for _, c := range categories {
		if c.Id == categoryId {
			if c.Income {
				return ErrInvalidCategory
			}
			return nil
		}
	}
	return ErrInvalidCategory
}
