package budget

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/spendpace/pkg/period"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetRepo interface {
	Store(ctx context.Context, userId int, budget Budget) (int, error)
	GetAll(ctx context.Context, userId int) ([]Budget, error)
	Get(ctx context.Context, userId int, id int) (Budget, error)
	FindMaxPosition(ctx context.Context, userId int) (int, error)
	Delete(ctx context.Context, userId int, id int) (bool, error)
}

type BudgetRepoImpl struct {
	db *pgxpool.Pool
}

func NewBudgetRepo(db *pgxpool.Pool) *BudgetRepoImpl {
	return &BudgetRepoImpl{db: db}
}

const selectBudget = `SELECT id, name, amount::text, period_type, start_date, category_id, position FROM budget`

func (r *BudgetRepoImpl) Store(ctx context.Context, userId int, budget Budget) (int, error) {
	query := `INSERT INTO budget (user_id, name, amount, period_type, start_date, category_id, position)
			  VALUES ($1, $2, $3::numeric, $4, $5, $6, $7) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		budget.Name,
		budget.Amount.String(),
		string(budget.Type),
		budget.StartDate,
		budget.CategoryId,
		budget.Position,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store budget: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

// GetAll lists the main budget first, then the category budgets by position.
func (r *BudgetRepoImpl) GetAll(ctx context.Context, userId int) ([]Budget, error) {
	rows, err := r.db.Query(ctx, selectBudget+` WHERE user_id = $1 ORDER BY category_id IS NOT NULL, position, id`, userId)
	if err != nil {
		return nil, fmt.Errorf("could not query budgets: %w", err)
	}
	budgets, err := pgx.CollectRows(rows, scanBudget)
	if err != nil {
		return nil, fmt.Errorf("could not read budgets: %w", err)
	}
	return budgets, nil
}

func (r *BudgetRepoImpl) Get(ctx context.Context, userId int, id int) (Budget, error) {
	rows, err := r.db.Query(ctx, selectBudget+` WHERE user_id = $1 AND id = $2`, userId, id)
	if err != nil {
		return Budget{}, fmt.Errorf("could not query budget %d: %w", id, err)
	}
	budgets, err := pgx.CollectRows(rows, scanBudget)
	if err != nil {
		return Budget{}, fmt.Errorf("could not read budget %d: %w", id, err)
	}
	if len(budgets) == 0 {
		return Budget{}, ErrBudgetNotFound
	}
	return budgets[0], nil
}

func (r *BudgetRepoImpl) FindMaxPosition(ctx context.Context, userId int) (int, error) {
	var position int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(position), 0) FROM budget WHERE user_id = $1`, userId).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("could not find max budget position: %w", err)
	}
	return position, nil
}

func (r *BudgetRepoImpl) Delete(ctx context.Context, userId int, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM budget WHERE user_id = $1 AND id = $2`, userId, id)
	if err != nil {
		log.Errorf("failed to delete budget %d: %v", id, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanBudget(row pgx.CollectableRow) (Budget, error) {
	var b Budget
	var amount, periodType string
	if err := row.Scan(&b.ID, &b.Name, &amount, &periodType, &b.StartDate, &b.CategoryId, &b.Position); err != nil {
		return Budget{}, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Budget{}, fmt.Errorf("invalid amount %q stored for budget %d: %w", amount, b.ID, err)
	}
	b.Amount = parsed
	b.Type = period.Type(periodType)
	return b, nil
}
