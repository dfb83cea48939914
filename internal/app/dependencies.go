package app

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/spendpace/internal/config"
	"github.com/klokku/spendpace/internal/event_bus"
	"github.com/klokku/spendpace/internal/utils"
	"github.com/klokku/spendpace/pkg/budget"
	"github.com/klokku/spendpace/pkg/insights"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/klokku/spendpace/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	TransactionService *transaction.ServiceImpl
	TransactionHandler *transaction.Handler

	InsightsService *insights.ServiceImpl
	CsvRenderer     *insights.CsvRendererImpl
	InsightsHandler *insights.Handler

	BudgetRepo    budget.BudgetRepo
	BudgetService *budget.BudgetServiceImpl
	BudgetHandler *budget.BudgetHandler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	periodDefaults, err := cfg.Periods.PeriodConfig()
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{}
	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db), periodDefaults, deps.EventBus)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TransactionService = transaction.NewService(transaction.NewRepository(db), deps.EventBus)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.InsightsService, err = insights.NewService(deps.TransactionService, deps.Clock, deps.EventBus, cfg.Insights.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create insights service: %w", err)
	}
	deps.CsvRenderer = insights.NewCsvRenderer()
	deps.InsightsHandler = insights.NewHandler(deps.InsightsService, deps.CsvRenderer)

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetServiceImpl(deps.BudgetRepo, deps.TransactionService, deps.Clock)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	return deps, nil
}
