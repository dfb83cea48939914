package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/spendpace/internal/rest"
	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type"`
	StartDate  time.Time       `json:"startDate"`
	CategoryId *int            `json:"categoryId,omitempty"`
	Main       bool            `json:"main"`
}

type PacingDTO struct {
	PeriodStart             time.Time       `json:"periodStart"`
	PeriodEnd               time.Time       `json:"periodEnd"`
	Amount                  decimal.Decimal `json:"amount"`
	SpentToDate             decimal.Decimal `json:"spentToDate"`
	Difference              decimal.Decimal `json:"difference"`
	FractionTimeElapsed     float64         `json:"fractionTimeElapsed"`
	FractionBudgetRemaining float64         `json:"fractionBudgetRemaining"`
	TargetPercent           float64         `json:"targetPercent"`
	PaceState               string          `json:"paceState"`
	LeftPerDay              decimal.Decimal `json:"leftPerDay"`
	TotalUnits              int             `json:"totalUnits"`
	ElapsedUnits            int             `json:"elapsedUnits"`
	DaysLeft                int             `json:"daysLeft"`
	OverBudget              bool            `json:"overBudget"`
}

type PeriodSpendDTO struct {
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Amount     decimal.Decimal `json:"amount"`
	Spent      decimal.Decimal `json:"spent"`
	OverBudget bool            `json:"overBudget"`
	Current    bool            `json:"current"`
}

type BudgetHandler struct {
	budgetService BudgetService
}

func NewBudgetHandler(budgetService BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService}
}

func (handler *BudgetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	budgets, err := handler.budgetService.GetAll(r.Context())
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	budgetsDTO := make([]BudgetDTO, 0, len(budgets))
	for _, budget := range budgets {
		budgetsDTO = append(budgetsDTO, BudgetToDTO(budget))
	}
	rest.WriteJSON(w, http.StatusOK, budgetsDTO)
}

// Register godoc
// @Summary Create a budget
// @Tags Budget
// @Accept json
// @Produce json
// @Param budget body BudgetDTO true "Budget"
// @Success 201 {object} BudgetDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid budget"
// @Failure 409 {object} rest.ErrorResponse "Main budget already exists"
// @Router /api/budget [post]
// @Security XUserId
func (handler *BudgetHandler) Register(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new budget")
	var budgetDTO BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&budgetDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	budget, err := DTOToBudget(budgetDTO)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget type", err.Error())
		return
	}

	created, err := handler.budgetService.Create(r.Context(), budget)
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, BudgetToDTO(created))
}

func (handler *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	budgetId, ok := budgetIdFromPath(w, r)
	if !ok {
		return
	}
	deleted, err := handler.budgetService.Delete(r.Context(), budgetId)
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	if !deleted {
		writeBudgetError(w, ErrBudgetNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPacing godoc
// @Summary Pacing of the budget's current period
// @Tags Budget
// @Produce json
// @Param id path int true "Budget ID"
// @Success 200 {object} PacingDTO
// @Failure 404 {object} rest.ErrorResponse "Budget not found"
// @Router /api/budget/{id}/pacing [get]
// @Security XUserId
func (handler *BudgetHandler) GetPacing(w http.ResponseWriter, r *http.Request) {
	budgetId, ok := budgetIdFromPath(w, r)
	if !ok {
		return
	}
	pacing, err := handler.budgetService.Pacing(r.Context(), budgetId)
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, PacingToDTO(pacing))
}

func (handler *BudgetHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	budgetId, ok := budgetIdFromPath(w, r)
	if !ok {
		return
	}
	periods := 0
	if value := r.URL.Query().Get("periods"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid periods", "periods must be a positive integer")
			return
		}
		periods = parsed
	}

	history, err := handler.budgetService.History(r.Context(), budgetId, periods)
	if err != nil {
		writeBudgetError(w, err)
		return
	}
	result := make([]PeriodSpendDTO, 0, len(history))
	for _, p := range history {
		result = append(result, PeriodSpendDTO{
			Start:      p.Start,
			End:        p.End,
			Amount:     p.Amount,
			Spent:      p.Spent,
			OverBudget: p.OverBudget,
			Current:    p.Current,
		})
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

func budgetIdFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	budgetId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget id", err.Error())
		return 0, false
	}
	return budgetId, true
}

func writeBudgetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
	case errors.Is(err, ErrBudgetNotFound):
		rest.WriteError(w, http.StatusNotFound, "Budget not found", "")
	case errors.Is(err, ErrMainBudgetExists):
		rest.WriteError(w, http.StatusConflict, "Main budget already exists", "")
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrMissingStartDate),
		errors.Is(err, ErrInvalidCategory), errors.Is(err, period.ErrInvalidPeriodType):
		rest.WriteError(w, http.StatusBadRequest, "Invalid budget data", err.Error())
	default:
		log.Errorf("budget request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

func BudgetToDTO(budget Budget) BudgetDTO {
	return BudgetDTO{
		ID:         budget.ID,
		Name:       budget.Name,
		Amount:     budget.Amount,
		Type:       string(budget.Type),
		StartDate:  budget.StartDate,
		CategoryId: budget.CategoryId,
		Main:       budget.IsMain(),
	}
}

func DTOToBudget(budgetDTO BudgetDTO) (Budget, error) {
	periodType, err := period.ParseType(budgetDTO.Type)
	if err != nil {
		return Budget{}, err
	}
	return Budget{
		ID:         budgetDTO.ID,
		Name:       budgetDTO.Name,
		Amount:     budgetDTO.Amount,
		Type:       periodType,
		StartDate:  budgetDTO.StartDate,
		CategoryId: budgetDTO.CategoryId,
	}, nil
}

func PacingToDTO(pacing PacingSummary) PacingDTO {
	return PacingDTO{
		PeriodStart:             pacing.PeriodStart,
		PeriodEnd:               pacing.PeriodEnd,
		Amount:                  pacing.Amount,
		SpentToDate:             pacing.SpentToDate,
		Difference:              pacing.Difference,
		FractionTimeElapsed:     pacing.FractionTimeElapsed,
		FractionBudgetRemaining: pacing.FractionBudgetRemaining,
		TargetPercent:           pacing.TargetPercent,
		PaceState:               string(pacing.PaceState),
		LeftPerDay:              pacing.LeftPerDay,
		TotalUnits:              pacing.TotalUnits,
		ElapsedUnits:            pacing.ElapsedUnits,
		DaysLeft:                pacing.DaysLeft,
		OverBudget:              pacing.OverBudget,
	}
}
