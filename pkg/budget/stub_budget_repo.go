package budget

import (
	"context"
	"sort"
)

type StubBudgetRepo struct {
	nextId  int
	budgets map[int]storedBudget
}

type storedBudget struct {
	userId int
	Budget
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{budgets: map[int]storedBudget{}}
}

func (s *StubBudgetRepo) Store(ctx context.Context, userId int, budget Budget) (int, error) {
	s.nextId++
	budget.ID = s.nextId
	s.budgets[budget.ID] = storedBudget{userId, budget}
	return budget.ID, nil
}

func (s *StubBudgetRepo) GetAll(ctx context.Context, userId int) ([]Budget, error) {
	result := make([]Budget, 0)
	for _, stored := range s.budgets {
		if stored.userId == userId {
			result = append(result, stored.Budget)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsMain() != result[j].IsMain() {
			return result[i].IsMain()
		}
		if result[i].Position != result[j].Position {
			return result[i].Position < result[j].Position
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *StubBudgetRepo) Get(ctx context.Context, userId int, id int) (Budget, error) {
	stored, ok := s.budgets[id]
	if !ok || stored.userId != userId {
		return Budget{}, ErrBudgetNotFound
	}
	return stored.Budget, nil
}

func (s *StubBudgetRepo) FindMaxPosition(ctx context.Context, userId int) (int, error) {
	maxPosition := 0
	for _, stored := range s.budgets {
		if stored.userId == userId && stored.Position > maxPosition {
			maxPosition = stored.Position
		}
	}
	return maxPosition, nil
}

func (s *StubBudgetRepo) Delete(ctx context.Context, userId int, id int) (bool, error) {
	stored, ok := s.budgets[id]
	if !ok || stored.userId != userId {
		return false, nil
	}
	delete(s.budgets, id)
	return true, nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.nextId = 0
	s.budgets = map[int]storedBudget{}
}
