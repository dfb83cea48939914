package transaction

import (
	"context"
	"sort"
	"time"
)

type RepositoryStub struct {
	nextId       int
	transactions map[int]storedTransaction
	categories   map[int]storedCategory
}

type storedTransaction struct {
	userId int
	Transaction
}

type storedCategory struct {
	userId int
	Category
}

func NewStubRepo() *RepositoryStub {
	return &RepositoryStub{
		transactions: map[int]storedTransaction{},
		categories:   map[int]storedCategory{},
	}
}

func (s *RepositoryStub) Store(ctx context.Context, userId int, t Transaction) (int, error) {
	s.nextId++
	t.Id = s.nextId
	s.transactions[t.Id] = storedTransaction{userId, t}
	return t.Id, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id int) (Transaction, bool, error) {
	stored, ok := s.transactions[id]
	if !ok || stored.userId != userId {
		return Transaction{}, false, nil
	}
	delete(s.transactions, id)
	return stored.Transaction, true, nil
}

func (s *RepositoryStub) GetBetween(ctx context.Context, userId int, from time.Time, to time.Time) ([]Transaction, error) {
	result := make([]Transaction, 0)
	for _, stored := range s.transactions {
		if stored.userId != userId || stored.Date.Before(from) || !stored.Date.Before(to) {
			continue
		}
		result = append(result, stored.Transaction)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].Id < result[j].Id
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func (s *RepositoryStub) FindOldestDate(ctx context.Context, userId int) (*time.Time, error) {
	var oldest *time.Time
	for _, stored := range s.transactions {
		if stored.userId != userId {
			continue
		}
		if oldest == nil || stored.Date.Before(*oldest) {
			date := stored.Date
			oldest = &date
		}
	}
	return oldest, nil
}

func (s *RepositoryStub) StoreCategory(ctx context.Context, userId int, category Category) (int, error) {
	s.nextId++
	category.Id = s.nextId
	s.categories[category.Id] = storedCategory{userId, category}
	return category.Id, nil
}

func (s *RepositoryStub) GetCategories(ctx context.Context, userId int) ([]Category, error) {
	result := make([]Category, 0)
	for _, stored := range s.categories {
		if stored.userId == userId {
			result = append(result, stored.Category)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order == result[j].Order {
			return result[i].Id < result[j].Id
		}
		return result[i].Order < result[j].Order
	})
	return result, nil
}

func (s *RepositoryStub) GetCategory(ctx context.Context, userId int, id int) (Category, error) {
	stored, ok := s.categories[id]
	if !ok || stored.userId != userId {
		return Category{}, ErrCategoryNotFound
	}
	return stored.Category, nil
}

func (s *RepositoryStub) Cleanup() {
	s.transactions = map[int]storedTransaction{}
	s.categories = map[int]storedCategory{}
}
