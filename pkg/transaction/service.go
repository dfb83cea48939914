package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klokku/spendpace/internal/event_bus"
	"github.com/klokku/spendpace/pkg/user"
	log "github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction not found")
var ErrCategoryMismatch = errors.New("category direction does not match the transaction")
var ErrInvalidCategory = errors.New("invalid category")

type Service interface {
	Create(ctx context.Context, t Transaction) (Transaction, error)
	Delete(ctx context.Context, id int) error
	GetBetween(ctx context.Context, from, to time.Time) ([]Transaction, error)
	OldestDate(ctx context.Context) (*time.Time, error)
	Categories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, category Category) (Category, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

// Create validates the transaction, derives its calendar day in the user's timezone and stores it.
func (s *ServiceImpl) Create(ctx context.Context, t Transaction) (Transaction, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	if t.CategoryId != nil {
		category, err := s.repo.GetCategory(ctx, currentUser.Id, *t.CategoryId)
		if err != nil {
			return Transaction{}, err
		}
		if category.Income != t.Income {
			return Transaction{}, ErrCategoryMismatch
		}
	}

	t = t.Normalize(currentUser.Settings.Location())
	id, err := s.repo.Store(ctx, currentUser.Id, t)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to store transaction: %w", err)
	}
	t.Id = id
	log.Debugf("stored transaction %d for user %d", t.Id, currentUser.Id)

	s.publish(ctx, event_bus.TransactionChanged{UserId: currentUser.Id, TransactionId: t.Id, Date: t.Date})
	return t, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, ok, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if !ok {
		return ErrTransactionNotFound
	}
	s.publish(ctx, event_bus.TransactionChanged{UserId: userId, TransactionId: id, Date: deleted.Date, Deleted: true})
	return nil
}

// GetBetween returns the snapshot of transactions dated in [from, to).
func (s *ServiceImpl) GetBetween(ctx context.Context, from, to time.Time) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetBetween(ctx, userId, from, to)
}

// OldestDate returns nil when the user has no transactions.
func (s *ServiceImpl) OldestDate(ctx context.Context) (*time.Time, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindOldestDate(ctx, userId)
}

func (s *ServiceImpl) Categories(ctx context.Context) ([]Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetCategories(ctx, userId)
}

func (s *ServiceImpl) CreateCategory(ctx context.Context, category Category) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return Category{}, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	id, err := s.repo.StoreCategory(ctx, userId, category)
	if err != nil {
		return Category{}, fmt.Errorf("failed to store category: %w", err)
	}
	category.Id = id
	return category, nil
}

func (s *ServiceImpl) publish(ctx context.Context, changed event_bus.TransactionChanged) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TransactionChangedType, changed))
	if err != nil {
		log.Errorf("failed to publish transaction change for user %d: %v", changed.UserId, err)
	}
}
