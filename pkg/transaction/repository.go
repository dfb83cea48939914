package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrCategoryNotFound = errors.New("category not found")

type Repository interface {
	Store(ctx context.Context, userId int, t Transaction) (int, error)
	Delete(ctx context.Context, userId int, id int) (Transaction, bool, error)
	// GetBetween returns the transactions dated in [from, to), oldest first.
	GetBetween(ctx context.Context, userId int, from time.Time, to time.Time) ([]Transaction, error)
	FindOldestDate(ctx context.Context, userId int) (*time.Time, error)
	StoreCategory(ctx context.Context, userId int, category Category) (int, error)
	GetCategories(ctx context.Context, userId int) ([]Category, error)
	GetCategory(ctx context.Context, userId int, id int) (Category, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, userId int, t Transaction) (int, error) {
	query := `INSERT INTO transactions (user_id, date, day, amount, income, category_id, note)
			  VALUES ($1, $2, $3, $4::numeric, $5, $6, $7) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		t.Date,
		t.Day,
		t.Amount.String(),
		t.Income,
		t.CategoryId,
		t.Note,
	).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id int) (Transaction, bool, error) {
	query := `DELETE FROM transactions WHERE user_id = $1 AND id = $2
			  RETURNING id, date, day, amount::text, income, category_id, note`
	t, err := scanTransaction(r.db.QueryRow(ctx, query, userId, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, false, nil
	}
	if err != nil {
		log.Errorf("failed to delete transaction %d: %v", id, err)
		return Transaction{}, false, err
	}
	return t, true, nil
}

func (r *RepositoryImpl) GetBetween(ctx context.Context, userId int, from time.Time, to time.Time) ([]Transaction, error) {
	query := `SELECT id, date, day, amount::text, income, category_id, note
			  FROM transactions
			  WHERE user_id = $1 AND date >= $2 AND date < $3
			  ORDER BY date, id`
	rows, err := r.db.Query(ctx, query, userId, from, to)
	if err != nil {
		return nil, fmt.Errorf("could not query transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *RepositoryImpl) FindOldestDate(ctx context.Context, userId int) (*time.Time, error) {
	var oldest *time.Time
	err := r.db.QueryRow(ctx, `SELECT MIN(date) FROM transactions WHERE user_id = $1`, userId).Scan(&oldest)
	if err != nil {
		return nil, fmt.Errorf("could not find oldest transaction: %w", err)
	}
	return oldest, nil
}

func (r *RepositoryImpl) StoreCategory(ctx context.Context, userId int, category Category) (int, error) {
	query := `INSERT INTO category (user_id, name, income, position, color) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query, userId, category.Name, category.Income, category.Order, category.Color).Scan(&id)
	if err != nil {
		err := fmt.Errorf("could not store category: %w", err)
		log.Error(err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetCategories(ctx context.Context, userId int) ([]Category, error) {
	query := `SELECT id, name, income, position, color FROM category WHERE user_id = $1 ORDER BY income, position, id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		return nil, fmt.Errorf("could not query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Id, &c.Name, &c.Income, &c.Order, &c.Color); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *RepositoryImpl) GetCategory(ctx context.Context, userId int, id int) (Category, error) {
	query := `SELECT id, name, income, position, color FROM category WHERE user_id = $1 AND id = $2`
	var c Category
	err := r.db.QueryRow(ctx, query, userId, id).Scan(&c.Id, &c.Name, &c.Income, &c.Order, &c.Color)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	var amount string
	if err := row.Scan(&t.Id, &t.Date, &t.Day, &amount, &t.Income, &t.CategoryId, &t.Note); err != nil {
		return Transaction{}, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid amount %q stored for transaction %d: %w", amount, t.Id, err)
	}
	t.Amount = parsed
	return t, nil
}
