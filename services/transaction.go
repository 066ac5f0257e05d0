package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku-api/models"
)

const transactionsPerPage = 20

var (
	ErrInvalidAmount = errors.New("amount must be a non-negative number")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrTypeMismatch  = errors.New("transaction type does not match category type")
)

type TransactionService struct {
	db *sql.DB
}

func NewTransactionService(db *sql.DB) *TransactionService {
	return &TransactionService{db: db}
}

// buildFilterClause translates the query-string filter state into a WHERE
// fragment. The returned args always start with userID.
func buildFilterClause(userID string, f models.TransactionFilter) (string, []interface{}) {
	clauses := []string{"t.user_id = $1"}
	args := []interface{}{userID}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.Search != "" {
		add("t.description ILIKE $%d", "%"+f.Search+"%")
	}
	if f.Type != "" && f.Type != "all" {
		add("t.type = $%d", f.Type)
	}
	if f.CategoryID != "" && f.CategoryID != "all" {
		add("t.category_id = $%d", f.CategoryID)
	}
	if f.DateFrom != "" {
		add("t.date >= $%d", f.DateFrom)
	}
	if f.DateTo != "" {
		add("t.date <= $%d", f.DateTo)
	}

	return strings.Join(clauses, " AND "), args
}

// List returns one page of transactions plus the count and the
// income/expense totals over the WHOLE filtered set, not just the page.
func (s *TransactionService) List(ctx context.Context, userID string, filter models.TransactionFilter) (*models.TransactionPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = transactionsPerPage
	}

	where, args := buildFilterClause(userID, filter)

	var count int
	var totalIncome, totalExpense decimal.Decimal
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*),
		       COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0),
		       COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0)
		FROM transactions t
		WHERE %s
	`, where), args...).Scan(&count, &totalIncome, &totalExpense)
	if err != nil {
		return nil, err
	}

	offset := (filter.Page - 1) * filter.Limit
	pageArgs := append(args, filter.Limit, offset)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT t.id, t.user_id, t.category_id, t.type, t.amount, t.description, t.date,
		       t.created_at, t.updated_at,
		       c.name, c.icon, c.color, c.type
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE %s
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2), pageArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransactionWithCategory(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := (count + filter.Limit - 1) / filter.Limit

	return &models.TransactionPage{
		Transactions: transactions,
		Count:        count,
		Page:         filter.Page,
		TotalPages:   totalPages,
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransactionWithCategory(row rowScanner) (models.Transaction, error) {
	var t models.Transaction
	var catName, catIcon, catColor, catType sql.NullString

	err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.Amount, &t.Description,
		&t.Date, &t.CreatedAt, &t.UpdatedAt, &catName, &catIcon, &catColor, &catType)
	if err != nil {
		return t, err
	}

	if catName.Valid {
		t.Category = &models.Category{
			ID:    t.CategoryID,
			Name:  catName.String,
			Icon:  catIcon.String,
			Color: catColor.String,
			Type:  models.TransactionType(catType.String),
		}
	}

	return t, nil
}

func (s *TransactionService) parseRequest(req models.TransactionRequest) (decimal.Decimal, time.Time, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, time.Time{}, ErrInvalidAmount
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return decimal.Zero, time.Time{}, ErrInvalidDate
	}

	return amount, date, nil
}

// checkCategory verifies ownership of the category and that the transaction
// type is consistent with it.
func (s *TransactionService) checkCategory(ctx context.Context, userID, categoryID, txType string) error {
	var catType string
	err := s.db.QueryRowContext(ctx, `
		SELECT type FROM categories WHERE id = $1 AND user_id = $2
	`, categoryID, userID).Scan(&catType)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if catType != txType {
		return ErrTypeMismatch
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, userID string, req models.TransactionRequest) (*models.Transaction, error) {
	amount, date, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, req.CategoryID, req.Type); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Type:        models.TransactionType(req.Type),
		Amount:      amount,
		Description: req.Description,
		Date:        date,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, category_id, type, amount, description, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.UserID, t.CategoryID, t.Type, t.Amount, t.Description, t.Date, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id string, req models.TransactionRequest) (*models.Transaction, error) {
	amount, date, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, req.CategoryID, req.Type); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = $1, type = $2, amount = $3, description = $4, date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
	`, req.CategoryID, req.Type, amount, req.Description, date, id, userID)
	if err != nil {
		return nil, err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, userID, id)
}

func (s *TransactionService) GetByID(ctx context.Context, userID, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.user_id, t.category_id, t.type, t.amount, t.description, t.date,
		       t.created_at, t.updated_at,
		       c.name, c.icon, c.color, c.type
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.id = $1 AND t.user_id = $2
	`, id, userID)

	t, err := scanTransactionWithCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListExpensesInRange returns the expense transactions a budget plan scopes
// over: inside [start, end], optionally limited to one category.
func (s *TransactionService) ListExpensesInRange(ctx context.Context, userID string, categoryID *string, start, end time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, type, amount, description, date, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND date >= $2 AND date <= $3
	`
	args := []interface{}{userID, start, end}
	if categoryID != nil {
		query += " AND category_id = $4"
		args = append(args, *categoryID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.Amount,
			&t.Description, &t.Date, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// ListByYear returns all transactions of a calendar year with their category
// joined, newest first, for the report rollups.
func (s *TransactionService) ListByYear(ctx context.Context, userID string, year int) ([]models.Transaction, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.category_id, t.type, t.amount, t.description, t.date,
		       t.created_at, t.updated_at,
		       c.name, c.icon, c.color, c.type
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
		ORDER BY t.date DESC
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransactionWithCategory(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// ListRecent returns the latest transactions for the dashboard.
func (s *TransactionService) ListRecent(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.category_id, t.type, t.amount, t.description, t.date,
		       t.created_at, t.updated_at,
		       c.name, c.icon, c.color, c.type
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransactionWithCategory(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// ListInRange returns all transactions between two dates, used by the
// dashboard month summary.
func (s *TransactionService) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category_id, type, amount, description, date, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.Amount,
			&t.Description, &t.Date, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}
