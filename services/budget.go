package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku-api/models"
	"github.com/dompetku/dompetku-api/utils"
)

// AllCategoriesScope names the scope of a plan without a category.
const AllCategoriesScope = "Semua Kategori"

var ErrInvalidThreshold = errors.New("alert threshold must be between 0 and 100")

// DuplicatePlanError reports a second active plan for a category scope that
// already has one. Scope carries the display name of the conflicting
// category for the user-facing message.
type DuplicatePlanError struct {
	Scope string
}

func (e *DuplicatePlanError) Error() string {
	return fmt.Sprintf("active budget plan for %q already exists", e.Scope)
}

type BudgetService struct {
	db           *sql.DB
	transactions *TransactionService
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{db: db, transactions: NewTransactionService(db)}
}

// scopeName resolves the display name of a plan's category scope.
func (s *BudgetService) scopeName(ctx context.Context, categoryID *string) string {
	if categoryID == nil {
		return AllCategoriesScope
	}

	var name, icon string
	err := s.db.QueryRowContext(ctx, `SELECT name, icon FROM categories WHERE id = $1`, *categoryID).Scan(&name, &icon)
	if err != nil {
		return AllCategoriesScope
	}
	return icon + " " + name
}

// checkCategoryOwned verifies the scoped category exists and belongs to the
// requesting user, so a plan can never be pinned to someone else's category.
func (s *BudgetService) checkCategoryOwned(ctx context.Context, userID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)
	`, *categoryID, userID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

// uniqueScopeQuery builds the EXISTS check enforcing one active plan per
// (user, category scope). A nil category must be matched with IS NULL:
// equality against NULL never matches in SQL, which is exactly how duplicate
// all-categories plans would slip through. excludeID skips the plan being
// edited.
func uniqueScopeQuery(userID string, categoryID *string, excludeID string) (string, []interface{}) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM budget_plans
			WHERE user_id = $1 AND is_active AND id != $2
	`
	args := []interface{}{userID, excludeID}

	if categoryID == nil {
		query += " AND category_id IS NULL)"
	} else {
		query += " AND category_id = $3)"
		args = append(args, *categoryID)
	}

	return query, args
}

func (s *BudgetService) checkUnique(ctx context.Context, userID string, categoryID *string, excludeID string) error {
	query, args := uniqueScopeQuery(userID, categoryID, excludeID)

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return &DuplicatePlanError{Scope: s.scopeName(ctx, categoryID)}
	}
	return nil
}

func parsePlanRequest(req models.BudgetPlanRequest) (decimal.Decimal, decimal.Decimal, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, ErrInvalidAmount
	}

	threshold, err := decimal.NewFromString(req.AlertThreshold)
	if err != nil || threshold.IsNegative() || threshold.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, decimal.Zero, ErrInvalidThreshold
	}

	return amount, threshold, nil
}

// periodRange derives the plan window the same way the UI did: weekly plans
// run seven days from today, monthly plans cover the current calendar month.
func periodRange(periodType string, now time.Time) (time.Time, time.Time) {
	if periodType == "weekly" {
		return now, now.AddDate(0, 0, 7)
	}
	return MonthRange(now)
}

func (s *BudgetService) Create(ctx context.Context, userID string, req models.BudgetPlanRequest) (*models.BudgetPlan, error) {
	amount, threshold, err := parsePlanRequest(req)
	if err != nil {
		return nil, err
	}

	var categoryID *string
	if req.CategoryID != "" {
		categoryID = &req.CategoryID
	}

	if err := s.checkCategoryOwned(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, userID, categoryID, uuid.Nil.String()); err != nil {
		return nil, err
	}

	start, end := periodRange(req.PeriodType, time.Now())

	plan := &models.BudgetPlan{
		ID:             uuid.New().String(),
		UserID:         userID,
		CategoryID:     categoryID,
		Amount:         amount,
		PeriodType:     req.PeriodType,
		StartDate:      start,
		EndDate:        end,
		AlertThreshold: threshold,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO budget_plans (id, user_id, category_id, amount, period_type, start_date, end_date, alert_threshold, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, plan.ID, plan.UserID, plan.CategoryID, plan.Amount, plan.PeriodType,
		plan.StartDate, plan.EndDate, plan.AlertThreshold, plan.IsActive,
		plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		// The partial unique index closes the read-then-write race two
		// concurrent creates could otherwise win together.
		if utils.IsUniqueViolation(err, "idx_budget_plans_active_scope") {
			return nil, &DuplicatePlanError{Scope: s.scopeName(ctx, categoryID)}
		}
		return nil, err
	}

	return plan, nil
}

func (s *BudgetService) Update(ctx context.Context, userID, id string, req models.BudgetPlanRequest) (*models.BudgetPlan, error) {
	amount, threshold, err := parsePlanRequest(req)
	if err != nil {
		return nil, err
	}

	var categoryID *string
	if req.CategoryID != "" {
		categoryID = &req.CategoryID
	}

	if err := s.checkCategoryOwned(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, userID, categoryID, id); err != nil {
		return nil, err
	}

	start, end := periodRange(req.PeriodType, time.Now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE budget_plans
		SET category_id = $1, amount = $2, period_type = $3, start_date = $4, end_date = $5,
		    alert_threshold = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
	`, categoryID, amount, req.PeriodType, start, end, threshold, id, userID)
	if err != nil {
		if utils.IsUniqueViolation(err, "idx_budget_plans_active_scope") {
			return nil, &DuplicatePlanError{Scope: s.scopeName(ctx, categoryID)}
		}
		return nil, err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, userID, id)
}

func (s *BudgetService) GetByID(ctx context.Context, userID, id string) (*models.BudgetPlan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.user_id, p.category_id, p.amount, p.period_type, p.start_date, p.end_date,
		       p.alert_threshold, p.is_active, p.created_at, p.updated_at,
		       c.name, c.icon, c.color, c.type
		FROM budget_plans p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1 AND p.user_id = $2
	`, id, userID)

	plan, err := scanPlanWithCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func scanPlanWithCategory(row rowScanner) (models.BudgetPlan, error) {
	var p models.BudgetPlan
	var catID sql.NullString
	var catName, catIcon, catColor, catType sql.NullString

	err := row.Scan(&p.ID, &p.UserID, &catID, &p.Amount, &p.PeriodType, &p.StartDate,
		&p.EndDate, &p.AlertThreshold, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&catName, &catIcon, &catColor, &catType)
	if err != nil {
		return p, err
	}

	if catID.Valid {
		p.CategoryID = &catID.String
		p.Category = &models.Category{
			ID:    catID.String,
			Name:  catName.String,
			Icon:  catIcon.String,
			Color: catColor.String,
			Type:  models.TransactionType(catType.String),
		}
	}

	return p, nil
}

// ListActive returns the user's active plans, newest first.
func (s *BudgetService) ListActive(ctx context.Context, userID string) ([]models.BudgetPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.category_id, p.amount, p.period_type, p.start_date, p.end_date,
		       p.alert_threshold, p.is_active, p.created_at, p.updated_at,
		       c.name, c.icon, c.color, c.type
		FROM budget_plans p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.user_id = $1 AND p.is_active
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []models.BudgetPlan{}
	for rows.Next() {
		plan, err := scanPlanWithCategory(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

// ListWithStatus returns each active plan with its derived spending status.
func (s *BudgetService) ListWithStatus(ctx context.Context, userID string) ([]models.BudgetPlanWithStatus, error) {
	plans, err := s.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.BudgetPlanWithStatus, 0, len(plans))
	for _, plan := range plans {
		expenses, err := s.transactions.ListExpensesInRange(ctx, userID, plan.CategoryID, plan.StartDate, plan.EndDate)
		if err != nil {
			return nil, err
		}
		result = append(result, models.BudgetPlanWithStatus{
			BudgetPlan:   plan,
			BudgetStatus: ComputeBudgetStatus(plan, expenses),
		})
	}

	return result, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_alerts WHERE budget_plan_id = $1 AND user_id = $2`, id, userID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM budget_plans WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// EvaluateAlerts recomputes every active plan's status and records an alert
// for each plan that crossed its threshold and has no unread alert yet.
// Returns the alerts it created. Called after expense mutations; failures
// here must not fail the mutation, so callers only log the error.
func (s *BudgetService) EvaluateAlerts(ctx context.Context, userID string) ([]models.BudgetAlert, error) {
	statuses, err := s.ListWithStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	created := []models.BudgetAlert{}
	for _, ps := range statuses {
		if !ps.IsOverBudget && !ps.IsNearLimit {
			continue
		}

		var hasUnread bool
		err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM budget_alerts
				WHERE budget_plan_id = $1 AND NOT is_read
			)
		`, ps.ID).Scan(&hasUnread)
		if err != nil {
			return created, err
		}
		if hasUnread {
			continue
		}

		scope := AllCategoriesScope
		if ps.Category != nil {
			scope = ps.Category.Name
		}

		alert := models.BudgetAlert{
			ID:              uuid.New().String(),
			UserID:          userID,
			BudgetPlanID:    ps.ID,
			CurrentSpending: ps.CurrentSpending,
			BudgetLimit:     ps.Amount,
			AlertMessage:    BuildAlertMessage(scope, ps.BudgetStatus, ps.Amount),
			CreatedAt:       time.Now(),
		}

		_, err = s.db.ExecContext(ctx, `
			INSERT INTO budget_alerts (id, user_id, budget_plan_id, current_spending, budget_limit, alert_message, is_read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
		`, alert.ID, alert.UserID, alert.BudgetPlanID, alert.CurrentSpending,
			alert.BudgetLimit, alert.AlertMessage, alert.CreatedAt)
		if err != nil {
			return created, err
		}

		created = append(created, alert)
	}

	return created, nil
}

// ListAlerts returns the most recent alerts with plan context.
func (s *BudgetService) ListAlerts(ctx context.Context, userID string, limit int) ([]models.BudgetAlert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.budget_plan_id, a.current_spending, a.budget_limit,
		       a.alert_message, a.is_read, a.created_at,
		       p.period_type, c.name, c.icon
		FROM budget_alerts a
		JOIN budget_plans p ON a.budget_plan_id = p.id
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []models.BudgetAlert{}
	for rows.Next() {
		var a models.BudgetAlert
		var periodType string
		var catName, catIcon sql.NullString

		err := rows.Scan(&a.ID, &a.UserID, &a.BudgetPlanID, &a.CurrentSpending,
			&a.BudgetLimit, &a.AlertMessage, &a.IsRead, &a.CreatedAt,
			&periodType, &catName, &catIcon)
		if err != nil {
			return nil, err
		}

		a.Plan = &models.BudgetPlan{ID: a.BudgetPlanID, PeriodType: periodType}
		if catName.Valid {
			a.Plan.Category = &models.Category{Name: catName.String, Icon: catIcon.String}
		}

		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

func (s *BudgetService) MarkAlertRead(ctx context.Context, userID, alertID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE budget_alerts SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, alertID, userID)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAlertsRead marks every unread alert read and returns how many.
func (s *BudgetService) MarkAllAlertsRead(ctx context.Context, userID string) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE budget_alerts SET is_read = TRUE WHERE user_id = $1 AND NOT is_read
	`, userID)
	if err != nil {
		return 0, err
	}

	affected, _ := result.RowsAffected()
	return int(affected), nil
}

// CleanupReadAlerts drops read alerts older than 90 days. Runs on a ticker
// from main.
func CleanupReadAlerts(db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `DELETE FROM budget_alerts WHERE is_read AND created_at < NOW() - INTERVAL '90 days'`)
	if err != nil {
		log.Printf("❌ Alert cleanup failed: %v", err)
		return
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		log.Printf("🧹 Cleaned %d old budget alerts", rows)
	}
}
