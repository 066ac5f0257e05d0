package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dompetku/dompetku-api/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateCategory = errors.New("category with this name already exists")
	ErrCategoryInUse     = errors.New("category is referenced by transactions or budget plans")
)

type CategoryService struct {
	db *sql.DB
}

func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, type, icon, color, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (s *CategoryService) GetByID(ctx context.Context, userID, id string) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, type, icon, color, created_at, updated_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`

	var c models.Category
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *CategoryService) Create(ctx context.Context, userID string, req models.CategoryRequest) (*models.Category, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE user_id = $1 AND name = $2 AND type = $3
		)
	`, userID, req.Name, req.Type).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateCategory
	}

	category := &models.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Type:      models.TransactionType(req.Type),
		Icon:      req.Icon,
		Color:     req.Color,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, type, icon, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, category.ID, category.UserID, category.Name, category.Type, category.Icon, category.Color,
		category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id string, req models.CategoryRequest) (*models.Category, error) {
	// Reject renames that collide with another category of the same type
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE user_id = $1 AND name = $2 AND type = $3 AND id != $4
		)
	`, userID, req.Name, req.Type, id).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateCategory
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $1, type = $2, icon = $3, color = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
	`, req.Name, req.Type, req.Icon, req.Color, id, userID)
	if err != nil {
		return nil, err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, userID, id)
}

// Delete removes a category only when nothing references it, mirroring the
// guard the UI runs before offering deletion.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	var inUse bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE category_id = $1)
		    OR EXISTS(SELECT 1 FROM budget_plans WHERE category_id = $1)
	`, id).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM categories WHERE id = $1 AND user_id = $2
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
