package store

import (
	"context"

	"github.com/eleven-am/keep/internal/domain"
)

var categoryColumns = []string{"id", "user_id", "name", "color", "created_at"}

// Categories persists category tags.
type Categories struct {
	db DBExecutor
}

func NewCategories(db DBExecutor) *Categories {
	return &Categories{db: db}
}

// ListByUser returns all categories owned by a user, oldest first.
func (r *Categories) ListByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	query, args, err := psql.Select(categoryColumns...).
		From("categories").
		Where("user_id = ?", userID).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, domain.NewOperationFailed("build category query", err)
	}

	categories := []domain.Category{}
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, translateError(err, "fetch categories", "Category", "")
	}
	return categories, nil
}

// GetByID returns one category.
func (r *Categories) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query, args, err := psql.Select(categoryColumns...).
		From("categories").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, domain.NewOperationFailed("build category query", err)
	}

	var category domain.Category
	if err := r.db.GetContext(ctx, &category, query, args...); err != nil {
		return nil, translateError(err, "fetch category", "Category", id)
	}
	return &category, nil
}

// FindByUserAndName returns the category with the given owner and name, or
// a NotFoundError when none exists. Name comparison uses the stored
// (trimmed) form.
func (r *Categories) FindByUserAndName(ctx context.Context, userID, name string) (*domain.Category, error) {
	query, args, err := psql.Select(categoryColumns...).
		From("categories").
		Where("user_id = ?", userID).
		Where("name = ?", name).
		ToSql()
	if err != nil {
		return nil, domain.NewOperationFailed("build category query", err)
	}

	var category domain.Category
	if err := r.db.GetContext(ctx, &category, query, args...); err != nil {
		return nil, translateError(err, "fetch category", "Category", "")
	}
	return &category, nil
}

// CountByUser returns the number of categories a user owns.
func (r *Categories) CountByUser(ctx context.Context, userID string) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("categories").
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return 0, domain.NewOperationFailed("build category count", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, translateError(err, "count categories", "Category", "")
	}
	return count, nil
}

// Insert creates a category row. A unique-index race on (user_id, name)
// surfaces as a ConflictError, matching the lookup-before-insert check in
// the service layer.
func (r *Categories) Insert(ctx context.Context, c *domain.Category) error {
	query, args, err := psql.Insert("categories").
		Columns(categoryColumns...).
		Values(c.ID, c.UserID, c.Name, c.Color, c.CreatedAt).
		ToSql()
	if err != nil {
		return domain.NewOperationFailed("build category insert", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflict("Category with this name already exists")
		}
		return translateError(err, "create category", "Category", "")
	}
	return nil
}

// CategoryPatch carries the fields of a partial category update. Nil fields
// keep their prior value.
type CategoryPatch struct {
	Name  *string
	Color *string
}

// Update applies a partial update. A patch with no fields set is a no-op.
func (r *Categories) Update(ctx context.Context, id string, patch CategoryPatch) error {
	if patch.Name == nil && patch.Color == nil {
		return nil
	}

	builder := psql.Update("categories").Where("id = ?", id)
	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
	}
	if patch.Color != nil {
		builder = builder.Set("color", *patch.Color)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return domain.NewOperationFailed("build category update", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflict("Category with this name already exists")
		}
		return translateError(err, "update category", "Category", id)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return domain.NewNotFound("Category", id)
	}
	return nil
}

// Delete removes a category row.
func (r *Categories) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("categories").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return domain.NewOperationFailed("build category delete", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateError(err, "delete category", "Category", id)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return domain.NewNotFound("Category", id)
	}
	return nil
}
