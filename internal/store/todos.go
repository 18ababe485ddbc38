package store

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/eleven-am/keep/internal/domain"
)

var todoColumns = []string{
	"id", "user_id", "category_id", "title", "description",
	"completed", "created_at", "updated_at",
}

// Todos persists task items.
type Todos struct {
	db DBExecutor
}

func NewTodos(db DBExecutor) *Todos {
	return &Todos{db: db}
}

func (r *Todos) selectTodos(ctx context.Context, builder squirrel.SelectBuilder) ([]domain.Todo, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, domain.NewOperationFailed("build todo query", err)
	}

	todos := []domain.Todo{}
	if err := r.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, translateError(err, "fetch todos", "Todo", "")
	}
	return todos, nil
}

// ListByUser returns all todos owned by a user, oldest first.
func (r *Todos) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	return r.selectTodos(ctx, psql.Select(todoColumns...).
		From("todos").
		Where("user_id = ?", userID).
		OrderBy("created_at", "id"))
}

// ListByUserAndCategory returns a user's todos tagged with one category.
func (r *Todos) ListByUserAndCategory(ctx context.Context, userID, categoryID string) ([]domain.Todo, error) {
	return r.selectTodos(ctx, psql.Select(todoColumns...).
		From("todos").
		Where("user_id = ?", userID).
		Where("category_id = ?", categoryID).
		OrderBy("created_at", "id"))
}

// ListUncategorized returns a user's todos with no category set.
func (r *Todos) ListUncategorized(ctx context.Context, userID string) ([]domain.Todo, error) {
	return r.selectTodos(ctx, psql.Select(todoColumns...).
		From("todos").
		Where("user_id = ?", userID).
		Where(squirrel.Eq{"category_id": nil}).
		OrderBy("created_at", "id"))
}

// GetByID returns one todo.
func (r *Todos) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	query, args, err := psql.Select(todoColumns...).
		From("todos").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, domain.NewOperationFailed("build todo query", err)
	}

	var todo domain.Todo
	if err := r.db.GetContext(ctx, &todo, query, args...); err != nil {
		return nil, translateError(err, "fetch todo", "Todo", id)
	}
	return &todo, nil
}

// CountByCategory returns how many todos reference a category, regardless
// of owner. Used to guard category deletion.
func (r *Todos) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("todos").
		Where("category_id = ?", categoryID).
		ToSql()
	if err != nil {
		return 0, domain.NewOperationFailed("build todo count", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, translateError(err, "count todos", "Todo", "")
	}
	return count, nil
}

// Insert creates a todo row.
func (r *Todos) Insert(ctx context.Context, t *domain.Todo) error {
	query, args, err := psql.Insert("todos").
		Columns(todoColumns...).
		Values(t.ID, t.UserID, t.CategoryID, t.Title, t.Description,
			t.Completed, t.CreatedAt, t.UpdatedAt).
		ToSql()
	if err != nil {
		return domain.NewOperationFailed("build todo insert", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return translateError(err, "create todo", "Todo", "")
	}
	return nil
}

// TodoPatch carries the fields of a partial todo update. Nil pointer fields
// keep their prior value; the Clear flags null out optional columns.
// UpdatedAt is always written.
type TodoPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Completed        *bool
	CategoryID       *string
	ClearCategory    bool
	UpdatedAt        time.Time
}

// Update applies a partial update and refreshes updated_at.
func (r *Todos) Update(ctx context.Context, id string, patch TodoPatch) error {
	builder := psql.Update("todos").
		Set("updated_at", patch.UpdatedAt).
		Where("id = ?", id)

	if patch.Title != nil {
		builder = builder.Set("title", *patch.Title)
	}
	if patch.ClearDescription {
		builder = builder.Set("description", nil)
	} else if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}
	if patch.Completed != nil {
		builder = builder.Set("completed", *patch.Completed)
	}
	if patch.ClearCategory {
		builder = builder.Set("category_id", nil)
	} else if patch.CategoryID != nil {
		builder = builder.Set("category_id", *patch.CategoryID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return domain.NewOperationFailed("build todo update", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateError(err, "update todo", "Todo", id)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return domain.NewNotFound("Todo", id)
	}
	return nil
}

// Delete removes a todo row.
func (r *Todos) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("todos").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return domain.NewOperationFailed("build todo delete", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateError(err, "delete todo", "Todo", id)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return domain.NewNotFound("Todo", id)
	}
	return nil
}

// SetCompletedByIDs applies one completed flag to a batch of todos in a
// single statement and refreshes their updated_at. Ownership of every id
// must have been checked by the caller before this runs.
func (r *Todos) SetCompletedByIDs(ctx context.Context, ids []string, completed bool, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := psql.Update("todos").
		Set("completed", completed).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, domain.NewOperationFailed("build todo update", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translateError(err, "update todos", "Todo", "")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, domain.NewOperationFailed("update todos", err)
	}
	return rows, nil
}

// DeleteCompletedByUser removes all completed todos for a user and returns
// how many were deleted. Zero deletions is a success.
func (r *Todos) DeleteCompletedByUser(ctx context.Context, userID string) (int64, error) {
	query, args, err := psql.Delete("todos").
		Where("user_id = ?", userID).
		Where("completed = ?", true).
		ToSql()
	if err != nil {
		return 0, domain.NewOperationFailed("build todo delete", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translateError(err, "delete todos", "Todo", "")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, domain.NewOperationFailed("delete todos", err)
	}
	return rows, nil
}
