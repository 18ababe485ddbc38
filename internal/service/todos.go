package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/eleven-am/keep/internal/domain"
	"github.com/eleven-am/keep/internal/logger"
	"github.com/eleven-am/keep/internal/store"
)

// Todos implements the todo store operations.
type Todos struct {
	todos      TodoStore
	categories CategoryStore
	log        logger.Logger
	now        func() time.Time
	newID      func() string
}

func NewTodos(todos TodoStore, categories CategoryStore) *Todos {
	return &Todos{
		todos:      todos,
		categories: categories,
		log:        logger.Service(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// validateTitle trims and checks the 1..MaxTitleLength invariant.
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", domain.NewValidation("title", "Title is required")
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxTitleLength {
		return "", domain.NewValidation("title",
			fmt.Sprintf("Title must be %d characters or less", domain.MaxTitleLength))
	}
	return trimmed, nil
}

// validateDescription trims and checks the length limit. An empty result
// means the description should be stored as absent.
func validateDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if utf8.RuneCountInString(trimmed) > domain.MaxDescriptionLength {
		return "", domain.NewValidation("description",
			fmt.Sprintf("Description must be %d characters or less", domain.MaxDescriptionLength))
	}
	return trimmed, nil
}

// getOwned fetches a todo and verifies the caller owns it.
func (s *Todos) getOwned(ctx context.Context, caller domain.CallerContext, id string) (*domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo.UserID != caller.UserID {
		return nil, domain.NewAuthorization("You don't have permission to access this todo")
	}
	return todo, nil
}

// checkCategoryOwned verifies a referenced category exists and is co-owned
// by the caller.
func (s *Todos) checkCategoryOwned(ctx context.Context, caller domain.CallerContext, categoryID string) error {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.UserID != caller.UserID {
		return domain.NewAuthorization("You don't have permission to use this category")
	}
	return nil
}

// List returns all todos owned by the caller.
func (s *Todos) List(ctx context.Context, caller domain.CallerContext) ([]domain.Todo, error) {
	todos, err := s.todos.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fail(s.log, "fetch todos", err)
	}
	return todos, nil
}

// ListByCategory returns the caller's todos for one category, or the
// caller's uncategorized todos when categoryID is nil.
func (s *Todos) ListByCategory(ctx context.Context, caller domain.CallerContext, categoryID *string) ([]domain.Todo, error) {
	if categoryID == nil {
		todos, err := s.todos.ListUncategorized(ctx, caller.UserID)
		if err != nil {
			return nil, fail(s.log, "fetch todos by category", err)
		}
		return todos, nil
	}

	if err := s.checkCategoryOwned(ctx, caller, *categoryID); err != nil {
		return nil, fail(s.log, "fetch todos by category", err)
	}
	todos, err := s.todos.ListByUserAndCategory(ctx, caller.UserID, *categoryID)
	if err != nil {
		return nil, fail(s.log, "fetch todos by category", err)
	}
	return todos, nil
}

// Get returns one todo owned by the caller.
func (s *Todos) Get(ctx context.Context, caller domain.CallerContext, id string) (*domain.Todo, error) {
	todo, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return nil, fail(s.log, "fetch todo", err)
	}
	return todo, nil
}

// TodoCreate carries the arguments of a todo creation.
type TodoCreate struct {
	Title       string
	Description *string
	CategoryID  *string
}

// Create validates inputs and ownership, then persists a new todo with
// completed=false.
func (s *Todos) Create(ctx context.Context, caller domain.CallerContext, args TodoCreate) (*domain.Todo, error) {
	title, err := validateTitle(args.Title)
	if err != nil {
		return nil, err
	}

	var description *string
	if args.Description != nil {
		trimmed, err := validateDescription(*args.Description)
		if err != nil {
			return nil, err
		}
		if trimmed != "" {
			description = &trimmed
		}
	}

	if args.CategoryID != nil {
		if err := s.checkCategoryOwned(ctx, caller, *args.CategoryID); err != nil {
			return nil, fail(s.log, "create todo", err)
		}
	}

	now := s.now()
	todo := &domain.Todo{
		ID:          s.newID(),
		UserID:      caller.UserID,
		CategoryID:  args.CategoryID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.todos.Insert(ctx, todo); err != nil {
		return nil, fail(s.log, "create todo", err)
	}
	return todo, nil
}

// TodoUpdate carries the optional fields of a todo update. CategoryID is
// tri-state: HasCategoryID false leaves the association untouched;
// HasCategoryID true with a nil CategoryID clears it.
type TodoUpdate struct {
	Title         *string
	Description   *string
	Completed     *bool
	CategoryID    *string
	HasCategoryID bool
}

// Update applies a partial update to a todo owned by the caller, refreshes
// its updated timestamp, and returns the updated record.
func (s *Todos) Update(ctx context.Context, caller domain.CallerContext, id string, args TodoUpdate) (*domain.Todo, error) {
	if _, err := s.getOwned(ctx, caller, id); err != nil {
		return nil, fail(s.log, "update todo", err)
	}

	patch := store.TodoPatch{UpdatedAt: s.now()}

	if args.Title != nil {
		title, err := validateTitle(*args.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if args.Description != nil {
		trimmed, err := validateDescription(*args.Description)
		if err != nil {
			return nil, err
		}
		if trimmed == "" {
			patch.ClearDescription = true
		} else {
			patch.Description = &trimmed
		}
	}
	if args.Completed != nil {
		patch.Completed = args.Completed
	}
	if args.HasCategoryID {
		if args.CategoryID != nil {
			if err := s.checkCategoryOwned(ctx, caller, *args.CategoryID); err != nil {
				return nil, fail(s.log, "update todo", err)
			}
			patch.CategoryID = args.CategoryID
		} else {
			patch.ClearCategory = true
		}
	}

	if err := s.todos.Update(ctx, id, patch); err != nil {
		return nil, fail(s.log, "update todo", err)
	}

	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.log, "update todo", err)
	}
	return todo, nil
}

// Delete removes a todo owned by the caller.
func (s *Todos) Delete(ctx context.Context, caller domain.CallerContext, id string) error {
	if _, err := s.getOwned(ctx, caller, id); err != nil {
		return fail(s.log, "delete todo", err)
	}
	if err := s.todos.Delete(ctx, id); err != nil {
		return fail(s.log, "delete todo", err)
	}
	return nil
}

// BulkSetCompleted validates ownership of every id before mutating any,
// then applies the completed flag to the whole batch and returns the count
// updated. A failed ownership check aborts the batch before mutation.
func (s *Todos) BulkSetCompleted(ctx context.Context, caller domain.CallerContext, ids []string, completed bool) (int64, error) {
	for _, id := range ids {
		if _, err := s.getOwned(ctx, caller, id); err != nil {
			return 0, fail(s.log, "update todos", err)
		}
	}

	count, err := s.todos.SetCompletedByIDs(ctx, ids, completed, s.now())
	if err != nil {
		return 0, fail(s.log, "update todos", err)
	}
	return count, nil
}

// DeleteCompleted removes all of the caller's completed todos and returns
// the count deleted. No completed todos is a successful no-op.
func (s *Todos) DeleteCompleted(ctx context.Context, caller domain.CallerContext) (int64, error) {
	count, err := s.todos.DeleteCompletedByUser(ctx, caller.UserID)
	if err != nil {
		return 0, fail(s.log, "delete completed todos", err)
	}
	return count, nil
}
