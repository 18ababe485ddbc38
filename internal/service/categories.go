package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eleven-am/keep/internal/domain"
	"github.com/eleven-am/keep/internal/logger"
	"github.com/eleven-am/keep/internal/store"
)

// Seed categories created for users who have none yet.
var defaultCategories = []struct {
	Name  string
	Color string
}{
	{"Work", "#3B82F6"},
	{"Personal", "#10B981"},
	{"Health", "#F59E0B"},
	{"Learning", "#8B5CF6"},
	{"Shopping", "#EF4444"},
	{"Travel", "#06B6D4"},
}

// Categories implements the category store operations.
type Categories struct {
	categories CategoryStore
	todos      TodoStore
	log        logger.Logger
	now        func() time.Time
	newID      func() string
}

func NewCategories(categories CategoryStore, todos TodoStore) *Categories {
	return &Categories{
		categories: categories,
		todos:      todos,
		log:        logger.Service(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// getOwned fetches a category and verifies the caller owns it.
func (s *Categories) getOwned(ctx context.Context, caller domain.CallerContext, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.UserID != caller.UserID {
		return nil, &domain.AuthorizationError{}
	}
	return category, nil
}

// List returns all categories owned by the caller.
func (s *Categories) List(ctx context.Context, caller domain.CallerContext) ([]domain.Category, error) {
	categories, err := s.categories.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fail(s.log, "fetch categories", err)
	}
	return categories, nil
}

// Get returns one category owned by the caller.
func (s *Categories) Get(ctx context.Context, caller domain.CallerContext, id string) (*domain.Category, error) {
	category, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return nil, fail(s.log, "fetch category", err)
	}
	return category, nil
}

// Create adds a category after checking the name is present and unique for
// the caller.
func (s *Categories) Create(ctx context.Context, caller domain.CallerContext, name, color string) (*domain.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, domain.NewValidation("name", "Name is required")
	}

	if err := s.checkNameAvailable(ctx, caller, trimmed, ""); err != nil {
		return nil, fail(s.log, "create category", err)
	}

	category := &domain.Category{
		ID:        s.newID(),
		UserID:    caller.UserID,
		Name:      trimmed,
		Color:     color,
		CreatedAt: s.now(),
	}
	if err := s.categories.Insert(ctx, category); err != nil {
		return nil, fail(s.log, "create category", err)
	}
	return category, nil
}

// checkNameAvailable enforces per-owner name uniqueness. excludeID skips the
// record being updated so renaming a category to its own name succeeds.
func (s *Categories) checkNameAvailable(ctx context.Context, caller domain.CallerContext, name, excludeID string) error {
	existing, err := s.categories.FindByUserAndName(ctx, caller.UserID, name)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return domain.NewConflict("Category with this name already exists")
	}
	return nil
}

// CategoryUpdate carries the optional fields of a category update.
type CategoryUpdate struct {
	Name  *string
	Color *string
}

// Update applies a partial update to a category owned by the caller. A
// supplied name is trimmed and re-checked for uniqueness.
func (s *Categories) Update(ctx context.Context, caller domain.CallerContext, id string, update CategoryUpdate) (*domain.Category, error) {
	if _, err := s.getOwned(ctx, caller, id); err != nil {
		return nil, fail(s.log, "update category", err)
	}

	patch := store.CategoryPatch{Color: update.Color}
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		if trimmed == "" {
			return nil, domain.NewValidation("name", "Name is required")
		}
		if err := s.checkNameAvailable(ctx, caller, trimmed, id); err != nil {
			return nil, fail(s.log, "update category", err)
		}
		patch.Name = &trimmed
	}

	if err := s.categories.Update(ctx, id, patch); err != nil {
		return nil, fail(s.log, "update category", err)
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fail(s.log, "update category", err)
	}
	return category, nil
}

// Delete removes a category owned by the caller, refusing while any todo
// still references it.
func (s *Categories) Delete(ctx context.Context, caller domain.CallerContext, id string) error {
	if _, err := s.getOwned(ctx, caller, id); err != nil {
		return fail(s.log, "delete category", err)
	}

	inUse, err := s.todos.CountByCategory(ctx, id)
	if err != nil {
		return fail(s.log, "delete category", err)
	}
	if inUse > 0 {
		return domain.NewConflict("Cannot delete category that is being used by todos")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fail(s.log, "delete category", err)
	}
	return nil
}

// CreateDefaults seeds the fixed default categories for a caller who owns
// none yet. Calling it again is a no-op, so it is idempotent per user.
func (s *Categories) CreateDefaults(ctx context.Context, caller domain.CallerContext) ([]string, error) {
	count, err := s.categories.CountByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fail(s.log, "create default categories", err)
	}
	if count > 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(defaultCategories))
	for _, seed := range defaultCategories {
		category := &domain.Category{
			ID:        s.newID(),
			UserID:    caller.UserID,
			Name:      seed.Name,
			Color:     seed.Color,
			CreatedAt: s.now(),
		}
		if err := s.categories.Insert(ctx, category); err != nil {
			return nil, fail(s.log, "create default categories", err)
		}
		ids = append(ids, category.ID)
	}
	return ids, nil
}
