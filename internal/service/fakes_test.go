package service

import (
	"context"
	"strings"
	"time"

	"github.com/eleven-am/keep/internal/domain"
	"github.com/eleven-am/keep/internal/store"
)

// In-memory store fakes. They mirror the SQL repositories' error semantics:
// missing rows yield NotFoundError, duplicate category names yield the same
// ConflictError the unique index would produce.

type memDB struct {
	users      []*domain.User
	categories []*domain.Category
	todos      []*domain.Todo
	failErr    error
}

type fakeUsers struct{ db *memDB }

func (f *fakeUsers) GetBySubject(_ context.Context, subject string) (*domain.User, error) {
	if f.db.failErr != nil {
		return nil, f.db.failErr
	}
	for _, u := range f.db.users {
		if u.Subject == subject {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("User", "")
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range f.db.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("User", id)
}

func (f *fakeUsers) Insert(_ context.Context, u *domain.User) error {
	if f.db.failErr != nil {
		return f.db.failErr
	}
	for _, existing := range f.db.users {
		if existing.Subject == u.Subject {
			return nil // ON CONFLICT DO NOTHING
		}
	}
	copied := *u
	f.db.users = append(f.db.users, &copied)
	return nil
}

type fakeCategories struct{ db *memDB }

func (f *fakeCategories) ListByUser(_ context.Context, userID string) ([]domain.Category, error) {
	if f.db.failErr != nil {
		return nil, f.db.failErr
	}
	result := []domain.Category{}
	for _, c := range f.db.categories {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	for _, c := range f.db.categories {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("Category", id)
}

func (f *fakeCategories) FindByUserAndName(_ context.Context, userID, name string) (*domain.Category, error) {
	for _, c := range f.db.categories {
		if c.UserID == userID && c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("Category", "")
}

func (f *fakeCategories) CountByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, c := range f.db.categories {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCategories) Insert(_ context.Context, c *domain.Category) error {
	for _, existing := range f.db.categories {
		if existing.UserID == c.UserID && existing.Name == c.Name {
			return domain.NewConflict("Category with this name already exists")
		}
	}
	copied := *c
	f.db.categories = append(f.db.categories, &copied)
	return nil
}

func (f *fakeCategories) Update(_ context.Context, id string, patch store.CategoryPatch) error {
	for _, c := range f.db.categories {
		if c.ID == id {
			if patch.Name != nil {
				c.Name = *patch.Name
			}
			if patch.Color != nil {
				c.Color = *patch.Color
			}
			return nil
		}
	}
	return domain.NewNotFound("Category", id)
}

func (f *fakeCategories) Delete(_ context.Context, id string) error {
	for i, c := range f.db.categories {
		if c.ID == id {
			f.db.categories = append(f.db.categories[:i], f.db.categories[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFound("Category", id)
}

type fakeTodos struct{ db *memDB }

func (f *fakeTodos) ListByUser(_ context.Context, userID string) ([]domain.Todo, error) {
	if f.db.failErr != nil {
		return nil, f.db.failErr
	}
	result := []domain.Todo{}
	for _, t := range f.db.todos {
		if t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (f *fakeTodos) ListByUserAndCategory(_ context.Context, userID, categoryID string) ([]domain.Todo, error) {
	result := []domain.Todo{}
	for _, t := range f.db.todos {
		if t.UserID == userID && t.CategoryID != nil && *t.CategoryID == categoryID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (f *fakeTodos) ListUncategorized(_ context.Context, userID string) ([]domain.Todo, error) {
	result := []domain.Todo{}
	for _, t := range f.db.todos {
		if t.UserID == userID && t.CategoryID == nil {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (f *fakeTodos) GetByID(_ context.Context, id string) (*domain.Todo, error) {
	for _, t := range f.db.todos {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("Todo", id)
}

func (f *fakeTodos) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	var count int64
	for _, t := range f.db.todos {
		if t.CategoryID != nil && *t.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTodos) Insert(_ context.Context, t *domain.Todo) error {
	copied := *t
	f.db.todos = append(f.db.todos, &copied)
	return nil
}

func (f *fakeTodos) Update(_ context.Context, id string, patch store.TodoPatch) error {
	for _, t := range f.db.todos {
		if t.ID == id {
			if patch.Title != nil {
				t.Title = *patch.Title
			}
			if patch.ClearDescription {
				t.Description = nil
			} else if patch.Description != nil {
				t.Description = patch.Description
			}
			if patch.Completed != nil {
				t.Completed = *patch.Completed
			}
			if patch.ClearCategory {
				t.CategoryID = nil
			} else if patch.CategoryID != nil {
				t.CategoryID = patch.CategoryID
			}
			t.UpdatedAt = patch.UpdatedAt
			return nil
		}
	}
	return domain.NewNotFound("Todo", id)
}

func (f *fakeTodos) Delete(_ context.Context, id string) error {
	for i, t := range f.db.todos {
		if t.ID == id {
			f.db.todos = append(f.db.todos[:i], f.db.todos[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFound("Todo", id)
}

func (f *fakeTodos) SetCompletedByIDs(_ context.Context, ids []string, completed bool, now time.Time) (int64, error) {
	var count int64
	for _, id := range ids {
		for _, t := range f.db.todos {
			if t.ID == id {
				t.Completed = completed
				t.UpdatedAt = now
				count++
			}
		}
	}
	return count, nil
}

func (f *fakeTodos) DeleteCompletedByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	remaining := f.db.todos[:0]
	for _, t := range f.db.todos {
		if t.UserID == userID && t.Completed {
			count++
			continue
		}
		remaining = append(remaining, t)
	}
	f.db.todos = remaining
	return count, nil
}

// testClock hands out strictly increasing timestamps so updatedAt moves
// past createdAt within a single test.
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

type env struct {
	db         *memDB
	identity   *Identity
	categories *Categories
	todos      *Todos
	clock      *testClock
}

func newEnv() *env {
	db := &memDB{}
	clock := newTestClock()

	identity := NewIdentity(&fakeUsers{db: db})
	identity.now = clock.Now

	categories := NewCategories(&fakeCategories{db: db}, &fakeTodos{db: db})
	categories.now = clock.Now

	todos := NewTodos(&fakeTodos{db: db}, &fakeCategories{db: db})
	todos.now = clock.Now

	return &env{db: db, identity: identity, categories: categories, todos: todos, clock: clock}
}

// caller provisions a user row directly and returns its context.
func (e *env) caller(subject string) domain.CallerContext {
	ctx, err := e.identity.ResolveCaller(context.Background(), subject, subject+"@example.com", nil)
	if err != nil {
		panic(err)
	}
	return ctx
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func longString(n int) string {
	return strings.Repeat("a", n)
}
