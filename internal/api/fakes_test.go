package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/eleven-am/keep/internal/auth"
	"github.com/eleven-am/keep/internal/domain"
	"github.com/eleven-am/keep/internal/service"
	"github.com/eleven-am/keep/internal/store"
)

const testSecret = "api-test-secret"

// In-memory repositories behind the service interfaces, so handler tests
// exercise the full middleware/handler/service path over httptest.

type memStore struct {
	users      []*domain.User
	categories []*domain.Category
	todos      []*domain.Todo
}

type memUsers struct{ db *memStore }

func (m *memUsers) GetBySubject(_ context.Context, subject string) (*domain.User, error) {
	for _, u := range m.db.users {
		if u.Subject == subject {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("User", "")
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.db.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("User", id)
}

func (m *memUsers) Insert(_ context.Context, u *domain.User) error {
	for _, existing := range m.db.users {
		if existing.Subject == u.Subject {
			return nil
		}
	}
	copied := *u
	m.db.users = append(m.db.users, &copied)
	return nil
}

type memCategories struct{ db *memStore }

func (m *memCategories) ListByUser(_ context.Context, userID string) ([]domain.Category, error) {
	result := []domain.Category{}
	for _, c := range m.db.categories {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	for _, c := range m.db.categories {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("Category", id)
}

func (m *memCategories) FindByUserAndName(_ context.Context, userID, name string) (*domain.Category, error) {
	for _, c := range m.db.categories {
		if c.UserID == userID && c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("Category", "")
}

func (m *memCategories) CountByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, c := range m.db.categories {
		if c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *memCategories) Insert(_ context.Context, c *domain.Category) error {
	for _, existing := range m.db.categories {
		if existing.UserID == c.UserID && existing.Name == c.Name {
			return domain.NewConflict("Category with this name already exists")
		}
	}
	copied := *c
	m.db.categories = append(m.db.categories, &copied)
	return nil
}

func (m *memCategories) Update(_ context.Context, id string, patch store.CategoryPatch) error {
	for _, c := range m.db.categories {
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

func (m *memCategories) Delete(_ context.Context, id string) error {
	for i, c := range m.db.categories {
		if c.ID == id {
			m.db.categories = append(m.db.categories[:i], m.db.categories[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFound("Category", id)
}

type memTodos struct{ db *memStore }

func (m *memTodos) ListByUser(_ context.Context, userID string) ([]domain.Todo, error) {
	result := []domain.Todo{}
	for _, t := range m.db.todos {
		if t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *memTodos) ListByUserAndCategory(_ context.Context, userID, categoryID string) ([]domain.Todo, error) {
	result := []domain.Todo{}
	for _, t := range m.db.todos {
		if t.UserID == userID && t.CategoryID != nil && *t.CategoryID == categoryID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *memTodos) ListUncategorized(_ context.Context, userID string) ([]domain.Todo, error) {
	result := []domain.Todo{}
	for _, t := range m.db.todos {
		if t.UserID == userID && t.CategoryID == nil {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *memTodos) GetByID(_ context.Context, id string) (*domain.Todo, error) {
	for _, t := range m.db.todos {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, domain.NewNotFound("Todo", id)
}

func (m *memTodos) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	var count int64
	for _, t := range m.db.todos {
		if t.CategoryID != nil && *t.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *memTodos) Insert(_ context.Context, t *domain.Todo) error {
	copied := *t
	m.db.todos = append(m.db.todos, &copied)
	return nil
}

func (m *memTodos) Update(_ context.Context, id string, patch store.TodoPatch) error {
	for _, t := range m.db.todos {
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

func (m *memTodos) Delete(_ context.Context, id string) error {
	for i, t := range m.db.todos {
		if t.ID == id {
			m.db.todos = append(m.db.todos[:i], m.db.todos[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFound("Todo", id)
}

func (m *memTodos) SetCompletedByIDs(_ context.Context, ids []string, completed bool, now time.Time) (int64, error) {
	var count int64
	for _, id := range ids {
		for _, t := range m.db.todos {
			if t.ID == id {
				t.Completed = completed
				t.UpdatedAt = now
				count++
			}
		}
	}
	return count, nil
}

func (m *memTodos) DeleteCompletedByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	remaining := m.db.todos[:0]
	for _, t := range m.db.todos {
		if t.UserID == userID && t.Completed {
			count++
			continue
		}
		remaining = append(remaining, t)
	}
	m.db.todos = remaining
	return count, nil
}

// newTestServer wires a real verifier and real services over the in-memory
// repositories and returns the assembled handler.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	verifier, err := auth.NewVerifier(auth.Config{Secret: testSecret})
	require.NoError(t, err)

	db := &memStore{}
	identity := service.NewIdentity(&memUsers{db: db})
	categories := service.NewCategories(&memCategories{db: db}, &memTodos{db: db})
	todos := service.NewTodos(&memTodos{db: db}, &memCategories{db: db})

	return NewServer(verifier, identity, categories, todos, false).Handler()
}

// token signs a bearer token for the given subject.
func token(t *testing.T, subject string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": subject + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// do performs one request against the handler and records the response.
func do(t *testing.T, handler http.Handler, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}
