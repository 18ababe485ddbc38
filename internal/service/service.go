// Package service implements the authorization-scoped business core:
// identity resolution, the category store, and the todo store. Every
// operation receives the resolved caller explicitly and fails fast before
// issuing any mutation.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/eleven-am/keep/internal/domain"
	"github.com/eleven-am/keep/internal/logger"
	"github.com/eleven-am/keep/internal/store"
)

// UserStore is the persistence surface identity resolution depends on.
type UserStore interface {
	GetBySubject(ctx context.Context, subject string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
}

// CategoryStore is the persistence surface the category service depends on.
type CategoryStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	FindByUserAndName(ctx context.Context, userID, name string) (*domain.Category, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Insert(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, id string, patch store.CategoryPatch) error
	Delete(ctx context.Context, id string) error
}

// TodoStore is the persistence surface the todo service depends on.
type TodoStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Todo, error)
	ListByUserAndCategory(ctx context.Context, userID, categoryID string) ([]domain.Todo, error)
	ListUncategorized(ctx context.Context, userID string) ([]domain.Todo, error)
	GetByID(ctx context.Context, id string) (*domain.Todo, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	Insert(ctx context.Context, t *domain.Todo) error
	Update(ctx context.Context, id string, patch store.TodoPatch) error
	Delete(ctx context.Context, id string) error
	SetCompletedByIDs(ctx context.Context, ids []string, completed bool, now time.Time) (int64, error)
	DeleteCompletedByUser(ctx context.Context, userID string) (int64, error)
}

// fail implements the propagation policy: recognized error kinds pass
// through unchanged; anything else is logged server-side and replaced with
// a generic OperationFailedError named after the handler-level operation.
func fail(log logger.Logger, op string, err error) error {
	if domain.IsDomainError(err) {
		return err
	}

	cause := err
	var opErr *domain.OperationFailedError
	if errors.As(err, &opErr) && opErr.Err != nil {
		cause = opErr.Err
	}
	log.WithField("op", op).Error("unexpected failure: " + cause.Error())

	return domain.NewOperationFailed(op, cause)
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}
