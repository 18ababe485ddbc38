package store

import (
	"context"

	"github.com/eleven-am/keep/internal/domain"
)

var userColumns = []string{"id", "subject", "email", "name", "created_at"}

// Users persists internal identity records.
type Users struct {
	db DBExecutor
}

func NewUsers(db DBExecutor) *Users {
	return &Users{db: db}
}

// GetBySubject returns the user row for an external subject id.
func (r *Users) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where("subject = ?", subject).
		ToSql()
	if err != nil {
		return nil, domain.NewOperationFailed("build user query", err)
	}

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		return nil, translateError(err, "fetch user", "User", "")
	}
	return &user, nil
}

// GetByID returns the user row for an internal id.
func (r *Users) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, domain.NewOperationFailed("build user query", err)
	}

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		return nil, translateError(err, "fetch user", "User", id)
	}
	return &user, nil
}

// Insert creates a user row. The insert is a no-op when a row with the same
// subject already exists, so two racing first contacts converge on one row;
// the caller re-reads by subject afterwards.
func (r *Users) Insert(ctx context.Context, u *domain.User) error {
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Subject, u.Email, u.Name, u.CreatedAt).
		Suffix("ON CONFLICT (subject) DO NOTHING").
		ToSql()
	if err != nil {
		return domain.NewOperationFailed("build user insert", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return translateError(err, "create user", "User", "")
	}
	return nil
}
