package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleven-am/keep/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUsersGetBySubject(t *testing.T) {
	t.Run("returns the matching row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUsers(db)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, subject, email, name, created_at FROM users WHERE subject = $1")).
			WithArgs("subj-1").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("u1", "subj-1", "one@example.com", "One", time.Now()))

		user, err := repo.GetBySubject(context.Background(), "subj-1")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "subj-1", user.Subject)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps an empty result to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUsers(db)

		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, subject, email, name, created_at FROM users WHERE subject = $1")).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows(userColumns))

		_, err := repo.GetBySubject(context.Background(), "nobody")
		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "User", notFound.Resource)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUsersInsert(t *testing.T) {
	t.Run("writes with a conflict-tolerant insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUsers(db)
		now := time.Now()

		mock.ExpectExec(regexp.QuoteMeta(
			"INSERT INTO users (id,subject,email,name,created_at) VALUES ($1,$2,$3,$4,$5) ON CONFLICT (subject) DO NOTHING")).
			WithArgs("u1", "subj-1", "one@example.com", nil, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Insert(context.Background(), &domain.User{
			ID:        "u1",
			Subject:   "subj-1",
			Email:     "one@example.com",
			CreatedAt: now,
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a lost insert race is not an error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUsers(db)
		now := time.Now()

		// ON CONFLICT DO NOTHING reports zero affected rows.
		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Insert(context.Background(), &domain.User{
			ID: "u2", Subject: "subj-1", CreatedAt: now,
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
