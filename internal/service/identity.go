package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eleven-am/keep/internal/domain"
	"github.com/eleven-am/keep/internal/logger"
)

// Identity maps an authenticated caller to the internal user record,
// creating one on first contact.
type Identity struct {
	users UserStore
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

func NewIdentity(users UserStore) *Identity {
	return &Identity{
		users: users,
		log:   logger.Service(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// ResolveCaller returns the caller context for an external subject id,
// inserting a user row if none exists yet. The insert is idempotent on the
// subject, so a concurrent first contact loses the race harmlessly and the
// follow-up read returns the winner's row.
func (s *Identity) ResolveCaller(ctx context.Context, subject, email string, name *string) (domain.CallerContext, error) {
	if subject == "" {
		return domain.CallerContext{}, domain.ErrNotAuthenticated
	}

	user, err := s.users.GetBySubject(ctx, subject)
	if err == nil {
		return domain.CallerContext{UserID: user.ID}, nil
	}
	if !isNotFound(err) {
		return domain.CallerContext{}, fail(s.log, "resolve user", err)
	}

	created := &domain.User{
		ID:        s.newID(),
		Subject:   subject,
		Email:     email,
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := s.users.Insert(ctx, created); err != nil {
		return domain.CallerContext{}, fail(s.log, "create user", err)
	}

	user, err = s.users.GetBySubject(ctx, subject)
	if err != nil {
		return domain.CallerContext{}, fail(s.log, "resolve user", err)
	}
	return domain.CallerContext{UserID: user.ID}, nil
}

// LookupCaller returns the caller context without creating a user row.
// A never-seen subject yields a NotFoundError for the User resource, which
// query boundaries translate per operation (list operations return empty).
func (s *Identity) LookupCaller(ctx context.Context, subject string) (domain.CallerContext, error) {
	if subject == "" {
		return domain.CallerContext{}, domain.ErrNotAuthenticated
	}

	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		if isNotFound(err) {
			return domain.CallerContext{}, domain.NewNotFound("User", "")
		}
		return domain.CallerContext{}, fail(s.log, "resolve user", err)
	}
	return domain.CallerContext{UserID: user.ID}, nil
}
