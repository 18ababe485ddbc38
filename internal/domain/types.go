package domain

import "time"

// Validation limits for todo fields
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// User is the internal identity record for an authenticated caller.
// Exactly one row exists per external subject id; rows are created lazily
// on first contact and never updated or deleted.
type User struct {
	ID        string    `db:"id" json:"id"`
	Subject   string    `db:"subject" json:"subject"`
	Email     string    `db:"email" json:"email"`
	Name      *string   `db:"name" json:"name,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Category is a named, colored tag owned by exactly one user.
// (UserID, Name) is unique per owner; a category cannot be deleted while
// any todo still references it.
type Category struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Todo is a task item owned by exactly one user, optionally tagged with a
// category that must be owned by the same user.
type Todo struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	CategoryID  *string   `db:"category_id" json:"categoryId,omitempty"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// CallerContext identifies the resolved caller of a store operation.
// It is always passed explicitly; nothing reads identity from ambient state.
type CallerContext struct {
	UserID string
}
