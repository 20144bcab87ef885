package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Dan9191/message-service/internal/models"
)

// ErrNotFound indicates that no visible record matched.
var ErrNotFound = errors.New("repository: not found")

// UserRepository stores users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	// FindUserByEmail returns the first user, in id order, holding email.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// MessageRepository stores messages. Every read and write is narrowed by a
// MessageFilter, so records outside the filter behave as missing.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, filter MessageFilter, limit, offset int) ([]models.Message, int, error)
	GetMessage(ctx context.Context, filter MessageFilter, id int64) (*models.Message, error)
	UpdateMessage(ctx context.Context, filter MessageFilter, msg *models.Message) error
	DeleteMessage(ctx context.Context, filter MessageFilter, id int64) error
}

// MessageFilter selects the messages of one owner, optionally narrowed by a
// free-text search over title and body.
type MessageFilter struct {
	UserID int64
	Search string
}

// Terms splits the search string on whitespace and commas. Each term must
// match either title or body.
func (f MessageFilter) Terms() []string {
	return strings.FieldsFunc(f.Search, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var (
	_ UserRepository    = (*Repository)(nil)
	_ MessageRepository = (*Repository)(nil)
)
