package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/message-service/internal/models"
)

// MemoryRepository keeps users and messages in process memory. It is used for
// local runs with STORAGE=memory and by the HTTP tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	users    []models.User
	messages []models.Message
	nextUser int64
	nextMsg  int64
	now      func() time.Time
}

// NewMemoryRepository returns an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

var (
	_ UserRepository    = (*MemoryRepository)(nil)
	_ MessageRepository = (*MemoryRepository)(nil)
)

func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextUser++
	user.ID = r.nextUser
	user.CreatedAt = r.now()
	user.UpdatedAt = user.CreatedAt
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryRepository) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return page(r.users, limit, offset), len(r.users), nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextMsg++
	msg.ID = r.nextMsg
	msg.CreatedAt = r.now()
	msg.UpdatedAt = msg.CreatedAt
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *MemoryRepository) ListMessages(ctx context.Context, filter MessageFilter, limit, offset int) ([]models.Message, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Message
	for _, m := range r.messages {
		if filter.matches(m) {
			matched = append(matched, m)
		}
	}
	return page(matched, limit, offset), len(matched), nil
}

func (r *MemoryRepository) GetMessage(ctx context.Context, filter MessageFilter, id int64) (*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(filter, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	msg := r.messages[i]
	return &msg, nil
}

func (r *MemoryRepository) UpdateMessage(ctx context.Context, filter MessageFilter, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(filter, msg.ID)
	if i < 0 {
		return ErrNotFound
	}
	stored := &r.messages[i]
	stored.Title = msg.Title
	stored.Body = msg.Body
	stored.UpdatedAt = r.now()
	*msg = *stored
	return nil
}

func (r *MemoryRepository) DeleteMessage(ctx context.Context, filter MessageFilter, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(filter, id)
	if i < 0 {
		return ErrNotFound
	}
	r.messages = append(r.messages[:i], r.messages[i+1:]...)
	return nil
}

// indexOf must be called with the lock held.
func (r *MemoryRepository) indexOf(filter MessageFilter, id int64) int {
	for i, m := range r.messages {
		if m.ID == id && filter.matches(m) {
			return i
		}
	}
	return -1
}

func (f MessageFilter) matches(m models.Message) bool {
	if m.UserID != f.UserID {
		return false
	}
	title, body := strings.ToLower(m.Title), strings.ToLower(m.Body)
	for _, term := range f.Terms() {
		term = strings.ToLower(term)
		if !strings.Contains(title, term) && !strings.Contains(body, term) {
			return false
		}
	}
	return true
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}
