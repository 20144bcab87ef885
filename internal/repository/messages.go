package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/message-service/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where renders the filter as a WHERE body plus its positional arguments.
func (f MessageFilter) where() (string, []any) {
	var b strings.Builder
	args := []any{f.UserID}
	b.WriteString("user_id = $1")
	for _, term := range f.Terms() {
		args = append(args, "%"+likeEscaper.Replace(term)+"%")
		n := len(args)
		fmt.Fprintf(&b, " AND (title ILIKE $%d OR body ILIKE $%d)", n, n)
	}
	return b.String(), args
}

// CreateMessage creates a new message in the database
func (r *Repository) CreateMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (title, body, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, msg.Title, msg.Body, msg.UserID).
		Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages returns one page of filtered messages in id order and the
// filtered total.
func (r *Repository) ListMessages(ctx context.Context, filter MessageFilter, limit, offset int) ([]models.Message, int, error) {
	where, args := filter.where()

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, title, body, user_id, created_at, updated_at
		FROM messages
		WHERE %s
		ORDER BY id
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0, limit)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Title, &m.Body, &m.UserID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, total, nil
}

// GetMessage retrieves a message by identifier within the filter
func (r *Repository) GetMessage(ctx context.Context, filter MessageFilter, id int64) (*models.Message, error) {
	where, args := filter.where()
	query := fmt.Sprintf(`
		SELECT id, title, body, user_id, created_at, updated_at
		FROM messages
		WHERE %s AND id = $%d`, where, len(args)+1)

	msg := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, append(args, id)...).
		Scan(&msg.ID, &msg.Title, &msg.Body, &msg.UserID, &msg.CreatedAt, &msg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message: %w", err)
	}
	return msg, nil
}

// UpdateMessage rewrites title and body. The owner column is never touched.
func (r *Repository) UpdateMessage(ctx context.Context, filter MessageFilter, msg *models.Message) error {
	where, args := filter.where()
	n := len(args)
	query := fmt.Sprintf(`
		UPDATE messages
		SET title = $%d, body = $%d, updated_at = CURRENT_TIMESTAMP
		WHERE %s AND id = $%d
		RETURNING user_id, created_at, updated_at`, n+1, n+2, where, n+3)

	err := r.db.QueryRowContext(ctx, query, append(args, msg.Title, msg.Body, msg.ID)...).
		Scan(&msg.UserID, &msg.CreatedAt, &msg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	return nil
}

// DeleteMessage removes a message within the filter
func (r *Repository) DeleteMessage(ctx context.Context, filter MessageFilter, id int64) error {
	where, args := filter.where()
	query := fmt.Sprintf(`DELETE FROM messages WHERE %s AND id = $%d`, where, len(args)+1)

	res, err := r.db.ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
