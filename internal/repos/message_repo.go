package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bizbook/internal/domain"
)

type MessageRepo struct{ db *sqlx.DB }

func NewMessageRepo(db *sqlx.DB) *MessageRepo { return &MessageRepo{db: db} }

const messageCols = `id, customer_name, customer_phone, customer_email, subject, message, read_status, created_at`

// ListMessages returns the newest messages first.
func (r *MessageRepo) ListMessages(ctx context.Context) ([]domain.Message, error) {
	out := []domain.Message{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+messageCols+` FROM messages ORDER BY created_at DESC, id DESC`)
	return out, wrap("messages.list", err)
}

func (r *MessageRepo) GetMessage(ctx context.Context, id int64) (domain.Message, error) {
	var m domain.Message
	err := r.db.GetContext(ctx, &m, r.db.Rebind(`SELECT `+messageCols+` FROM messages WHERE id = ?`), id)
	return m, wrapGet("messages.get", "message", id, err)
}

// CreateMessage always stores the message as unread.
func (r *MessageRepo) CreateMessage(ctx context.Context, in domain.NewMessage) (domain.Message, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, r.db.Rebind(`
		INSERT INTO messages(customer_name, customer_phone, customer_email, subject, message, read_status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		in.CustomerName, in.CustomerPhone, in.CustomerEmail, in.Subject, in.Message, false)
	if err != nil {
		return domain.Message{}, wrap("messages.create", err)
	}
	return r.GetMessage(ctx, id)
}

// MarkMessageRead is idempotent: a read message stays read.
func (r *MessageRepo) MarkMessageRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE messages SET read_status = ? WHERE id = ?`), true, id)
	return affected("messages.read", "message", id, res, err)
}
