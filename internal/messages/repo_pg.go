package messages

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, m Message) error {
	const query = `
INSERT INTO messages (id, sender_id, recipient_id, text, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, m.ID, m.SenderID, m.RecipientID, m.Text, m.CreatedAt)
	return err
}

func (r *PGRepo) ListByProfile(ctx context.Context, profileID string, limit, offset int) ([]Message, error) {
	const query = `
SELECT id, sender_id, recipient_id, text, created_at
FROM messages
WHERE sender_id = $1 OR recipient_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	return r.query(ctx, query, profileID, limit, offset)
}

func (r *PGRepo) Conversation(ctx context.Context, a, b string, limit, offset int) ([]Message, error) {
	const query = `
SELECT id, sender_id, recipient_id, text, created_at
FROM messages
WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
ORDER BY created_at ASC, id ASC
LIMIT $3 OFFSET $4`
	return r.query(ctx, query, a, b, limit, offset)
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Message, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
