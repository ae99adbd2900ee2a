package friends

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PGRepo implements Repo using Postgres. Pair uniqueness of open requests is
// enforced by the friendships_open_pair_key partial index.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, requester_id, recipient_id, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanFriendship(row scanner) (Friendship, error) {
	var f Friendship
	var status string
	if err := row.Scan(&f.ID, &f.RequesterID, &f.RecipientID, &status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return Friendship{}, err
	}
	f.Status = Status(status)
	return f, nil
}

func (r *PGRepo) Create(ctx context.Context, f Friendship) error {
	const query = `
INSERT INTO friendships (id, requester_id, recipient_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, f.ID, f.RequesterID, f.RecipientID, string(f.Status), f.CreatedAt, f.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Friendship, error) {
	query := `SELECT ` + selectColumns + ` FROM friendships WHERE id = $1`
	f, err := scanFriendship(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Friendship{}, ErrNotFound
	}
	return f, err
}

// ListByProfile returns requests involving profileID, newest first.
func (r *PGRepo) ListByProfile(ctx context.Context, profileID string, status Status) ([]Friendship, error) {
	query := `
SELECT ` + selectColumns + `
FROM friendships
WHERE (requester_id = $1 OR recipient_id = $1) AND ($2 = '' OR status = $2)
ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, profileID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Friendship{}
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Transition only matches pending rows; a miss is resolved into ErrNotFound
// or ErrNotPending.
func (r *PGRepo) Transition(ctx context.Context, id string, status Status, at time.Time) (Friendship, error) {
	query := `
UPDATE friendships
SET status = $2, updated_at = $3
WHERE id = $1 AND status = 'pending'
RETURNING ` + selectColumns
	f, err := scanFriendship(r.DB.QueryRowContext(ctx, query, id, string(status), at))
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Friendship{}, err
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return Friendship{}, getErr
	}
	return Friendship{}, ErrNotPending
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
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
