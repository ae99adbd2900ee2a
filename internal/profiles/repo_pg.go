package profiles

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, name, surname, email, bio, title, area, image, username, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Surname,
		&p.Email,
		&p.Bio,
		&p.Title,
		&p.Area,
		&p.Image,
		&p.Username,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// List returns profiles oldest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + selectColumns + `
FROM profiles
ORDER BY created_at ASC, id ASC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a new profile.
func (r *PGRepo) Create(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO profiles (id, name, surname, email, bio, title, area, image, username, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.Surname, p.Email, p.Bio, p.Title, p.Area, p.Image, p.Username, p.CreatedAt, p.UpdatedAt,
	)
	return mapWriteErr(err)
}

// GetByID fetches a profile by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	query := `
SELECT ` + selectColumns + `
FROM profiles
WHERE id = $1`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

// Update overwrites the mutable columns of a profile.
func (r *PGRepo) Update(ctx context.Context, p Profile) error {
	const query = `
UPDATE profiles
SET name = $2, surname = $3, email = $4, bio = $5, title = $6, area = $7, image = $8, username = $9, updated_at = $10
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.Surname, p.Email, p.Bio, p.Title, p.Area, p.Image, p.Username, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireRow(res)
}

// Delete removes a profile; experiences, friendships and messages cascade.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}

var _ Repo = (*PGRepo)(nil)
