package experiences

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres. Insertion order comes from the seq
// column.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, profile_id, seq, role, company, description, area, start_date, end_date, image, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanExperience(row scanner) (Experience, error) {
	var e Experience
	var end sql.NullTime
	err := row.Scan(
		&e.ID,
		&e.ProfileID,
		&e.Seq,
		&e.Role,
		&e.Company,
		&e.Description,
		&e.Area,
		&e.StartDate,
		&end,
		&e.Image,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return Experience{}, err
	}
	if end.Valid {
		e.EndDate = &end.Time
	}
	return e, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// List returns the experiences of a profile in insertion order.
func (r *PGRepo) List(ctx context.Context, profileID string) ([]Experience, error) {
	query := `
SELECT ` + selectColumns + `
FROM experiences
WHERE profile_id = $1
ORDER BY seq ASC`
	rows, err := r.DB.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create inserts an experience and returns it with its assigned seq.
func (r *PGRepo) Create(ctx context.Context, e Experience) (Experience, error) {
	const query = `
INSERT INTO experiences (id, profile_id, role, company, description, area, start_date, end_date, image, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING seq`
	err := r.DB.QueryRowContext(ctx, query,
		e.ID, e.ProfileID, e.Role, e.Company, e.Description, e.Area,
		e.StartDate, nullDate(e.EndDate), e.Image, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return Experience{}, err
	}
	return e, nil
}

// GetByID fetches one experience of a profile.
func (r *PGRepo) GetByID(ctx context.Context, profileID, id string) (Experience, error) {
	query := `
SELECT ` + selectColumns + `
FROM experiences
WHERE profile_id = $1 AND id = $2`
	e, err := scanExperience(r.DB.QueryRowContext(ctx, query, profileID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Experience{}, ErrNotFound
		}
		return Experience{}, err
	}
	return e, nil
}

// Update overwrites the mutable columns of an experience.
func (r *PGRepo) Update(ctx context.Context, e Experience) error {
	const query = `
UPDATE experiences
SET role = $3, company = $4, description = $5, area = $6, start_date = $7, end_date = $8, image = $9, updated_at = $10
WHERE profile_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		e.ProfileID, e.ID, e.Role, e.Company, e.Description, e.Area,
		e.StartDate, nullDate(e.EndDate), e.Image, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes one experience.
func (r *PGRepo) Delete(ctx context.Context, profileID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM experiences WHERE profile_id = $1 AND id = $2`, profileID, id)
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

var _ Repo = (*PGRepo)(nil)
