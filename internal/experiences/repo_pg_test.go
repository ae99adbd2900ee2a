package experiences

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var experienceColumns = []string{"id", "profile_id", "seq", "role", "company", "description", "area", "start_date", "end_date", "image", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoListOrdersBySeq(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	end := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(experienceColumns).
		AddRow("e1", "p1", int64(1), "Analyst", "Firm A", "...", "Math", now, end, "", now, now).
		AddRow("e2", "p1", int64(2), "Writer", "Notes", "", "", now, nil, "", now, now)
	mock.ExpectQuery("SELECT (.+) FROM experiences WHERE profile_id = \\$1 ORDER BY seq ASC").
		WithArgs("p1").
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "e1", items[0].ID)
	assert.Equal(t, "e2", items[1].ID)
	require.NotNil(t, items[0].EndDate)
	assert.True(t, items[0].EndDate.Equal(end))
	assert.Nil(t, items[1].EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoCreateReturnsSeq(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	e := Experience{ID: "e1", ProfileID: "p1", Role: "R", Company: "C", StartDate: now, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("INSERT INTO experiences").
		WithArgs(e.ID, e.ProfileID, e.Role, e.Company, e.Description, e.Area, e.StartDate, nil, e.Image, e.CreatedAt, e.UpdatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(7)))

	got, err := repo.Create(context.Background(), e)
	require.NoError(t, err)
	assert.EqualValues(t, 7, got.Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM experiences WHERE profile_id = \\$1 AND id = \\$2").
		WithArgs("p1", "e9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "p1", "e9")
	assert.ErrorIs(t, err, ErrNotFound)
}
