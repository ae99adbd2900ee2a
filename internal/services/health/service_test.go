package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusWithoutDatabase(t *testing.T) {
	out, ok := NewService(nil).Status(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "memory", out["database"])
}

func TestStatusPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	out, ok := NewService(db).Status(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "up", out["database"])
	assert.IsType(t, map[string]any{}, out["pool"])

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	out, ok = NewService(db).Status(context.Background())
	assert.False(t, ok)
	assert.Equal(t, false, out["ok"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
