package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQuerier struct {
	statements []string
}

func (r *recordingQuerier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	return pgconn.NewCommandTag("DELETE 2"), nil
}

func (r *recordingQuerier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, nil
}

func (r *recordingQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return nil
}

// The purge must only touch rows flagged is_deleted. is_active is a business
// attribute: a deactivated order that was never deleted stays in the store.
func TestPurgeDeletesOnlySoftDeletedRows(t *testing.T) {
	job := NewOrdersPurgeJob(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), 90*24*time.Hour)
	q := &recordingQuerier{}

	orders, lines, err := job.purge(context.Background(), q, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), orders)
	assert.Equal(t, int64(4), lines)

	require.Len(t, q.statements, 3)
	for _, stmt := range q.statements {
		assert.Contains(t, stmt, "is_deleted = TRUE")
		assert.NotContains(t, stmt, "is_active")
	}
}
