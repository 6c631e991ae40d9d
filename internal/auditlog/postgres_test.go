package auditlog

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordInsertsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec, err := NewPostgresWithPool(mock, "scrape_requests")
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	entry := Entry{
		RequestID: "req-1",
		TargetURL: "https://example.com",
		PagesOK:   3,
		Status:    "ok",
		Duration:  2500 * time.Millisecond,
		CreatedAt: now,
	}

	mock.ExpectExec("INSERT INTO scrape_requests").
		WithArgs("req-1", "https://example.com", 3, "ok", int64(2500), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, rec.Record(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresWithPoolValidation(t *testing.T) {
	t.Parallel()

	_, err := NewPostgresWithPool(nil, "scrape_requests")
	assert.Error(t, err)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewPostgresWithPool(mock, "bad;table")
	assert.Error(t, err)

	rec, err := NewPostgresWithPool(mock, "")
	require.NoError(t, err)
	assert.Equal(t, "scrape_requests", rec.table)
}

func TestNoOpRecorder(t *testing.T) {
	t.Parallel()

	var rec Recorder = NoOp{}
	assert.NoError(t, rec.Record(context.Background(), Entry{}))
	rec.Close()
}
