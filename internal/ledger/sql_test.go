package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

func TestQueries_Placeholders(t *testing.T) {
	q, args := containsQuery(dialect.Postgres, "a.pdf")
	assert.Contains(t, q, `"ledger_entries"`)
	assert.Contains(t, q, "$1")
	assert.Equal(t, []any{"a.pdf"}, args)

	q, args = containsQuery(dialect.SQLite, "a.pdf")
	assert.Contains(t, q, "?")
	assert.Len(t, args, 1)

	q, args = insertQuery(dialect.Postgres, sampleEntry("a.pdf"), time.Now())
	assert.Contains(t, q, "$12")
	assert.Len(t, args, len(entryColumns))
}

func TestSchemaStatements_UnknownDialect(t *testing.T) {
	_, err := schemaStatements("mysql")
	assert.Error(t, err)
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)
	defer l.Close()

	found, err := l.Contains(ctx, "a.pdf")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, l.Append(ctx, sampleEntry("a.pdf")))

	found, err = l.Contains(ctx, "a.pdf")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = l.Contains(ctx, "b.pdf")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLite_ReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, l.Append(ctx, sampleEntry("a.pdf")))
	require.NoError(t, l.Close())

	l, err = OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	defer l.Close()
	found, err := l.Contains(ctx, "a.pdf")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPostgres_ContainsAndAppend(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	l := NewPostgres(mock, nil)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "ledger_entries" WHERE "filename" = \$1`).
		WithArgs("a.pdf").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectExec(`INSERT INTO "ledger_entries"`).
		WithArgs(pgxmock.AnyArg(), "a.pdf", "Udea", "2024-03-01", true, false,
			"123.45", "0.00", "0.00", "0.00", "/in/a.pdf", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "ledger_entries"`).
		WithArgs("a.pdf").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	found, err := l.Contains(ctx, "a.pdf")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, l.Append(ctx, sampleEntry("a.pdf")))

	found, err = l.Contains(ctx, "a.pdf")
	require.NoError(t, err)
	assert.True(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Migrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS ledger_entries`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS ledger_entries_filename_idx`).
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))

	require.NoError(t, NewPostgres(mock, nil).Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Errors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	l := NewPostgres(mock, nil)

	mock.ExpectQuery(`SELECT COUNT`).WithArgs("a.pdf").WillReturnError(errors.New("conn reset"))
	_, err = l.Contains(context.Background(), "a.pdf")
	assert.ErrorContains(t, err, "conn reset")

	args := make([]any, len(entryColumns))
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	mock.ExpectExec(`INSERT INTO`).WithArgs(args...).WillReturnError(errors.New("disk full"))
	assert.ErrorContains(t, l.Append(context.Background(), sampleEntry("b.pdf")), "insert entry: disk full")

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.ErrorContains(t, l.HealthCheck(context.Background(), time.Second), "down")

	mock.ExpectPing()
	assert.NoError(t, l.HealthCheck(context.Background(), 0))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), common.LedgerConfig{Driver: "mongo"}, nil)
	require.Error(t, err)
	code, ok := common.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, constants.CodeConfigError, code)
}

func TestOpen_CSV(t *testing.T) {
	l, err := Open(context.Background(), common.LedgerConfig{Driver: DriverCSV, Path: filepath.Join(t.TempDir(), "l.csv")}, nil)
	require.NoError(t, err)
	assert.IsType(t, &CSV{}, l)
}
