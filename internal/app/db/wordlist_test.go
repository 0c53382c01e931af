package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// fakeRows serves a fixed list of single-column text rows.
type fakeRows struct {
	values []string
	idx    int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.idx >= len(r.values) {
		r.closed = true
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.values[r.idx-1]
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	return []any{r.values[r.idx-1]}, nil
}

type fakeQuerier struct {
	rows  *fakeRows
	err   error
	query string
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.query = sql
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestWordListSource_Load(t *testing.T) {
	req := require.New(t)
	q := &fakeQuerier{rows: &fakeRows{values: []string{"badger", "weasel"}}}

	words, err := WordListSource{DB: q}.Load(context.Background())

	req.NoError(err)
	req.Equal([]string{"badger", "weasel"}, words)
	req.Equal(selectBlockedWords, q.query)
	req.True(q.rows.closed)
}

func TestWordListSource_QueryError(t *testing.T) {
	q := &fakeQuerier{err: errors.New("connection refused")}

	_, err := WordListSource{DB: q}.Load(context.Background())

	require.ErrorContains(t, err, "connection refused")
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := embedMigrations.ReadDir("migrations")

	require.NoError(t, err)
	require.NotEmpty(t, entries)
}
