package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uigenie/internal/domain"
	"uigenie/internal/infra"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return errors.New("no row")
	}
	return r.scan(dest...)
}

type stubRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error)                       { return r.data[r.idx-1], nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	return assign(r.data[r.idx-1], dest)
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: want %d targets, got %d", len(values), len(dest))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

type stubDB struct {
	queries []string
	args    [][]any
	row     []any
	rowErr  error
	rows    *stubRows
	tag     pgconn.CommandTag
	execErr error
}

func (s *stubDB) record(query string, args []any) {
	s.queries = append(s.queries, query)
	s.args = append(s.args, args)
}

func (s *stubDB) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.record(query, args)
	return s.tag, s.execErr
}

func (s *stubDB) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.record(query, args)
	if s.rowErr != nil {
		return stubRow{scan: func(...any) error { return s.rowErr }}
	}
	return stubRow{scan: func(dest ...any) error { return assign(s.row, dest) }}
}

func (s *stubDB) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	s.record(query, args)
	return s.rows, nil
}

func newRepo(db *stubDB) *GenerationRepositoryPG {
	return NewGenerationRepository(infra.NewSQLRunner(db, zerolog.Nop()))
}

func TestCreateReturnsStoredRecord(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	db := &stubDB{row: []any{"5a3c2c3e-8f55-4b8f-9d0c-0b0e5d0b7a11", created}}

	g, err := newRepo(db).Create(context.Background(), "https://cdn/x.png", "<App/>", "user-1")
	require.NoError(t, err)

	assert.Equal(t, &domain.Generation{
		ID:            "5a3c2c3e-8f55-4b8f-9d0c-0b0e5d0b7a11",
		ImageURL:      "https://cdn/x.png",
		GeneratedCode: "<App/>",
		OwnerID:       "user-1",
		CreatedAt:     created,
	}, g)
	require.Len(t, db.queries, 1)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(db.queries[0]), "insert into generated_uis"), "marker is stripped before execution")
	assert.Equal(t, []any{"https://cdn/x.png", "<App/>", "user-1"}, db.args[0])
}

func TestCreateWrapsFailure(t *testing.T) {
	db := &stubDB{rowErr: errors.New("connection reset")}
	_, err := newRepo(db).Create(context.Background(), "u", "c", "o")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestGetForOwnerMapsNoRowsToNotFound(t *testing.T) {
	db := &stubDB{rowErr: pgx.ErrNoRows}
	_, err := newRepo(db).GetForOwner(context.Background(), "5a3c2c3e-8f55-4b8f-9d0c-0b0e5d0b7a11", "user-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []any{"5a3c2c3e-8f55-4b8f-9d0c-0b0e5d0b7a11", "user-2"}, db.args[0])
}

func TestGetForOwnerRejectsMalformedID(t *testing.T) {
	db := &stubDB{}
	_, err := newRepo(db).GetForOwner(context.Background(), "not-a-uuid", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, db.queries)
}

func TestListByOwnerClampsPaging(t *testing.T) {
	now := time.Now().UTC()
	db := &stubDB{rows: &stubRows{data: [][]any{
		{"id-2", "https://cdn/2.png", "code-2", "user-1", now},
		{"id-1", "https://cdn/1.png", "code-1", "user-1", now.Add(-time.Minute)},
	}}}

	list, err := newRepo(db).ListByOwner(context.Background(), "user-1", 500, -3)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "id-2", list[0].ID)
	assert.Equal(t, []any{"user-1", MaxListLimit, 0}, db.args[0])
}

func TestDeleteByOwnerReportsRowsAffected(t *testing.T) {
	db := &stubDB{tag: pgconn.NewCommandTag("DELETE 3")}
	n, err := newRepo(db).DeleteByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStats(t *testing.T) {
	db := &stubDB{row: []any{12, 4}}
	s, err := newRepo(db).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.GenerationStats{TotalGenerations: 12, Owners: 4}, s)
}
