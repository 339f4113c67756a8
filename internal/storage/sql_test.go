package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/johnnynv/RouteScribe/pkg/types"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type SQLiteStoreSuite struct {
	suite.Suite
	store *SQLStore
	clock *fakeClock
	ctx   context.Context
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	store, err := NewSQLiteStorage(&types.SQLiteConfig{
		Path:           filepath.Join(s.T().TempDir(), "db", "docs.db"),
		MaxConnections: 1,
	}, WithClock(s.clock.Now))
	s.Require().NoError(err)
	s.Require().NoError(store.Initialize(s.ctx))
	s.store = store
}

func (s *SQLiteStoreSuite) TearDownTest() {
	s.store.Close()
}

func (s *SQLiteStoreSuite) newDoc(identifier, uri string) *ApiDoc {
	return &ApiDoc{
		Identifier:  identifier,
		Title:       "List users",
		Method:      "GET",
		URI:         uri,
		Description: "Returns every user",
		Parameters:  Parameters{
			{Name: "page", Type: "integer", Value: "2", Default: float64(1), Description: "page number"},
			{Name: "id", Type: "string", Value: "1", Required: true},
		},
	}
}

func (s *SQLiteStoreSuite) TestInsertAndGet() {
	doc := s.newDoc("id-1", "/users")
	doc.Response = RawJSON(`{"data":[]}`)
	s.Require().NoError(s.store.InsertDoc(s.ctx, doc))
	s.NotZero(doc.ID)
	s.Equal(s.clock.now, doc.CreatedAt)

	got, err := s.store.GetDocByIdentifier(s.ctx, "id-1")
	s.Require().NoError(err)
	s.Equal(doc.ID, got.ID)
	s.Equal("/users", got.URI)
	s.Equal("Returns every user", got.Description)
	s.True(got.CreatedAt.Equal(s.clock.now))
	s.JSONEq(`{"data":[]}`, string(got.Response))

	s.Require().Len(got.Parameters, 2)
	s.Equal("page", got.Parameters[0].Name)
	s.Equal("2", got.Parameters[0].Value)
	s.Equal(float64(1), got.Parameters[0].Default)
	s.Equal("id", got.Parameters[1].Name)
	s.True(got.Parameters[1].Required)

	byID, err := s.store.GetDoc(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal("id-1", byID.Identifier)
}

func (s *SQLiteStoreSuite) TestNullColumns() {
	doc := s.newDoc("id-null", "/ping")
	doc.Parameters = nil
	s.Require().NoError(s.store.InsertDoc(s.ctx, doc))

	got, err := s.store.GetDocByIdentifier(s.ctx, "id-null")
	s.Require().NoError(err)
	s.Empty(got.Parameters)
	s.Nil(got.Response)
}

func (s *SQLiteStoreSuite) TestNotFound() {
	_, err := s.store.GetDocByIdentifier(s.ctx, "missing")
	s.Require().Error(err)
	s.True(IsNotFound(err))

	_, err = s.store.GetDoc(s.ctx, 404)
	s.True(IsNotFound(err))

	err = s.store.UpdateDoc(s.ctx, &ApiDoc{ID: 999, Identifier: "ghost"})
	s.True(IsNotFound(err))
}

func (s *SQLiteStoreSuite) TestDuplicateIdentifier() {
	s.Require().NoError(s.store.InsertDoc(s.ctx, s.newDoc("dup", "/a")))

	err := s.store.InsertDoc(s.ctx, s.newDoc("dup", "/a"))
	var dup *DuplicateDocError
	s.Require().True(errors.As(err, &dup))
	s.Equal("dup", dup.Identifier)
}

func (s *SQLiteStoreSuite) TestUpdateKeepsIDAndCreatedAt() {
	doc := s.newDoc("id-2", "/users")
	s.Require().NoError(s.store.InsertDoc(s.ctx, doc))
	created := doc.CreatedAt

	s.clock.Advance(time.Hour)
	doc.Title = "Users"
	doc.Parameters = nil
	s.Require().NoError(s.store.UpdateDoc(s.ctx, doc))

	got, err := s.store.GetDocByIdentifier(s.ctx, "id-2")
	s.Require().NoError(err)
	s.Equal(doc.ID, got.ID)
	s.Equal("Users", got.Title)
	s.Empty(got.Parameters)
	s.True(got.CreatedAt.Equal(created))
	s.True(got.UpdatedAt.Equal(created.Add(time.Hour)))
}

func (s *SQLiteStoreSuite) TestListDocsAscendingAndStats() {
	empty, err := s.store.ListDocs(s.ctx)
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	stats, err := s.store.GetStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), stats.TotalDocs)
	s.True(stats.LastUpdated.IsZero())

	first := s.newDoc("a", "/a")
	first.Response = RawJSON(`"ok"`)
	s.Require().NoError(s.store.InsertDoc(s.ctx, first))
	s.clock.Advance(time.Minute)
	s.Require().NoError(s.store.InsertDoc(s.ctx, s.newDoc("b", "/b")))

	docs, err := s.store.ListDocs(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal("a", docs[0].Identifier)
	s.Equal("b", docs[1].Identifier)
	s.Less(docs[0].ID, docs[1].ID)

	stats, err = s.store.GetStats(s.ctx)
	s.Require().NoError(err)
	s.Equal("sqlite3", stats.Driver)
	s.Equal(int64(2), stats.TotalDocs)
	s.Equal(int64(1), stats.DocsWithResponse)
	s.True(stats.LastUpdated.Equal(s.clock.now))
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()

	store, err := factory.Create(&types.StorageConfig{
		Type:   "sqlite",
		SQLite: types.SQLiteConfig{Path: filepath.Join(t.TempDir(), "f.db")},
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = factory.Create(&types.StorageConfig{Type: "postgres"})
	assert.Error(t, err)

	_, err = factory.Create(&types.StorageConfig{Type: "mongo"})
	var unsupported *UnsupportedStorageTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "mongo", unsupported.Type)
}

func newMockStore(t *testing.T, driver string) (*SQLStore, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	store := NewSQLStore(sqlx.NewDb(db, driver), WithClock(func() time.Time { return now }))
	return store, mock, now
}

func TestSQLStore_Postgres_InsertUsesReturning(t *testing.T) {
	store, mock, now := newMockStore(t, "postgres")
	assert.Equal(t, DialectPostgres, store.Driver())

	mock.ExpectQuery(`(?s)`+regexp.QuoteMeta(`INSERT INTO api_docs`) + `.*VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9\) RETURNING id`).
		WithArgs("ident", "Title", "GET", "/users", "", `{"id":{"type":"string","value":"1","default":null,"required":true,"description":""}}`, nil, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	doc := &ApiDoc{
		Identifier: "ident",
		Title:      "Title",
		Method:     "GET",
		URI:        "/users",
		Parameters: Parameters{{Name: "id", Type: "string", Value: "1", Required: true}},
	}
	require.NoError(t, store.InsertDoc(context.Background(), doc))
	assert.Equal(t, int64(42), doc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SQLite_InsertUsesLastInsertID(t *testing.T) {
	store, mock, _ := newMockStore(t, "sqlite3")

	mock.ExpectExec(`(?s)`+regexp.QuoteMeta(`INSERT INTO api_docs`) + `.*VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?\)`).
		WithArgs("ident", "", "POST", "/users", "", nil, `{"ok":true}`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	doc := &ApiDoc{Identifier: "ident", Method: "POST", URI: "/users", Response: RawJSON(`{"ok":true}`)}
	require.NoError(t, store.InsertDoc(context.Background(), doc))
	assert.Equal(t, int64(7), doc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_UpdateTouchesUpdatedAtOnly(t *testing.T) {
	store, mock, now := newMockStore(t, "postgres")

	mock.ExpectExec(`UPDATE api_docs\s+SET title = \$1, method = \$2, uri = \$3, description = \$4, parameters = \$5, response = \$6, updated_at = \$7\s+WHERE id = \$8`).
		WithArgs("T", "GET", "/u", "D", nil, nil, now, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created := now.Add(-time.Hour)
	doc := &ApiDoc{ID: 3, Identifier: "x", Title: "T", Method: "GET", URI: "/u", Description: "D", CreatedAt: created}
	require.NoError(t, store.UpdateDoc(context.Background(), doc))
	assert.Equal(t, now, doc.UpdatedAt)
	assert.Equal(t, created, doc.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_GetDocByIdentifier_Errors(t *testing.T) {
	store, mock, _ := newMockStore(t, "postgres")

	mock.ExpectQuery(`SELECT (.+) FROM api_docs WHERE identifier = \$1`).
		WithArgs("none").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT (.+) FROM api_docs WHERE identifier = \$1`).
		WithArgs("boom").
		WillReturnError(errors.New("connection reset"))

	_, err := store.GetDocByIdentifier(context.Background(), "none")
	assert.True(t, IsNotFound(err))

	_, err = store.GetDocByIdentifier(context.Background(), "boom")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_ListDocs_ScansJSONColumns(t *testing.T) {
	store, mock, now := newMockStore(t, "postgres")

	rows := sqlmock.NewRows([]string{"id", "identifier", "title", "method", "uri", "description", "parameters", "response", "created_at", "updated_at"}).
		AddRow(int64(1), "a", "A", "GET", "/a", "", []byte(`{"z":{"type":"int","value":5},"a":{"type":"string"}}`), []byte(`[1,2]`), now, now).
		AddRow(int64(2), "b", "B", "POST", "/b", "", nil, nil, now, now)
	mock.ExpectQuery(`SELECT (.+) FROM api_docs ORDER BY id ASC`).WillReturnRows(rows)

	docs, err := store.ListDocs(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Len(t, docs[0].Parameters, 2)
	assert.Equal(t, "z", docs[0].Parameters[0].Name)
	assert.Equal(t, "5", docs[0].Parameters[0].Value)
	assert.Equal(t, "a", docs[0].Parameters[1].Name)
	assert.Equal(t, RawJSON(`[1,2]`), docs[0].Response)
	assert.Nil(t, docs[1].Parameters)
	assert.NoError(t, mock.ExpectationsWereMet())
}
