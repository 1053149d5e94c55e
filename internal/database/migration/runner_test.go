package migration

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"V2__add_index.sql": {Data: []byte("CREATE INDEX idx_a ON a (id);")},
		"V1__init.sql":      {Data: []byte("CREATE TABLE a (id INT);")},
		"README.md":         {Data: []byte("not a migration")},
	}
}

func TestLoadMigrations_SortedAndFiltered(t *testing.T) {
	migs, err := loadMigrations(testFS())
	require.NoError(t, err)
	require.Len(t, migs, 2)

	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.NotEmpty(t, migs[0].Checksum)
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	src := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V1__b.sql": {Data: []byte("SELECT 2;")},
	}
	_, err := loadMigrations(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate migration version")
}

func TestLoadMigrations_EmptyFile(t *testing.T) {
	src := fstest.MapFS{"V1__empty.sql": {Data: []byte("  \n")}}
	_, err := loadMigrations(src)
	require.Error(t, err)
}

func TestRunner_AppliesPendingMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_lock($1)")).
		WithArgs(advisoryLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, checksum FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "checksum"}))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id INT);")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(int64(1), "init", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx_a ON a (id);")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(int64(2), "add_index", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_unlock($1)")).
		WithArgs(advisoryLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))

	logger, hook := test.NewNullLogger()
	r := Runner{FS: testFS(), Logger: logger}
	applied, err := r.Run(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, applied, 2)
	assert.Equal(t, "add_index", applied[1].Name)
	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, "migration applied", hook.LastEntry().Message)
	assert.Equal(t, int64(2), hook.LastEntry().Data["version"])
}

func TestRunner_ChecksumMismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_lock($1)")).
		WithArgs(advisoryLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, checksum FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "checksum"}).AddRow(int64(1), "tampered"))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_unlock($1)")).
		WithArgs(advisoryLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := Runner{FS: testFS()}
	_, err = r.Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_PendingSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migs, err := loadMigrations(testFS())
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, checksum FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "checksum"}).AddRow(int64(1), migs[0].Checksum))

	pending, err := Runner{FS: testFS()}.Pending(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_FailedMigrationRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_lock($1)")).
		WithArgs(advisoryLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, checksum FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "checksum"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id INT);")).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_unlock($1)")).
		WithArgs(advisoryLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := Runner{FS: testFS()}.Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "V1__init.sql")
	assert.Empty(t, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_RequiresSource(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = Runner{}.Run(context.Background(), db)
	assert.ErrorIs(t, err, errNoSource)
}
