package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner applies versioned SQL files named V<version>__<name>.sql, each in
// its own transaction. Files come from Dir when set, otherwise from FS.
// Applied files are fingerprinted; editing one afterwards fails the run.
type Runner struct {
	Dir    string
	FS     fs.FS
	Logger logrus.FieldLogger
}

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// advisoryLockKey serializes runners across processes starting together.
const advisoryLockKey int64 = 581203377

var (
	fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

	errNoSource = errors.New("migration: no Dir or FS configured")
)

// Run applies every pending migration under a session advisory lock and
// returns the ones it applied.
func (r Runner) Run(ctx context.Context, db *sql.DB) ([]Migration, error) {
	if db == nil {
		return nil, errors.New("migration: nil db")
	}
	migs, err := r.load()
	if err != nil || len(migs) == 0 {
		return nil, err
	}
	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockKey); err != nil {
		return nil, fmt.Errorf("migration lock: %w", err)
	}
	defer func() {
		_, _ = db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockKey)
	}()

	pending, err := plan(ctx, db, migs)
	if err != nil {
		return nil, err
	}

	applied := make([]Migration, 0, len(pending))
	for _, m := range pending {
		started := time.Now()
		if err := applyOne(ctx, db, m); err != nil {
			return applied, err
		}
		applied = append(applied, m)
		r.log().WithFields(logrus.Fields{
			"version": m.Version,
			"name":    m.Name,
			"latency": time.Since(started).String(),
		}).Info("migration applied")
	}
	return applied, nil
}

// Pending lists migrations not yet applied without applying them. It fails
// the same way Run does when an applied file was edited.
func (r Runner) Pending(ctx context.Context, db *sql.DB) ([]Migration, error) {
	if db == nil {
		return nil, errors.New("migration: nil db")
	}
	migs, err := r.load()
	if err != nil || len(migs) == 0 {
		return nil, err
	}
	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return nil, err
	}
	return plan(ctx, db, migs)
}

func (r Runner) load() ([]Migration, error) {
	var src fs.FS
	switch {
	case strings.TrimSpace(r.Dir) != "":
		src = os.DirFS(strings.TrimSpace(r.Dir))
	case r.FS != nil:
		src = r.FS
	default:
		return nil, errNoSource
	}
	return loadMigrations(src)
}

func (r Runner) log() logrus.FieldLogger {
	if r.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l
	}
	return r.Logger
}

func loadMigrations(src fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(src, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var migs []Migration
	for _, e := range entries {
		m := fileRe.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version: %s", e.Name())
		}
		raw, err := fs.ReadFile(src, e.Name())
		if err != nil {
			return nil, err
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("empty migration file: %s", e.Name())
		}
		sum := sha256.Sum256([]byte(body))
		migs = append(migs, Migration{
			Version:  version,
			Name:     m[2],
			Filename: e.Name(),
			SQL:      body,
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version: %d", migs[i].Version)
		}
	}
	return migs, nil
}

// plan compares the files with schema_migrations and returns what is left.
func plan(ctx context.Context, db *sql.DB, migs []Migration) ([]Migration, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[int64]string{}
	for rows.Next() {
		var version int64
		var checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		applied[version] = checksum
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var pending []Migration
	for _, m := range migs {
		checksum, ok := applied[m.Version]
		if !ok {
			pending = append(pending, m)
			continue
		}
		if checksum != m.Checksum {
			return nil, fmt.Errorf("migration checksum mismatch: version=%d name=%s", m.Version, m.Name)
		}
	}
	return pending, nil
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return err
}

func applyOne(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply migration %s: %w", m.Filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum, applied_at) VALUES ($1, $2, $3, $4)`,
		m.Version, m.Name, m.Checksum, time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}
