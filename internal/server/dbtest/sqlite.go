// Package dbtest opens migrated in-memory SQLite databases for tests.
// It imports testing and testify; only _test.go files may import it.
package dbtest

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	"github.com/dmitrijs2005/photodiary/internal/server/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// OpenSQLite returns a private in-memory database with every SQLite
// migration applied. It is closed when the test ends.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	fsys, err := fs.Sub(migrations.Migrations, migrations.SQLiteDir)
	require.NoError(t, err)

	p, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	require.NoError(t, err)
	_, err = p.Up(context.Background())
	require.NoError(t, err)

	return db
}
