package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	persistence "github.com/goliatone/go-persistence-bun"
)

// migrationsFS holds the session slot schema, with sqlite alternatives under
// data/sql/migrations/sqlite.
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var migrationsFS embed.FS

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	migrationsDir = "data/sql/migrations"
)

// FS returns the embedded migration tree.
func FS() fs.FS {
	return migrationsFS
}

// DialectForDriver maps a storage driver name to its migration dialect.
func DialectForDriver(driver string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(driver)) {
	case "postgres":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("migrations: unsupported storage driver %q", driver)
	}
}

// Source returns the migrations for dialect, rooted so that the *.up.sql and
// *.down.sql files sit at the top level.
func Source(dialect string) (fs.FS, error) {
	dir := migrationsDir
	switch dialect {
	case DialectPostgres:
	case DialectSQLite:
		dir = path.Join(migrationsDir, "sqlite")
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}

	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s filesystem: %w", dialect, err)
	}
	ups, err := fs.Glob(sub, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: glob %s: %w", dir, err)
	}
	if len(ups) == 0 {
		return nil, fmt.Errorf("migrations: %s has no *.up.sql files", dir)
	}
	return sub, nil
}

// Registrar is satisfied by *persistence.Client.
type Registrar interface {
	RegisterSQLMigrations(migrations ...fs.FS) *persistence.Migrations
}

// Register adds the session slot migrations for dialect to registrar. They run
// on the registrar's next Migrate.
func Register(dialect string, registrar Registrar) error {
	if registrar == nil {
		return fmt.Errorf("migrations: registrar is required")
	}
	source, err := Source(dialect)
	if err != nil {
		return err
	}
	registrar.RegisterSQLMigrations(source)
	return nil
}

var _ Registrar = (*persistence.Client)(nil)
