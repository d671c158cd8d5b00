package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ApplyMigrations runs every up migration in name order. Migrations are
// written to be re-runnable, so this is safe to call on every start.
func ApplyMigrations(ctx context.Context, db *sqlx.DB) error {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}
	return nil
}

// MigrationContent returns the single migration file whose name ends with
// name, for example "create_polls.up" or "000003_poll_options_immutable.down".
func MigrationContent(name string) (string, []byte, error) {
	rx, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(name)))
	if err != nil {
		return "", nil, fmt.Errorf("invalid migration name: %w", err)
	}

	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return "", nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var matches []string
	for _, entry := range entries {
		if !entry.IsDir() && rx.MatchString(entry.Name()) {
			matches = append(matches, entry.Name())
		}
	}
	switch len(matches) {
	case 0:
		return "", nil, fmt.Errorf("migration file not found: %s", name)
	case 1:
	default:
		return "", nil, fmt.Errorf("migration name %q is ambiguous: %s", name, strings.Join(matches, ", "))
	}

	content, err := migrationFiles.ReadFile("migrations/" + matches[0])
	if err != nil {
		return "", nil, err
	}
	return matches[0], content, nil
}
