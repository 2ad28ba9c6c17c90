package database

import (
	"context"
	"embed"
	"fmt"
	"path"
	"strings"

	"aquaguard/pkg/logging"
)

//go:embed migrations
var migrationFS embed.FS

const seedFile = "migrations/seed/002_sample_data.sql"

// Migrate applies the schema migration for the active driver in the given
// direction ("up" or "down"). With seed set, an "up" migration also loads the
// sample monitoring data unless ocean_data already holds rows.
func (p *DB) Migrate(ctx context.Context, direction string, seed bool) error {
	if direction != "up" && direction != "down" {
		return fmt.Errorf("invalid migration direction %q", direction)
	}

	schemaFile := path.Join("migrations", p.config.Driver, "001_create_schema."+direction+".sql")
	if err := p.execFile(ctx, schemaFile); err != nil {
		return err
	}

	p.logger.Info(ctx, "[DB_MIGRATE] Schema migration applied", logging.Fields{
		"driver":    p.config.Driver,
		"direction": direction,
		"file":      schemaFile,
	})

	if direction == "down" || !seed {
		return nil
	}

	var count int
	if err := p.GetContext(ctx, "count_ocean_data", &count, "SELECT COUNT(*) FROM ocean_data"); err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		p.logger.Info(ctx, "[DB_SEED_SKIP] Database already populated, skipping sample data", logging.Fields{
			"ocean_data_rows": count,
		})
		return nil
	}

	if err := p.execFile(ctx, seedFile); err != nil {
		return err
	}

	p.logger.Info(ctx, "[DB_SEED] Sample data loaded", logging.Fields{"file": seedFile})
	return nil
}

// execFile runs every statement of an embedded SQL file in one transaction
func (p *DB) execFile(ctx context.Context, name string) error {
	content, err := migrationFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(string(content)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			p.metrics.RecordDBError("migration_error")
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", name, err)
	}

	return nil
}

// splitStatements splits a script on semicolons that end a line
func splitStatements(script string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(strings.TrimSpace(line), ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				stmts = append(stmts, stmt)
			}
			current.Reset()
		}
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		stmts = append(stmts, stmt)
	}
	return stmts
}
