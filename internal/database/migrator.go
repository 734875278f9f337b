package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/deppfellow/usergroups/internal/config"
	"github.com/deppfellow/usergroups/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// VersionTable records which migrations have been applied.
const VersionTable = "schema_version"

// quoteList renders values as a SQL literal list: 'a', 'b'.
func quoteList[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(string(v), "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}

// migrationData is the template data available to every migration.
//
// The CHECK constraints on users.status and groups.status are rendered
// from the model enums so validation and schema cannot drift apart.
func migrationData() map[string]any {
	return map[string]any{
		"UserStatuses":       quoteList(model.UserStatuses()),
		"GroupStatuses":      quoteList(model.GroupStatuses()),
		"DefaultGroupStatus": quoteList([]model.GroupStatus{model.GroupStatusEmpty}),
	}
}

// Migrate creates the users, groups and user_groups tables.
//
// It is safe to call on every startup: applied migrations are tracked in
// VersionTable and the DDL itself only creates what does not exist yet.
// Any error must be treated as fatal by the caller.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, DSN(&cfg.Database))
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	return MigrateConn(ctx, logger, conn)
}

// MigrateConn runs the embedded migrations on an existing connection.
func MigrateConn(ctx context.Context, logger *zerolog.Logger, conn *pgx.Conn) error {
	m, err := tern.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	m.Data = migrationData()

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("applying database migrations: %w", err)
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
