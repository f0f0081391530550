package postgres

import (
	"embed"

	pkgpostgres "github.com/aniketri/real-insights-data/pkg/postgres"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationsDir is the directory inside the embedded filesystem holding the schema.
const MigrationsDir = "migrations"

// Migrate applies all pending schema migrations.
func Migrate(dsn string) error {
	return pkgpostgres.RunMigrations(dsn, migrationFS, MigrationsDir)
}

// Rollback reverts steps migrations, or all of them when steps <= 0.
func Rollback(dsn string, steps int) error {
	return pkgpostgres.RunMigrationsDown(dsn, migrationFS, MigrationsDir, steps)
}
