package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DatabaseConfiguration holds the Postgres connection settings.
type DatabaseConfiguration struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Schema   string `yaml:"schema"`
	SSLMode  string `yaml:"sslMode"`
}

// Database bundles a named connection with its logger. Database handlers
// receive it instead of a bare *sql.DB so logging stays consistent.
type Database struct {
	Name     string
	Logger   *slog.Logger
	Instance *sql.DB
}

// NewDatabase opens a Postgres connection via the pgx stdlib driver and
// verifies it with a ping.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) (*Database, error) {
	if config == nil {
		return nil, fmt.Errorf("database configuration is nil")
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&search_path=%s",
		config.Username,
		config.Password,
		config.Host,
		config.Port,
		config.Database,
		GetEnvOrDefault("WORKGRAPH_MANAGER_DB_SSLMODE", config.SSLMode),
		config.Schema,
	)

	instance, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, NewError("open database", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := instance.PingContext(ctx); err != nil {
		return nil, NewError("ping database", err)
	}

	return &Database{
		Name:     name,
		Logger:   logger,
		Instance: instance,
	}, nil
}

// NewDatabaseWithDB wraps an existing connection, mainly for tests.
func NewDatabaseWithDB(name string, instance *sql.DB, logger *slog.Logger) *Database {
	return &Database{
		Name:     name,
		Logger:   logger,
		Instance: instance,
	}
}

// CheckTableExistance checks if the given table exists in the database.
func (d *Database) CheckTableExistance(table string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)`
	err := d.Instance.QueryRowContext(ctx, query, table).Scan(&exists)
	if err != nil {
		return false, NewError("check table existance", err)
	}
	return exists, nil
}
