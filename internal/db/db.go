// Package db provides database connection and migration utilities.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

const pingTimeout = 10 * time.Second

// Connect creates and validates a pgx connection pool.
func Connect(ctx context.Context, databaseURL string, l *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	l.Info("connected to postgres")
	return pool, nil
}

// ConnectMongo creates a MongoDB client and checks that the primary is reachable.
// The client is meant to live for the whole process; call Disconnect on shutdown.
func ConnectMongo(ctx context.Context, uri string, l *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	l.Info("connected to mongodb")
	return client, nil
}

// Migrate runs all pending up migrations for the postgres schema.
func Migrate(databaseURL string, l *zap.Logger) error {
	return run("migrations/postgres", databaseURL, l)
}

// MigrateMongo runs all pending up migrations against database name on the given server.
func MigrateMongo(uri, database string, l *zap.Logger) error {
	target, err := WithDatabase(uri, database)
	if err != nil {
		return err
	}
	return run("migrations/mongodb", target, l)
}

// WithDatabase returns uri with its path replaced by /database, which is how the
// migrate mongodb driver learns which database to use.
func WithDatabase(uri, database string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongo uri: %w", err)
	}
	if database == "" {
		return "", errors.New("mongo database name is empty")
	}
	u.Path = "/" + strings.Trim(database, "/")
	u.RawPath = ""
	return u.String(), nil
}

func run(dir, databaseURL string, l *zap.Logger) error {
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("load migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	l.Info("database migrations applied", zap.String("source", dir))
	return nil
}
