package repository

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/hanul-soft/hr-portal/backend/internal/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// RunMigrations 는 내장된 SQL 마이그레이션을 순서대로 적용한다.
// 적용할 변경이 없으면 아무 일도 하지 않는다.
func (r *Repository) RunMigrations() error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}

	driver, err := migratepgx.WithInstance(r.dbpool, &migratepgx.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
