package config

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *Config) (*sqlx.DB, error) {
	return connect(cfg.DatabaseURL, cfg)
}

// NewSecurityDB opens the directory database that owns user accounts.
func NewSecurityDB(cfg *Config) (*sqlx.DB, error) {
	return connect(cfg.SecurityDatabaseURL, cfg)
}

func connect(dsn string, cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)

	return db, nil
}
