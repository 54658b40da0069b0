package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

func GetDSN() string {
	return os.Getenv("STOREFRONT_DB_DSN")
}

func MustOpen(dsn string) *sql.DB {
	if dsn == "" {
		dsn = GetDSN()
	}
	if dsn == "" {
		log.Fatal("STOREFRONT_DB_DSN not set")
	}

	db, err := openDB(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return db
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}
