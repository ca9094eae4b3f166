package connection

import (
	"database/sql"
	"fmt"

	// Postgres driver.
	_ "github.com/lib/pq"
)

type Postgres struct {
	ConnectionString string
}

func (p *Postgres) Connect() (*sql.DB, error) {
	db, err := sql.Open("postgres", p.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("error opening postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging postgres: %w", err)
	}
	return db, nil
}
