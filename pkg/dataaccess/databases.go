package dataaccess

import (
	"database/sql"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB is the Mongo client. This is a connection pool.
var MongoDB *mongo.Client

// PostgresDB is the Postgres connection pool, when the relational settings store is in
// use.
var PostgresDB *sql.DB

const mongoDatabase = "concord"

// ErrNotFound is returned by all DALs when the requested record does not exist,
// regardless of the backing store.
var ErrNotFound = errors.New("record not found")
