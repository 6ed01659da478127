package datastore

import (
	"database/sql"
	"fmt"

	// pq is the PostgreSQL driver
	_ "github.com/lib/pq"
)

// DB is a global database connection pool (for simplicity in this context)
// In a real application, this would be managed more carefully, e.g., passed through context or via dependency injection.
var DB *sql.DB

// InitDB initializes the database connection.
// Connection details come from environment configuration assembled in main.
func InitDB(dataSourceName string) error {
	var err error
	DB, err = sql.Open("postgres", dataSourceName)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
