package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the tables read by the repositories.  Statements are
// computed on demand and never stored.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS plays (
    id   VARCHAR(64)  NOT NULL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    type ENUM('tragedy','comedy','history','pastoral') NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS invoices (
    id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
    customer   VARCHAR(255)    NOT NULL,
    created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS invoice_performances (
    invoice_id BIGINT UNSIGNED NOT NULL,
    position   INT UNSIGNED    NOT NULL,
    play_id    VARCHAR(64)     NOT NULL,
    audience   INT UNSIGNED    NOT NULL,
    PRIMARY KEY (invoice_id, position),
    CONSTRAINT fk_perf_invoice FOREIGN KEY (invoice_id) REFERENCES invoices (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
