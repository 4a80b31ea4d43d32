package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/model"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// One writer rewrites one row; a small pool is plenty.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// snapshotRowID is the primary key of the single row holding the document.
const snapshotRowID = 1

// MySQLStorage stores the same JSON document FileStorage writes, as one
// row of the reservation_state table.  It exists for deployments where
// the local filesystem is ephemeral.
type MySQLStorage struct {
	db *sql.DB
}

// NewMySQLStorage returns a MySQLStorage bound to db.  Call Migrate before
// the first Load.
func NewMySQLStorage(db *sql.DB) *MySQLStorage { return &MySQLStorage{db: db} }

// Migrate creates the snapshot table when it does not exist yet.
func (s *MySQLStorage) Migrate(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS reservation_state (
		id         TINYINT UNSIGNED NOT NULL PRIMARY KEY,
		document   JSON NOT NULL,
		updated_at DATETIME(3) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	_, err := s.db.ExecContext(ctx, q)
	return err
}

// Load reads the document row.  No row means no prior state.
func (s *MySQLStorage) Load(ctx context.Context) (model.State, bool, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM reservation_state WHERE id = ?`, snapshotRowID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.State{}, false, nil
	}
	if err != nil {
		return model.State{}, false, fmt.Errorf("select state: %w", err)
	}
	var st model.State
	if err := json.Unmarshal(doc, &st); err != nil {
		return model.State{}, false, fmt.Errorf("parse state: %w", err)
	}
	return st, true, nil
}

// Save upserts the document row.
func (s *MySQLStorage) Save(ctx context.Context, st model.State) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	const q = `INSERT INTO reservation_state (id, document, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE document = VALUES(document), updated_at = VALUES(updated_at)`
	if _, err := s.db.ExecContext(ctx, q, snapshotRowID, doc, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}
