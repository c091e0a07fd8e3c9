package archive

import (
	"database/sql"

	"craftstore/internal/models"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLite is a UserArchive backed by a local SQLite file, for deployments
// that want a queryable backstop instead of a flat JSON array.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(dataSourceName string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	a := &SQLite{db: db}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *SQLite) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	`
	_, err := a.db.Exec(query)
	return err
}

func (a *SQLite) Append(user models.User) error {
	query := `INSERT INTO users (id, username, email, password, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := a.db.Exec(query, user.ID, user.Username, user.Email, user.Password, user.CreatedAt)
	return err
}

func (a *SQLite) Load() ([]models.User, error) {
	query := `SELECT id, username, email, password, created_at FROM users ORDER BY id`
	rows, err := a.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (a *SQLite) Close() error {
	return a.db.Close()
}
