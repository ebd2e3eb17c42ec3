// Package sqlstore persists users and notes in a relational database.
// Postgres and MySQL share one implementation; only the schema and the
// placeholder style differ per dialect.
package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// ParseDialect accepts the STORE_DRIVER spelling.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", s)
	}
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == MySQL {
		return "mysql"
	}
	return "pgx"
}

func (d Dialect) placeholder(n int) string {
	if d == MySQL {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// rebind rewrites '?' markers into the dialect's placeholder style.
// Queries in this package never contain a literal '?'.
func (d Dialect) rebind(q string) string {
	if d == MySQL {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString(d.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type queries struct {
	schema []string

	insertUser        string
	selectUserByEmail string
	selectUserByID    string

	insertNote         string
	selectNotesByOwner string
	selectOwnedNote    string
	updateOwnedNote    string
	deleteOwnedNote    string
}

func queriesFor(d Dialect) *queries {
	q := &queries{
		insertUser: `
INSERT INTO users (id, name, email, password_hash, phone, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		selectUserByEmail: `
SELECT id, name, email, password_hash, phone, created_at
FROM users
WHERE email = ?
LIMIT 1`,
		selectUserByID: `
SELECT id, name, email, password_hash, phone, created_at
FROM users
WHERE id = ?
LIMIT 1`,

		insertNote: `
INSERT INTO notes (id, user_id, content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		selectNotesByOwner: `
SELECT id, user_id, content, created_at, updated_at
FROM notes
WHERE user_id = ?
ORDER BY created_at ASC, id ASC`,
		selectOwnedNote: `
SELECT id, user_id, content, created_at, updated_at
FROM notes
WHERE id = ? AND user_id = ?`,
		updateOwnedNote: `
UPDATE notes SET content = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		deleteOwnedNote: `
DELETE FROM notes WHERE id = ? AND user_id = ?`,
	}

	q.insertUser = d.rebind(q.insertUser)
	q.selectUserByEmail = d.rebind(q.selectUserByEmail)
	q.selectUserByID = d.rebind(q.selectUserByID)
	q.insertNote = d.rebind(q.insertNote)
	q.selectNotesByOwner = d.rebind(q.selectNotesByOwner)
	q.selectOwnedNote = d.rebind(q.selectOwnedNote)
	q.updateOwnedNote = d.rebind(q.updateOwnedNote)
	q.deleteOwnedNote = d.rebind(q.deleteOwnedNote)

	if d == MySQL {
		q.schema = mysqlSchema
	} else {
		q.schema = postgresSchema
	}
	return q
}
