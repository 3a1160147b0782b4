package sqlite

import (
	"context"
	"database/sql"

	"github.com/rememberthis/remember-server/internal/domain"
	"github.com/rememberthis/remember-server/internal/store"
)

// connectionColumns is the ordered list of columns selected in connection queries.
// Must match the scan order in scanConnection.
const connectionColumns = `id, memory_id, user_id, external_user_id, connection_type, note, created_at`

// scanConnection scans a sql.Row (or sql.Rows via its Scan method) into a domain.MemoryConnection.
func scanConnection(scanner interface{ Scan(dest ...any) error }) (*domain.MemoryConnection, error) {
	var c domain.MemoryConnection

	var (
		connectionType string
		note           sql.NullString
		createdAt      string
	)

	err := scanner.Scan(
		&c.ID,
		&c.MemoryID,
		&c.UserID,
		&c.ExternalUserID,
		&connectionType,
		&note,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.ConnectionType = domain.ConnectionType(connectionType)
	if note.Valid {
		c.Note = note.String
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateConnection inserts a new memory connection.
// Returns store.ErrAlreadyExists when the same user already has a connection
// of the same type on the memory.
func (s *Store) CreateConnection(ctx context.Context, conn *domain.MemoryConnection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memory_connections (
			id, memory_id, user_id, external_user_id, connection_type, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		conn.ID,
		conn.MemoryID,
		conn.UserID,
		conn.ExternalUserID,
		string(conn.ConnectionType),
		nullString(conn.Note),
		formatTime(conn.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrNotFound.WithMessage("memory or user not found")
		}
		return err
	}
	return nil
}

// ListConnectionsForMemory returns all connections on a memory, newest first.
func (s *Store) ListConnectionsForMemory(ctx context.Context, memoryID string) ([]*domain.MemoryConnection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+connectionColumns+` FROM memory_connections
		WHERE memory_id = ?
		ORDER BY created_at DESC, id DESC`, memoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectConnections(rows)
}

// ListConnectionsForUser returns all connections made by a user, newest first.
func (s *Store) ListConnectionsForUser(ctx context.Context, userID string) ([]*domain.MemoryConnection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+connectionColumns+` FROM memory_connections
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectConnections(rows)
}

// collectConnections drains rows into a slice.
func collectConnections(rows *sql.Rows) ([]*domain.MemoryConnection, error) {
	var conns []*domain.MemoryConnection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return conns, nil
}
