package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rememberthis/remember-server/internal/domain"
	"github.com/rememberthis/remember-server/internal/store"
)

// memoryColumns is the ordered list of columns selected in memory queries.
// Must match the scan order in scanMemory.
const memoryColumns = `id, user_id, external_user_id, title, description, category,
	timeframe, tags, image_url, is_public, created_at, updated_at`

// serializeTags encodes a tag list as a JSON array string, or NULL when empty.
// Serialization lives here so callers cannot persist a malformed tag column.
func serializeTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("serialize tags: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// parseTags decodes the JSON tag column back into a string slice.
func parseTags(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
		return nil, fmt.Errorf("parse tags: %w", err)
	}
	return tags, nil
}

// scanMemory scans a sql.Row (or sql.Rows via its Scan method) into a domain.Memory.
func scanMemory(scanner interface{ Scan(dest ...any) error }) (*domain.Memory, error) {
	var m domain.Memory

	var (
		category  string
		timeframe sql.NullString
		tags      sql.NullString
		imageURL  sql.NullString
		isPublic  int
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&m.ID,
		&m.UserID,
		&m.ExternalUserID,
		&m.Title,
		&m.Description,
		&category,
		&timeframe,
		&tags,
		&imageURL,
		&isPublic,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Category = domain.Category(category)
	if timeframe.Valid {
		m.Timeframe = timeframe.String
	}
	if imageURL.Valid {
		m.ImageURL = imageURL.String
	}
	m.IsPublic = isPublic != 0

	m.Tags, err = parseTags(tags)
	if err != nil {
		return nil, err
	}

	m.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// CreateMemory inserts a new memory into the database.
// Returns store.ErrAlreadyExists on a duplicate ID.
func (s *Store) CreateMemory(ctx context.Context, memory *domain.Memory) error {
	tags, err := serializeTags(memory.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memories (
			id, user_id, external_user_id, title, description, category,
			timeframe, tags, image_url, is_public, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		memory.ID,
		memory.UserID,
		memory.ExternalUserID,
		memory.Title,
		memory.Description,
		string(memory.Category),
		nullString(memory.Timeframe),
		tags,
		nullString(memory.ImageURL),
		boolToInt(memory.IsPublic),
		formatTime(memory.CreatedAt),
		formatTime(memory.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetMemory retrieves a memory by ID.
// Returns store.ErrNotFound if the memory does not exist.
func (s *Store) GetMemory(ctx context.Context, id string) (*domain.Memory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memoryColumns+` FROM memories WHERE id = ?`, id)

	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMemoriesByUser returns memories owned by userID, newest first.
// A non-positive limit falls back to the default.
func (s *Store) ListMemoriesByUser(ctx context.Context, userID string, limit int) ([]*domain.Memory, error) {
	limit = clampLimit(limit, store.DefaultUserMemoryLimit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memoryColumns+` FROM memories
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMemories(rows)
}

// ListPublicMemories returns memories flagged public, newest first.
// This is the feed query: the only read path open to anonymous browsing.
func (s *Store) ListPublicMemories(ctx context.Context, limit int) ([]*domain.Memory, error) {
	limit = clampLimit(limit, store.DefaultFeedLimit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memoryColumns+` FROM memories
		WHERE is_public = 1
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMemories(rows)
}

// SearchMemories returns public memories whose title, description, or
// serialized tag text contains query case-insensitively, newest first.
// Matching runs over the serialized tag string, not structured tag values;
// good enough for a casual feed search, not a structured index.
func (s *Store) SearchMemories(ctx context.Context, query string, limit int) ([]*domain.Memory, error) {
	limit = clampLimit(limit, store.DefaultSearchLimit)
	pattern := "%" + escapeLike(query) + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memoryColumns+` FROM memories
		WHERE is_public = 1 AND (
			title LIKE ? ESCAPE '\' OR
			description LIKE ? ESCAPE '\' OR
			tags LIKE ? ESCAPE '\'
		)
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMemories(rows)
}

// UpdateMemory merges the update into the row with the given ID, refreshing
// the update timestamp, and returns the updated record.
// Returns store.ErrNotFound if no matching row exists.
func (s *Store) UpdateMemory(ctx context.Context, id string, update store.MemoryUpdate) (*domain.Memory, error) {
	m, err := s.GetMemory(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		m.Title = *update.Title
	}
	if update.Description != nil {
		m.Description = *update.Description
	}
	if update.Category != nil {
		m.Category = *update.Category
	}
	if update.Timeframe != nil {
		m.Timeframe = *update.Timeframe
	}
	if update.Tags != nil {
		m.Tags = *update.Tags
	}
	if update.ImageURL != nil {
		m.ImageURL = *update.ImageURL
	}
	if update.IsPublic != nil {
		m.IsPublic = *update.IsPublic
	}
	m.UpdatedAt = time.Now().UTC()

	tags, err := serializeTags(m.Tags)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE memories SET
			title = ?, description = ?, category = ?, timeframe = ?,
			tags = ?, image_url = ?, is_public = ?, updated_at = ?
		WHERE id = ?`,
		m.Title,
		m.Description,
		string(m.Category),
		nullString(m.Timeframe),
		tags,
		nullString(m.ImageURL),
		boolToInt(m.IsPublic),
		formatTime(m.UpdatedAt),
		id,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMemory removes a memory by ID. Connections cascade.
// Returns store.ErrNotFound if the memory does not exist.
func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// collectMemories drains rows into a slice.
func collectMemories(rows *sql.Rows) ([]*domain.Memory, error) {
	var memories []*domain.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return memories, nil
}

// clampLimit applies the fallback for non-positive limits and the global cap.
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > store.MaxListLimit {
		return store.MaxListLimit
	}
	return limit
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
