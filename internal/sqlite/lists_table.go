// This file implements the lists table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

const listColumns = "list_id, project_id, name, position, trash_status, trash_origin, deleted_at, created_at, updated_at"

// GetList retrieves a list by ID. Returns ErrNotFound if no list with that
// ID is visible under vis.
func (s *storeTx) GetList(id string, vis types.Visibility) (*types.List, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := s.queryRow(
		"SELECT "+listColumns+" FROM lists WHERE list_id = ? AND "+visibilityClause(vis),
		id,
	)
	l, err := hydrateList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting list %s: %w", id, err)
	}
	return l, nil
}

// ActiveListNamed returns the non-trashed list of the project with the
// given name, or ErrNotFound.
func (s *storeTx) ActiveListNamed(projectID, name string) (*types.List, error) {
	row := s.queryRow(
		"SELECT "+listColumns+" FROM lists WHERE project_id = ? AND name = ? AND deleted_at IS NULL",
		projectID, name,
	)
	l, err := hydrateList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting list %q: %w", name, err)
	}
	return l, nil
}

// ListsInProject returns the project's lists ordered by position.
func (s *storeTx) ListsInProject(projectID string, vis types.Visibility) ([]*types.List, error) {
	rows, err := s.query(
		"SELECT "+listColumns+" FROM lists WHERE project_id = ? AND "+visibilityClause(vis)+" ORDER BY position ASC, created_at ASC",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching lists: %w", err)
	}
	defer rows.Close()

	results := []*types.List{}
	for rows.Next() {
		l, err := hydrateList(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating list: %w", err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lists: %w", err)
	}
	return results, nil
}

// CreateList inserts an active list into an active project. A zero
// Position appends the list after the project's existing lists.
func (s *storeTx) CreateList(l *types.List) (string, error) {
	if l == nil {
		return "", types.ErrInvalidData
	}
	if l.Name == "" {
		return "", types.ErrInvalidName
	}
	if _, err := s.GetProject(l.ProjectID, types.ActiveOnly); err != nil {
		return "", fmt.Errorf("project %s: %w", l.ProjectID, err)
	}
	if _, err := s.ActiveListNamed(l.ProjectID, l.Name); err == nil {
		return "", fmt.Errorf("%w: list %q", types.ErrDuplicateName, l.Name)
	} else if !errors.Is(err, types.ErrNotFound) {
		return "", err
	}

	if l.Position == 0 {
		var maxPos sql.NullInt64
		if err := s.queryRow("SELECT MAX(position) FROM lists WHERE project_id = ?", l.ProjectID).Scan(&maxPos); err != nil {
			return "", fmt.Errorf("reading list positions: %w", err)
		}
		l.Position = int(maxPos.Int64) + 1
	}

	now := s.now().UTC()
	l.ListID = generateUUID()
	l.Trash = types.Active()
	l.DeletedAt = nil
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := s.exec(
		"INSERT INTO lists (list_id, project_id, name, position, trash_status, trash_origin, deleted_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, '', NULL, ?, ?)",
		l.ListID, l.ProjectID, l.Name, l.Position, string(types.StatusActive), formatTime(now), formatTime(now),
	)
	if err != nil {
		return "", fmt.Errorf("persisting list: %w", err)
	}
	return l.ListID, nil
}

// hydrateList converts one row into a *types.List.
func hydrateList(row scanner) (*types.List, error) {
	var l types.List
	var status, origin, createdAt, updatedAt string
	var deletedAt sql.NullString
	if err := row.Scan(&l.ListID, &l.ProjectID, &l.Name, &l.Position,
		&status, &origin, &deletedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if l.Trash, l.DeletedAt, err = hydrateTrash(status, origin, deletedAt); err != nil {
		return nil, err
	}
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &l, nil
}
