// This file implements the projects table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

const projectColumns = "project_id, owner_id, name, color, icon, trash_status, trash_origin, deleted_at, created_at, updated_at"

// GetProject retrieves a project by ID. Returns ErrNotFound if no project
// with that ID is visible under vis.
func (s *storeTx) GetProject(id string, vis types.Visibility) (*types.Project, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := s.queryRow(
		"SELECT "+projectColumns+" FROM projects WHERE project_id = ? AND "+visibilityClause(vis),
		id,
	)
	p, err := hydrateProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return p, nil
}

// ProjectsOwnedBy returns the owner's projects, newest first.
func (s *storeTx) ProjectsOwnedBy(ownerID string, vis types.Visibility) ([]*types.Project, error) {
	rows, err := s.query(
		"SELECT "+projectColumns+" FROM projects WHERE owner_id = ? AND "+visibilityClause(vis)+" ORDER BY created_at DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}
	defer rows.Close()

	results := []*types.Project{}
	for rows.Next() {
		p, err := hydrateProject(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating project: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return results, nil
}

// CreateProject inserts an active project owned by p.OwnerID and fills in
// the generated ID and timestamps.
func (s *storeTx) CreateProject(p *types.Project) (string, error) {
	if p == nil {
		return "", types.ErrInvalidData
	}
	if p.Name == "" {
		return "", types.ErrInvalidName
	}
	if p.OwnerID == "" {
		return "", fmt.Errorf("%w: project owner is required", types.ErrInvalidData)
	}

	now := s.now().UTC()
	p.ProjectID = generateUUID()
	p.Trash = types.Active()
	p.DeletedAt = nil
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.exec(
		"INSERT INTO projects (project_id, owner_id, name, color, icon, trash_status, trash_origin, deleted_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, '', NULL, ?, ?)",
		p.ProjectID, p.OwnerID, p.Name, p.Color, p.Icon, string(types.StatusActive), formatTime(now), formatTime(now),
	)
	if err != nil {
		return "", fmt.Errorf("persisting project: %w", err)
	}
	return p.ProjectID, nil
}

// hydrateProject converts one row into a *types.Project.
func hydrateProject(row scanner) (*types.Project, error) {
	var p types.Project
	var status, origin, createdAt, updatedAt string
	var deletedAt sql.NullString
	if err := row.Scan(&p.ProjectID, &p.OwnerID, &p.Name, &p.Color, &p.Icon,
		&status, &origin, &deletedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Trash, p.DeletedAt, err = hydrateTrash(status, origin, deletedAt); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}
