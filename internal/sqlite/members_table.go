// This file implements the project_members table accessor. Owners are not
// stored here; ownership is projects.owner_id.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// MemberRole returns RoleOwner for the project owner, the stored role for
// members and RoleNone for everyone else. Returns ErrNotFound if the
// project does not exist, trashed or not.
func (s *storeTx) MemberRole(projectID, userID string) (types.Role, error) {
	p, err := s.GetProject(projectID, types.IncludeTrashed)
	if err != nil {
		return types.RoleNone, err
	}
	if userID == "" {
		return types.RoleNone, nil
	}
	if p.OwnerID == userID {
		return types.RoleOwner, nil
	}

	var role string
	err = s.queryRow(
		"SELECT role FROM project_members WHERE project_id = ? AND user_id = ?",
		projectID, userID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RoleNone, nil
	}
	if err != nil {
		return types.RoleNone, fmt.Errorf("reading member role: %w", err)
	}
	return types.Role(role), nil
}

// AddMember grants or changes a non-owner role on the project.
func (s *storeTx) AddMember(projectID, userID string, role types.Role) error {
	if !role.Assignable() {
		return fmt.Errorf("%w: %q", types.ErrInvalidRole, role)
	}
	if userID == "" {
		return types.ErrInvalidActor
	}
	p, err := s.GetProject(projectID, types.IncludeTrashed)
	if err != nil {
		return fmt.Errorf("project %s: %w", projectID, err)
	}
	if p.OwnerID == userID {
		return fmt.Errorf("%w: %s already owns project %s", types.ErrInvalidData, userID, projectID)
	}

	_, err = s.exec(
		`INSERT INTO project_members (project_id, user_id, role, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (project_id, user_id) DO UPDATE SET role = excluded.role`,
		projectID, userID, string(role), formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("persisting member: %w", err)
	}
	return nil
}
