// This file implements the tasks table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

const taskColumns = "task_id, list_id, project_id, title, assignee_id, priority, due_date, creator_id, trash_status, trash_origin, deleted_at, created_at, updated_at"

// GetTask retrieves a task by ID. Returns ErrNotFound if no task with that
// ID is visible under vis.
func (s *storeTx) GetTask(id string, vis types.Visibility) (*types.Task, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	row := s.queryRow(
		"SELECT "+taskColumns+" FROM tasks WHERE task_id = ? AND "+visibilityClause(vis),
		id,
	)
	t, err := hydrateTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return t, nil
}

// TasksInList returns the list's tasks in creation order.
func (s *storeTx) TasksInList(listID string, vis types.Visibility) ([]*types.Task, error) {
	return s.fetchTasks("list_id", listID, vis)
}

// TasksInProject returns the project's tasks in creation order.
func (s *storeTx) TasksInProject(projectID string, vis types.Visibility) ([]*types.Task, error) {
	return s.fetchTasks("project_id", projectID, vis)
}

func (s *storeTx) fetchTasks(parentCol, parentID string, vis types.Visibility) ([]*types.Task, error) {
	rows, err := s.query(
		"SELECT "+taskColumns+" FROM tasks WHERE "+parentCol+" = ? AND "+visibilityClause(vis)+" ORDER BY created_at ASC, task_id ASC",
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	defer rows.Close()

	results := []*types.Task{}
	for rows.Next() {
		t, err := hydrateTask(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating task: %w", err)
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return results, nil
}

// CreateTask inserts an active task into an active list. ProjectID is
// copied from the list; a caller-supplied ProjectID must match it.
func (s *storeTx) CreateTask(t *types.Task) (string, error) {
	if t == nil {
		return "", types.ErrInvalidData
	}
	if t.Title == "" {
		return "", types.ErrInvalidName
	}
	list, err := s.GetList(t.ListID, types.ActiveOnly)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", t.ListID, err)
	}
	if t.ProjectID != "" && t.ProjectID != list.ProjectID {
		return "", fmt.Errorf("%w: task project %s does not match list project %s",
			types.ErrInvalidData, t.ProjectID, list.ProjectID)
	}

	now := s.now().UTC()
	t.TaskID = generateUUID()
	t.ProjectID = list.ProjectID
	t.Trash = types.Active()
	t.DeletedAt = nil
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err = s.exec(
		"INSERT INTO tasks (task_id, list_id, project_id, title, assignee_id, priority, due_date, creator_id, trash_status, trash_origin, deleted_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '', NULL, ?, ?)",
		t.TaskID, t.ListID, t.ProjectID, t.Title, t.AssigneeID, t.Priority, formatNullTime(t.DueDate),
		t.CreatorID, string(types.StatusActive), formatTime(now), formatTime(now),
	)
	if err != nil {
		return "", fmt.Errorf("persisting task: %w", err)
	}
	return t.TaskID, nil
}

// hydrateTask converts one row into a *types.Task.
func hydrateTask(row scanner) (*types.Task, error) {
	var t types.Task
	var status, origin, createdAt, updatedAt string
	var dueDate, deletedAt sql.NullString
	if err := row.Scan(&t.TaskID, &t.ListID, &t.ProjectID, &t.Title, &t.AssigneeID, &t.Priority,
		&dueDate, &t.CreatorID, &status, &origin, &deletedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if t.Trash, t.DeletedAt, err = hydrateTrash(status, origin, deletedAt); err != nil {
		return nil, err
	}
	if t.DueDate, err = parseNullTime(dueDate); err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}
