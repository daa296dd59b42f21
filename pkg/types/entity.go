package types

import "time"

// Project is the top-level container. It is owned by a single user.
type Project struct {
	ProjectID string     `json:"project_id"`
	OwnerID   string     `json:"owner_id"`
	Name      string     `json:"name"`
	Color     string     `json:"color,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	Trash     TrashState `json:"trash"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// List is a task list inside a project. ProjectID never changes after
// creation. Name is unique among the non-trashed lists of the project.
type List struct {
	ListID    string     `json:"list_id"`
	ProjectID string     `json:"project_id"`
	Name      string     `json:"name"`
	Position  int        `json:"position"`
	Trash     TrashState `json:"trash"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Task belongs to one list and, denormalized, to that list's project.
type Task struct {
	TaskID     string     `json:"task_id"`
	ListID     string     `json:"list_id"`
	ProjectID  string     `json:"project_id"`
	Title      string     `json:"title"`
	AssigneeID string     `json:"assignee_id,omitempty"`
	Priority   string     `json:"priority,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	CreatorID  string     `json:"creator_id"`
	Trash      TrashState `json:"trash"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Node is the kind-independent view of an entity used by hierarchy
// traversal and the lifecycle engine. Parent is zero for projects.
type Node struct {
	Ref       EntityRef
	Parent    EntityRef
	ProjectID string
	Name      string
	Trash     TrashState
	DeletedAt *time.Time
}

// Node returns the hierarchy view of the project.
func (p *Project) Node() Node {
	return Node{
		Ref:       ProjectRef(p.ProjectID),
		ProjectID: p.ProjectID,
		Name:      p.Name,
		Trash:     p.Trash,
		DeletedAt: p.DeletedAt,
	}
}

// Node returns the hierarchy view of the list.
func (l *List) Node() Node {
	return Node{
		Ref:       ListRef(l.ListID),
		Parent:    ProjectRef(l.ProjectID),
		ProjectID: l.ProjectID,
		Name:      l.Name,
		Trash:     l.Trash,
		DeletedAt: l.DeletedAt,
	}
}

// Node returns the hierarchy view of the task.
func (t *Task) Node() Node {
	return Node{
		Ref:       TaskRef(t.TaskID),
		Parent:    ListRef(t.ListID),
		ProjectID: t.ProjectID,
		Name:      t.Title,
		Trash:     t.Trash,
		DeletedAt: t.DeletedAt,
	}
}
