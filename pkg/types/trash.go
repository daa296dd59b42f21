package types

import "time"

// TrashStatus is the lifecycle state of a stored entity.
type TrashStatus string

// Trash statuses. Purged is never stored; it is the terminal state reached
// when the row is removed.
const (
	StatusActive          TrashStatus = "active"
	StatusTrashedDirect   TrashStatus = "trashed_direct"
	StatusTrashedCascaded TrashStatus = "trashed_cascaded"
	StatusPurged          TrashStatus = "purged"
)

// validStoredStatuses is the set of statuses that may appear in a row.
var validStoredStatuses = map[TrashStatus]bool{
	StatusActive:          true,
	StatusTrashedDirect:   true,
	StatusTrashedCascaded: true,
}

// Valid reports whether s may be persisted.
func (s TrashStatus) Valid() bool {
	return validStoredStatuses[s]
}

// Trashed reports whether s is one of the trashed statuses.
func (s TrashStatus) Trashed() bool {
	return s == StatusTrashedDirect || s == StatusTrashedCascaded
}

// TrashState records whether an entity is active, trashed by an actor
// directly, or trashed as a side effect of an ancestor's deletion. Origin is
// set only for cascaded entities and names the directly trashed ancestor.
type TrashState struct {
	Status TrashStatus `json:"status"`
	Origin EntityRef   `json:"origin,omitempty"`
}

// Active returns the state of an entity that is not in the trash.
func Active() TrashState { return TrashState{Status: StatusActive} }

// TrashedDirect returns the state of an entity an actor deleted deliberately.
func TrashedDirect() TrashState { return TrashState{Status: StatusTrashedDirect} }

// TrashedCascaded returns the state of an entity trashed because origin was.
func TrashedCascaded(origin EntityRef) TrashState {
	return TrashState{Status: StatusTrashedCascaded, Origin: origin}
}

// IsActive reports whether the entity is outside the trash.
func (s TrashState) IsActive() bool {
	return s.Status == StatusActive || s.Status == ""
}

// IsTrashed reports whether the entity is in the trash.
func (s TrashState) IsTrashed() bool {
	return s.Status.Trashed()
}

// Visibility selects which rows a store query returns.
type Visibility int

const (
	// ActiveOnly is the normal query path: trashed rows are hidden.
	ActiveOnly Visibility = iota
	// IncludeTrashed returns rows regardless of trash state.
	IncludeTrashed
	// TrashedOnly returns only rows that are in the trash.
	TrashedOnly
)

// ScopeKind distinguishes the two EmptyTrash scopes.
type ScopeKind string

const (
	ScopeGlobal  ScopeKind = "global"
	ScopeProject ScopeKind = "project"
)

// Scope bounds an EmptyTrash call. ProjectID is required for ScopeProject
// and must be empty for ScopeGlobal.
type Scope struct {
	Kind      ScopeKind `json:"kind"`
	ProjectID string    `json:"project_id,omitempty"`
}

// GlobalScope covers all trash owned by the acting user.
func GlobalScope() Scope { return Scope{Kind: ScopeGlobal} }

// ProjectScope covers the trash inside one project.
func ProjectScope(projectID string) Scope {
	return Scope{Kind: ScopeProject, ProjectID: projectID}
}

// Validate returns ErrInvalidScope for malformed scopes.
func (s Scope) Validate() error {
	switch s.Kind {
	case ScopeGlobal:
		if s.ProjectID != "" {
			return ErrInvalidScope
		}
		return nil
	case ScopeProject:
		if s.ProjectID == "" {
			return ErrInvalidScope
		}
		return nil
	default:
		return ErrInvalidScope
	}
}

// TrashItem is one row of a trash view, annotated with the time at which the
// retention policy considers it eligible for permanent removal.
type TrashItem struct {
	Ref         EntityRef  `json:"ref"`
	Name        string     `json:"name"`
	ProjectID   string     `json:"project_id"`
	ListID      string     `json:"list_id,omitempty"`
	OwnerID     string     `json:"owner_id"`
	State       TrashState `json:"state"`
	DeletedAt   time.Time  `json:"deleted_at"`
	RetainUntil time.Time  `json:"retain_until"`
}
