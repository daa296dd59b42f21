package types

import (
	"fmt"
	"strings"
)

// EntityKind names one of the three levels of the containment hierarchy.
type EntityKind string

// Entity kinds, outermost first.
const (
	KindProject EntityKind = "project"
	KindList    EntityKind = "list"
	KindTask    EntityKind = "task"
)

// Depth returns the level of the kind in the hierarchy: 0 for projects,
// 1 for lists, 2 for tasks, and -1 for unknown kinds.
func (k EntityKind) Depth() int {
	switch k {
	case KindProject:
		return 0
	case KindList:
		return 1
	case KindTask:
		return 2
	default:
		return -1
	}
}

// Valid reports whether k is one of the known kinds.
func (k EntityKind) Valid() bool {
	return k.Depth() >= 0
}

// EntityRef addresses a single entity by kind and ID.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

// ProjectRef, ListRef and TaskRef build references of the given kind.
func ProjectRef(id string) EntityRef { return EntityRef{Kind: KindProject, ID: id} }
func ListRef(id string) EntityRef { return EntityRef{Kind: KindList, ID: id} }
func TaskRef(id string) EntityRef { return EntityRef{Kind: KindTask, ID: id} }

// IsZero reports whether the reference is unset.
func (r EntityRef) IsZero() bool {
	return r.Kind == "" && r.ID == ""
}

// Validate returns ErrInvalidRef if the kind is unknown and ErrInvalidID if
// the ID is empty.
func (r EntityRef) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRef, r.Kind)
	}
	if r.ID == "" {
		return ErrInvalidID
	}
	return nil
}

// String formats the reference as "kind/id".
func (r EntityRef) String() string {
	if r.IsZero() {
		return ""
	}
	return string(r.Kind) + "/" + r.ID
}

// ParseRef parses the "kind/id" form produced by String. An empty string
// parses to the zero reference.
func ParseRef(s string) (EntityRef, error) {
	if s == "" {
		return EntityRef{}, nil
	}
	kind, id, ok := strings.Cut(s, "/")
	if !ok {
		return EntityRef{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
	}
	ref := EntityRef{Kind: EntityKind(kind), ID: id}
	if err := ref.Validate(); err != nil {
		return EntityRef{}, err
	}
	return ref, nil
}
