// Package hierarchy resolves ancestors and descendants in the
// Project -> List -> Task containment tree. It only reads; every query sees
// trashed rows so cascades can reach entities regardless of their state.
package hierarchy

import (
	"fmt"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// Resolver walks the hierarchy through a store reader, usually the
// transaction of the operation that needs the answer.
type Resolver struct {
	r types.Reader
}

// New returns a Resolver reading through r.
func New(r types.Reader) *Resolver {
	return &Resolver{r: r}
}

// Lookup returns the node for ref whether it is active or trashed.
// Returns ErrNotFound if the entity does not exist.
func (res *Resolver) Lookup(ref types.EntityRef) (types.Node, error) {
	if err := ref.Validate(); err != nil {
		return types.Node{}, err
	}
	switch ref.Kind {
	case types.KindProject:
		p, err := res.r.GetProject(ref.ID, types.IncludeTrashed)
		if err != nil {
			return types.Node{}, err
		}
		return p.Node(), nil
	case types.KindList:
		l, err := res.r.GetList(ref.ID, types.IncludeTrashed)
		if err != nil {
			return types.Node{}, err
		}
		return l.Node(), nil
	default:
		t, err := res.r.GetTask(ref.ID, types.IncludeTrashed)
		if err != nil {
			return types.Node{}, err
		}
		return t.Node(), nil
	}
}

// Project returns the project containing node, trashed or not.
func (res *Resolver) Project(node types.Node) (*types.Project, error) {
	p, err := res.r.GetProject(node.ProjectID, types.IncludeTrashed)
	if err != nil {
		return nil, fmt.Errorf("project of %s: %w", node.Ref, err)
	}
	return p, nil
}

// DescendantsOf returns ref's node followed by its lists (for a project)
// and then the tasks of each list, in that order. Trashed descendants are
// included.
func (res *Resolver) DescendantsOf(ref types.EntityRef) ([]types.Node, error) {
	self, err := res.Lookup(ref)
	if err != nil {
		return nil, err
	}
	nodes := []types.Node{self}

	var listIDs []string
	switch ref.Kind {
	case types.KindProject:
		lists, err := res.r.ListsInProject(ref.ID, types.IncludeTrashed)
		if err != nil {
			return nil, fmt.Errorf("lists of %s: %w", ref, err)
		}
		for _, l := range lists {
			nodes = append(nodes, l.Node())
			listIDs = append(listIDs, l.ListID)
		}
	case types.KindList:
		listIDs = []string{ref.ID}
	default:
		return nodes, nil
	}

	for _, id := range listIDs {
		tasks, err := res.r.TasksInList(id, types.IncludeTrashed)
		if err != nil {
			return nil, fmt.Errorf("tasks of list/%s: %w", id, err)
		}
		for _, t := range tasks {
			nodes = append(nodes, t.Node())
		}
	}
	return nodes, nil
}

// Ancestors returns the ancestors of ref, nearest first: a task yields its
// list and project, a list its project, a project nothing.
func (res *Resolver) Ancestors(ref types.EntityRef) ([]types.Node, error) {
	node, err := res.Lookup(ref)
	if err != nil {
		return nil, err
	}
	var ancestors []types.Node
	for !node.Parent.IsZero() {
		parent, err := res.Lookup(node.Parent)
		if err != nil {
			return nil, fmt.Errorf("parent of %s: %w", node.Ref, err)
		}
		ancestors = append(ancestors, parent)
		node = parent
	}
	return ancestors, nil
}

// TrashedAncestor returns the nearest trashed ancestor of ref. The entity's
// own state is not considered.
func (res *Resolver) TrashedAncestor(ref types.EntityRef) (types.Node, bool, error) {
	ancestors, err := res.Ancestors(ref)
	if err != nil {
		return types.Node{}, false, err
	}
	for _, a := range ancestors {
		if a.Trash.IsTrashed() {
			return a, true, nil
		}
	}
	return types.Node{}, false, nil
}

// HasTrashedAncestor reports whether any ancestor of ref is in the trash.
func (res *Resolver) HasTrashedAncestor(ref types.EntityRef) (bool, error) {
	_, found, err := res.TrashedAncestor(ref)
	return found, err
}
