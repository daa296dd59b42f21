package lifecycle

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/taskbin/internal/hierarchy"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

type permission int

const (
	permDelete permission = iota
	permRestore
	permForceDelete
)

func (p permission) String() string {
	switch p {
	case permDelete:
		return "delete"
	case permRestore:
		return "restore"
	default:
		return "force-delete"
	}
}

// authorize loads ref and asks the Authorizer whether actor holds perm on
// it. An entity the actor cannot see is reported as ErrNotFound, the same
// as one that does not exist.
func (e *Engine) authorize(ctx context.Context, tx types.Reader, res *hierarchy.Resolver, ref types.EntityRef, actor string, perm permission) (types.Node, error) {
	node, err := res.Lookup(ref)
	if err != nil {
		return types.Node{}, err
	}
	project, err := res.Project(node)
	if err != nil {
		return types.Node{}, err
	}
	role, err := tx.MemberRole(project.ProjectID, actor)
	if err != nil {
		return types.Node{}, err
	}
	target := types.Target{
		Ref:       ref,
		ProjectID: project.ProjectID,
		OwnerID:   project.OwnerID,
		ActorRole: role,
	}

	visible, err := e.authz.CanView(ctx, actor, target)
	if err != nil {
		return types.Node{}, fmt.Errorf("authorizing %s: %w", ref, err)
	}
	if !visible {
		return types.Node{}, fmt.Errorf("%s: %w", ref, types.ErrNotFound)
	}

	var allowed bool
	switch perm {
	case permDelete:
		allowed, err = e.authz.CanDelete(ctx, actor, target)
	case permRestore:
		allowed, err = e.authz.CanRestore(ctx, actor, target)
	default:
		allowed, err = e.authz.CanForceDelete(ctx, actor, target)
	}
	if err != nil {
		return types.Node{}, fmt.Errorf("authorizing %s: %w", ref, err)
	}
	if !allowed {
		return types.Node{}, fmt.Errorf("%s %s: %w", perm, ref, types.ErrForbidden)
	}
	return node, nil
}
