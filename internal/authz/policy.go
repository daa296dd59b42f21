// Package authz provides the default role-based Authorizer. Owners may do
// anything; members may look; editors may optionally soft-delete lists and
// tasks.
package authz

import (
	"context"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// Compile-time interface check.
var _ types.Authorizer = (*RolePolicy)(nil)

// RolePolicy decides from the actor's role on the target's project.
type RolePolicy struct {
	editorsMayDelete bool
}

// NewRolePolicy returns a RolePolicy configured from cfg.
func NewRolePolicy(cfg types.AuthzConfig) *RolePolicy {
	return &RolePolicy{editorsMayDelete: cfg.EditorsMayDelete}
}

func isOwner(actor string, t types.Target) bool {
	return actor != "" && (actor == t.OwnerID || t.ActorRole == types.RoleOwner)
}

// CanView allows owners and members of any role.
func (p *RolePolicy) CanView(_ context.Context, actor string, t types.Target) (bool, error) {
	return isOwner(actor, t) || t.ActorRole.AtLeast(types.RoleViewer), nil
}

// CanDelete allows owners, and editors on lists and tasks when configured.
func (p *RolePolicy) CanDelete(_ context.Context, actor string, t types.Target) (bool, error) {
	if isOwner(actor, t) {
		return true, nil
	}
	return p.editorsMayDelete &&
		t.Ref.Kind != types.KindProject &&
		t.ActorRole.AtLeast(types.RoleEditor), nil
}

// CanRestore is owner-only.
func (p *RolePolicy) CanRestore(_ context.Context, actor string, t types.Target) (bool, error) {
	return isOwner(actor, t), nil
}

// CanForceDelete is owner-only.
func (p *RolePolicy) CanForceDelete(_ context.Context, actor string, t types.Target) (bool, error) {
	return isOwner(actor, t), nil
}

// CanEmptyTrash allows any identified actor. The engine limits the purge to
// projects the actor owns.
func (p *RolePolicy) CanEmptyTrash(_ context.Context, actor string, scope types.Scope) (bool, error) {
	return actor != "" && scope.Validate() == nil, nil
}
