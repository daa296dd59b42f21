// Package lifecycle implements soft-delete, restore, force-delete and
// empty-trash over the Project -> List -> Task hierarchy. Each operation
// runs in one store transaction and performs every check before its first
// write, so a failed call changes nothing.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskbin/internal/hierarchy"
	"github.com/mesh-intelligence/taskbin/internal/notify"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// Engine orchestrates lifecycle transitions through a Store.
type Engine struct {
	store    types.Store
	authz    types.Authorizer
	notifier types.Notifier
	log      *zap.SugaredLogger
	now      func() time.Time
	batching string
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the notifier called after each committed mutation.
// A nil n keeps the default, which drops events.
func WithNotifier(n types.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock overrides the clock used for deleted_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithBatching selects how EmptyTrash groups its deletes: BatchingAtomic
// (one transaction) or BatchingPerProject (one transaction per project).
func WithBatching(mode string) Option {
	return func(e *Engine) { e.batching = mode }
}

// New returns an Engine over store that asks authz before every mutation.
func New(store types.Store, authz types.Authorizer, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		authz:    authz,
		notifier: notify.Nop{},
		log:      zap.NewNop().Sugar(),
		now:      time.Now,
		batching: types.BatchingAtomic,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SoftDelete moves ref and every descendant into the trash with a single
// deleted_at timestamp. Descendants already in the trash keep their state.
// Returns the number of entities that went from active to trashed; calling
// it again on a trashed subtree returns 0 and no error.
//
// Deleting an entity that is only in the trash through an ancestor promotes
// it to directly trashed. That returns 0 but is still reported to the
// notifier with Promoted set, since it changes what a later restore of the
// ancestor brings back.
func (e *Engine) SoftDelete(ctx context.Context, ref types.EntityRef, actor string) (int, error) {
	if actor == "" {
		return 0, types.ErrInvalidActor
	}
	at := e.now().UTC()

	var (
		affected int
		promoted bool
	)
	err := e.store.Update(ctx, func(tx types.Tx) error {
		res := hierarchy.New(tx)
		if _, err := e.authorize(ctx, tx, res, ref, actor, permDelete); err != nil {
			return err
		}
		nodes, err := res.DescendantsOf(ref)
		if err != nil {
			return err
		}
		promoted = nodes[0].Trash.Status == types.StatusTrashedCascaded
		affected, err = trashSubtree(ctx, tx, nodes, at)
		return err
	})
	if err != nil {
		return 0, err
	}

	e.log.Debugw("soft deleted", "ref", ref.String(), "actor", actor, "affected", affected, "promoted", promoted)
	ev := types.Event{Kind: types.EventSoftDeleted, Ref: ref, Actor: actor, Affected: affected, Promoted: promoted, At: at}
	if promoted {
		e.notify(ctx, ev)
	} else {
		e.emit(ctx, ev)
	}
	return affected, nil
}

// trashSubtree marks nodes[0] trashed directly and cascades to the rest.
// nodes must list every parent before its children. A cascaded root is
// promoted to direct, and the cascaded entities below it are re-tagged with
// it as their origin. Directly trashed descendants and the subtrees under
// them are left alone.
func trashSubtree(ctx context.Context, tx types.Tx, nodes []types.Node, at time.Time) (int, error) {
	root := nodes[0]
	status, err := fire(ctx, root.Trash.Status, eventTrash)
	if err != nil {
		return 0, err
	}

	affected := 0
	switch root.Trash.Status {
	case types.StatusTrashedDirect:
	case types.StatusTrashedCascaded:
		if err := tx.SetTrashState(root.Ref, types.TrashState{Status: status}, root.DeletedAt); err != nil {
			return 0, err
		}
	default:
		if err := tx.SetTrashState(root.Ref, types.TrashState{Status: status}, &at); err != nil {
			return 0, err
		}
		affected++
	}

	origins := map[types.EntityRef]types.EntityRef{root.Ref: root.Ref}
	for _, n := range nodes[1:] {
		if n.Trash.Status == types.StatusTrashedDirect {
			origins[n.Ref] = n.Ref
			continue
		}
		origin, ok := origins[n.Parent]
		if !ok {
			origin = root.Ref
		}
		origins[n.Ref] = origin

		next, err := fire(ctx, n.Trash.Status, eventCascadeTrash)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", n.Ref, err)
		}
		state := types.TrashState{Status: next, Origin: origin}
		switch {
		case n.Trash.IsActive():
			if err := tx.SetTrashState(n.Ref, state, &at); err != nil {
				return 0, err
			}
			affected++
		case n.Trash.Origin != origin:
			if err := tx.SetTrashState(n.Ref, state, n.DeletedAt); err != nil {
				return 0, err
			}
		}
	}
	return affected, nil
}

// Restore takes ref out of the trash. The direct parent must be active. For
// lists and projects, descendants that were trashed by the cascade come back
// too; descendants trashed on their own stay in the trash with their
// subtrees. Returns the number of entities reactivated.
func (e *Engine) Restore(ctx context.Context, ref types.EntityRef, actor string) (int, error) {
	if actor == "" {
		return 0, types.ErrInvalidActor
	}
	at := e.now().UTC()

	var affected int
	err := e.store.Update(ctx, func(tx types.Tx) error {
		res := hierarchy.New(tx)
		node, err := e.authorize(ctx, tx, res, ref, actor, permRestore)
		if err != nil {
			return err
		}
		if _, err := fire(ctx, node.Trash.Status, eventRestore); err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}
		if !node.Parent.IsZero() {
			parent, err := res.Lookup(node.Parent)
			if err != nil {
				return err
			}
			if parent.Trash.IsTrashed() {
				return types.ParentInTrash(parent.Ref)
			}
		}
		if ref.Kind == types.KindList {
			if err := checkListNameFree(tx, node); err != nil {
				return err
			}
		}

		nodes, err := res.DescendantsOf(ref)
		if err != nil {
			return err
		}
		affected, err = restoreSubtree(ctx, tx, nodes)
		return err
	})
	if err != nil {
		return 0, err
	}

	e.log.Debugw("restored", "ref", ref.String(), "actor", actor, "affected", affected)
	e.emit(ctx, types.Event{Kind: types.EventRestored, Ref: ref, Actor: actor, Affected: affected, At: at})
	return affected, nil
}

// checkListNameFree fails when an active list in the same project already
// uses the name of the list being restored.
func checkListNameFree(tx types.Reader, list types.Node) error {
	clash, err := tx.ActiveListNamed(list.ProjectID, list.Name)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &types.PreconditionError{
		Blocker: types.ListRef(clash.ListID),
		Reason:  fmt.Sprintf("already uses the name %q; rename or delete it first", list.Name),
	}
}

// restoreSubtree reactivates nodes[0] and every cascaded descendant whose
// parent ends up active. nodes must list every parent before its children.
func restoreSubtree(ctx context.Context, tx types.Tx, nodes []types.Node) (int, error) {
	root := nodes[0]
	if err := tx.SetTrashState(root.Ref, types.Active(), nil); err != nil {
		return 0, err
	}
	affected := 1

	active := map[types.EntityRef]bool{root.Ref: true}
	for _, n := range nodes[1:] {
		if n.Trash.IsActive() {
			active[n.Ref] = true
			continue
		}
		if n.Trash.Status != types.StatusTrashedCascaded || !active[n.Parent] {
			continue
		}
		if _, err := fire(ctx, n.Trash.Status, eventCascadeRestore); err != nil {
			return 0, fmt.Errorf("%s: %w", n.Ref, err)
		}
		if err := tx.SetTrashState(n.Ref, types.Active(), nil); err != nil {
			return 0, err
		}
		active[n.Ref] = true
		affected++
	}
	return affected, nil
}

// ForceDelete permanently removes a trashed entity and all its descendants,
// deepest first. Returns the number of rows removed.
func (e *Engine) ForceDelete(ctx context.Context, ref types.EntityRef, actor string) (int, error) {
	if actor == "" {
		return 0, types.ErrInvalidActor
	}
	at := e.now().UTC()

	var affected int
	err := e.store.Update(ctx, func(tx types.Tx) error {
		res := hierarchy.New(tx)
		node, err := e.authorize(ctx, tx, res, ref, actor, permForceDelete)
		if err != nil {
			return err
		}
		if _, err := fire(ctx, node.Trash.Status, eventPurge); err != nil {
			return fmt.Errorf("%s: %w", ref, err)
		}
		nodes, err := res.DescendantsOf(ref)
		if err != nil {
			return err
		}
		affected, err = purgeNodes(ctx, tx, nodes)
		return err
	})
	if err != nil {
		return 0, err
	}

	e.log.Debugw("force deleted", "ref", ref.String(), "actor", actor, "affected", affected)
	e.emit(ctx, types.Event{Kind: types.EventForceDeleted, Ref: ref, Actor: actor, Affected: affected, At: at})
	return affected, nil
}

// purgeNodes removes nodes in reverse order so children go before parents.
// Every node must already be trashed.
func purgeNodes(ctx context.Context, tx types.Tx, nodes []types.Node) (int, error) {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if _, err := fire(ctx, n.Trash.Status, eventCascadePurge); err != nil {
			return 0, fmt.Errorf("%s: %w", n.Ref, err)
		}
		if err := tx.Purge(n.Ref); err != nil {
			return 0, err
		}
	}
	return len(nodes), nil
}

// EmptyTrash force-deletes every trashed entity in scope. Only projects the
// actor owns are ever touched, whatever else the actor can see. In atomic
// mode the whole scope is one transaction. In per-project mode each project
// commits on its own; if any fails, the count of what was purged is
// returned together with an error matching ErrPartialPurge.
func (e *Engine) EmptyTrash(ctx context.Context, actor string, scope types.Scope) (int, error) {
	if actor == "" {
		return 0, types.ErrInvalidActor
	}
	if err := scope.Validate(); err != nil {
		return 0, err
	}
	ok, err := e.authz.CanEmptyTrash(ctx, actor, scope)
	if err != nil {
		return 0, fmt.Errorf("authorizing empty trash: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("empty %s trash: %w", scope.Kind, types.ErrForbidden)
	}
	at := e.now().UTC()

	var purged int
	if e.batching == types.BatchingPerProject {
		purged, err = e.emptyPerProject(ctx, actor, scope)
	} else {
		err = e.store.Update(ctx, func(tx types.Tx) error {
			projects, err := e.scopeProjects(ctx, tx, actor, scope)
			if err != nil {
				return err
			}
			purged = 0
			for _, p := range projects {
				n, err := emptyProject(ctx, tx, p, scope.Kind == types.ScopeGlobal)
				if err != nil {
					return err
				}
				purged += n
			}
			return nil
		})
		if err != nil {
			purged = 0
		}
	}
	if err != nil && purged == 0 {
		return 0, err
	}

	e.log.Debugw("emptied trash", "scope", scope.Kind, "project", scope.ProjectID, "actor", actor, "purged", purged)
	e.emit(ctx, types.Event{Kind: types.EventTrashEmptied, Scope: &scope, Actor: actor, Affected: purged, At: at})
	return purged, err
}

func (e *Engine) emptyPerProject(ctx context.Context, actor string, scope types.Scope) (int, error) {
	var projects []*types.Project
	err := e.store.View(ctx, func(tx types.Reader) error {
		var err error
		projects, err = e.scopeProjects(ctx, tx, actor, scope)
		return err
	})
	if err != nil {
		return 0, err
	}

	var purged int
	var errs error
	for _, p := range projects {
		var n int
		err := e.store.Update(ctx, func(tx types.Tx) error {
			fresh, err := tx.GetProject(p.ProjectID, types.IncludeTrashed)
			if errors.Is(err, types.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			n, err = emptyProject(ctx, tx, fresh, scope.Kind == types.ScopeGlobal)
			return err
		})
		if err != nil {
			e.log.Warnw("emptying project trash failed", "project", p.ProjectID, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("project %s: %w", p.ProjectID, err))
			continue
		}
		purged += n
	}
	if errs != nil {
		return purged, fmt.Errorf("%w: %w", types.ErrPartialPurge, errs)
	}
	return purged, nil
}

// scopeProjects returns the projects EmptyTrash may touch. A project scope
// on a project the actor does not own is Forbidden when the actor can see
// the project and NotFound otherwise.
func (e *Engine) scopeProjects(ctx context.Context, tx types.Reader, actor string, scope types.Scope) ([]*types.Project, error) {
	if scope.Kind == types.ScopeGlobal {
		return tx.ProjectsOwnedBy(actor, types.IncludeTrashed)
	}

	p, err := tx.GetProject(scope.ProjectID, types.IncludeTrashed)
	if err != nil {
		return nil, err
	}
	if p.OwnerID == actor {
		return []*types.Project{p}, nil
	}
	role, err := tx.MemberRole(p.ProjectID, actor)
	if err != nil {
		return nil, err
	}
	visible, err := e.authz.CanView(ctx, actor, types.Target{
		Ref:       types.ProjectRef(p.ProjectID),
		ProjectID: p.ProjectID,
		OwnerID:   p.OwnerID,
		ActorRole: role,
	})
	if err != nil {
		return nil, fmt.Errorf("authorizing project/%s: %w", p.ProjectID, err)
	}
	if !visible {
		return nil, fmt.Errorf("project/%s: %w", p.ProjectID, types.ErrNotFound)
	}
	return nil, fmt.Errorf("empty trash of project/%s: %w", p.ProjectID, types.ErrForbidden)
}

// emptyProject purges the trashed entities of one project. The project row
// itself goes only when withProject is set and it is trashed.
func emptyProject(ctx context.Context, tx types.Tx, p *types.Project, withProject bool) (int, error) {
	nodes, err := hierarchy.New(tx).DescendantsOf(types.ProjectRef(p.ProjectID))
	if err != nil {
		return 0, err
	}
	if withProject && p.Trash.IsTrashed() {
		return purgeNodes(ctx, tx, nodes)
	}

	purged := 0
	for i := len(nodes) - 1; i > 0; i-- {
		n := nodes[i]
		if !n.Trash.IsTrashed() {
			continue
		}
		if _, err := fire(ctx, n.Trash.Status, eventCascadePurge); err != nil {
			return 0, fmt.Errorf("%s: %w", n.Ref, err)
		}
		if err := tx.Purge(n.Ref); err != nil {
			return 0, err
		}
		purged++
	}
	return purged, nil
}

// emit reports ev unless the call changed nothing.
func (e *Engine) emit(ctx context.Context, ev types.Event) {
	if ev.Affected == 0 {
		return
	}
	e.notify(ctx, ev)
}

// notify hands ev to the notifier. Failures are logged and otherwise
// ignored; the transaction has already committed.
func (e *Engine) notify(ctx context.Context, ev types.Event) {
	if err := e.notifier.Notify(ctx, ev); err != nil {
		e.log.Warnw("notifier failed", "event", string(ev.Kind), "ref", ev.Ref.String(), "error", err)
	}
}
