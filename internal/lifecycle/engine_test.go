package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/taskbin/internal/authz"
	"github.com/mesh-intelligence/taskbin/internal/hierarchy"
	"github.com/mesh-intelligence/taskbin/internal/storetest"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []types.Event
	err    error
}

func (r *recorder) Notify(_ context.Context, ev types.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func newEngine(t *testing.T, store types.Store, opts ...Option) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	base := []Option{WithNotifier(rec), WithClock(func() time.Time { return fixedNow })}
	return New(store, authz.NewRolePolicy(types.AuthzConfig{}), append(base, opts...)...), rec
}

func status(t *testing.T, store types.Store, ref types.EntityRef) types.TrashStatus {
	t.Helper()
	return storetest.State(t, store, ref).Status
}

func lookup(t *testing.T, store types.Store, ref types.EntityRef) types.Node {
	t.Helper()
	var node types.Node
	require.NoError(t, store.View(context.Background(), func(tx types.Reader) error {
		var err error
		node, err = hierarchy.New(tx).Lookup(ref)
		return err
	}))
	return node
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 2)
	e, _ := newEngine(t, store)

	p := types.ProjectRef(tree.Project)
	l1 := types.ListRef(tree.Lists[0])
	t1 := types.TaskRef(tree.Tasks[0][0])
	t2 := types.TaskRef(tree.Tasks[0][1])

	n, err := e.SoftDelete(ctx, l1, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, l1))
	assert.Equal(t, types.StatusTrashedCascaded, status(t, store, t1))
	assert.Equal(t, types.StatusTrashedCascaded, status(t, store, t2))
	assert.Equal(t, types.StatusActive, status(t, store, p))

	_, err = e.Restore(ctx, t1, "alice")
	require.ErrorIs(t, err, types.ErrPreconditionFailed)
	var pre *types.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, l1, pre.Blocker)
	assert.Equal(t, types.StatusTrashedCascaded, status(t, store, t1))

	n, err = e.Restore(ctx, l1, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, ref := range []types.EntityRef{l1, t1, t2} {
		assert.Equal(t, types.StatusActive, status(t, store, ref), ref.String())
	}

	_, err = e.ForceDelete(ctx, l1, "alice")
	require.ErrorIs(t, err, types.ErrInvalidState)

	_, err = e.SoftDelete(ctx, l1, "alice")
	require.NoError(t, err)
	n, err = e.ForceDelete(ctx, l1, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, ref := range []types.EntityRef{l1, t1, t2} {
		assert.Equal(t, types.StatusPurged, status(t, store, ref), ref.String())
	}
	assert.Equal(t, types.StatusActive, status(t, store, p))
}

func TestSoftDeleteProjectCascadesAndRestores(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 2, 3, 0)
	e, rec := newEngine(t, store)
	p := types.ProjectRef(tree.Project)

	n, err := e.SoftDelete(ctx, p, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1+3+5, n)

	var all []types.EntityRef
	for i, listID := range tree.Lists {
		all = append(all, types.ListRef(listID))
		for _, taskID := range tree.Tasks[i] {
			all = append(all, types.TaskRef(taskID))
		}
	}
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, p))
	for _, ref := range all {
		node := lookup(t, store, ref)
		assert.Equal(t, types.TrashedCascaded(p), node.Trash, ref.String())
		require.NotNil(t, node.DeletedAt)
		assert.True(t, fixedNow.Equal(*node.DeletedAt), "cascade shares the trigger's timestamp")
	}

	n, err = e.Restore(ctx, p, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1+3+5, n)
	assert.Equal(t, types.StatusActive, status(t, store, p))
	for _, ref := range all {
		node := lookup(t, store, ref)
		assert.True(t, node.Trash.IsActive(), ref.String())
		assert.Nil(t, node.DeletedAt)
	}

	require.Len(t, rec.events, 2)
	assert.Equal(t, types.EventSoftDeleted, rec.events[0].Kind)
	assert.Equal(t, types.EventRestored, rec.events[1].Kind)
	assert.Equal(t, fixedNow, rec.events[0].At)
}

func TestSoftDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 2)
	e, rec := newEngine(t, store)
	l := types.ListRef(tree.Lists[0])

	n, err := e.SoftDelete(ctx, l, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = e.SoftDelete(ctx, l, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, rec.events, 1, "no second notification")
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, l))
}

func TestSoftDeleteLeavesDirectlyTrashedDescendants(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 2)
	e, _ := newEngine(t, store)
	l := types.ListRef(tree.Lists[0])
	t1 := types.TaskRef(tree.Tasks[0][0])
	t2 := types.TaskRef(tree.Tasks[0][1])

	_, err := e.SoftDelete(ctx, t1, "alice")
	require.NoError(t, err)

	n, err := e.SoftDelete(ctx, l, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "the already-trashed task is not counted")
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, t1))
	assert.Equal(t, types.TrashedCascaded(l), storetest.State(t, store, t2))

	// Restoring the list brings back only what its deletion took.
	n, err = e.Restore(ctx, l, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, types.StatusActive, status(t, store, t2))
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, t1))

	n, err = e.Restore(ctx, t1, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSoftDeletePromotesCascadedEntity(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 1, 1)
	e, rec := newEngine(t, store)
	p := types.ProjectRef(tree.Project)
	la := types.ListRef(tree.Lists[0])
	ta := types.TaskRef(tree.Tasks[0][0])
	lb := types.ListRef(tree.Lists[1])

	_, err := e.SoftDelete(ctx, p, "alice")
	require.NoError(t, err)
	before := lookup(t, store, la)

	// Deleting a list under a trashed project is allowed and only changes
	// how the list is tagged.
	n, err := e.SoftDelete(ctx, la, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	after := lookup(t, store, la)
	assert.Equal(t, types.TrashedDirect(), after.Trash)
	require.NotNil(t, after.DeletedAt)
	assert.True(t, before.DeletedAt.Equal(*after.DeletedAt), "promotion keeps deleted_at")
	assert.Equal(t, types.TrashedCascaded(la), storetest.State(t, store, ta))
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, p))

	require.Len(t, rec.events, 2, "promotion is reported")
	promo := rec.events[1]
	assert.Equal(t, types.EventSoftDeleted, promo.Kind)
	assert.Equal(t, la, promo.Ref)
	assert.Equal(t, 0, promo.Affected)
	assert.True(t, promo.Promoted)
	assert.False(t, rec.events[0].Promoted)

	// A second delete of the now direct list is a plain no-op.
	_, err = e.SoftDelete(ctx, la, "alice")
	require.NoError(t, err)
	assert.Len(t, rec.events, 2)

	n, err = e.Restore(ctx, p, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, types.StatusActive, status(t, store, lb))
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, la))
	assert.Equal(t, types.StatusTrashedCascaded, status(t, store, ta))
}

func TestRestoreBlockedByTrashedParent(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 1)
	e, rec := newEngine(t, store)
	p := types.ProjectRef(tree.Project)
	l := types.ListRef(tree.Lists[0])

	_, err := e.SoftDelete(ctx, p, "alice")
	require.NoError(t, err)

	_, err = e.Restore(ctx, l, "alice")
	var pre *types.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, p, pre.Blocker)
	assert.Contains(t, err.Error(), p.String())
	assert.Equal(t, types.StatusTrashedCascaded, status(t, store, l))
	assert.Len(t, rec.events, 1)
}

func TestRestoreListNameConflict(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 0)
	e, _ := newEngine(t, store)
	old := types.ListRef(tree.Lists[0])

	_, err := e.SoftDelete(ctx, old, "alice")
	require.NoError(t, err)

	var replacement string
	require.NoError(t, store.Update(ctx, func(tx types.Tx) error {
		var err error
		replacement, err = tx.CreateList(&types.List{ProjectID: tree.Project, Name: "List A"})
		return err
	}))

	_, err = e.Restore(ctx, old, "alice")
	var pre *types.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, types.ListRef(replacement), pre.Blocker)
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, old))
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 1)
	e, rec := newEngine(t, store)
	task := types.TaskRef(tree.Tasks[0][0])

	_, err := e.Restore(ctx, task, "alice")
	assert.ErrorIs(t, err, types.ErrInvalidState)

	_, err = e.ForceDelete(ctx, task, "alice")
	assert.ErrorIs(t, err, types.ErrInvalidState)
	assert.Equal(t, types.StatusActive, status(t, store, task))
	assert.Empty(t, rec.events)
}

func TestForceDeleteIsIrreversible(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 1)
	e, _ := newEngine(t, store)
	task := types.TaskRef(tree.Tasks[0][0])

	_, err := e.SoftDelete(ctx, task, "alice")
	require.NoError(t, err)
	n, err := e.ForceDelete(ctx, task, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = e.Restore(ctx, task, "alice")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = e.ForceDelete(ctx, task, "alice")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = e.SoftDelete(ctx, task, "alice")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, types.StatusPurged, status(t, store, task))
}

func TestForceDeleteRemovesEveryTask(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 3)
	e, _ := newEngine(t, store)
	l := types.ListRef(tree.Lists[0])

	_, err := e.SoftDelete(ctx, l, "alice")
	require.NoError(t, err)
	n, err := e.ForceDelete(ctx, l, "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, store.View(ctx, func(tx types.Reader) error {
		tasks, err := tx.TasksInProject(tree.Project, types.IncludeTrashed)
		require.NoError(t, err)
		assert.Empty(t, tasks)
		return nil
	}))
}

func TestAuthorization(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 1)
	storetest.AddMember(t, store, tree.Project, "bob", types.RoleEditor)
	storetest.AddMember(t, store, tree.Project, "carol", types.RoleViewer)
	task := types.TaskRef(tree.Tasks[0][0])

	e, rec := newEngine(t, store)

	_, err := e.SoftDelete(ctx, task, "mallory")
	assert.ErrorIs(t, err, types.ErrNotFound, "strangers cannot learn the task exists")
	_, err = e.SoftDelete(ctx, task, "carol")
	assert.ErrorIs(t, err, types.ErrForbidden)
	_, err = e.SoftDelete(ctx, task, "bob")
	assert.ErrorIs(t, err, types.ErrForbidden)
	_, err = e.SoftDelete(ctx, task, "")
	assert.ErrorIs(t, err, types.ErrInvalidActor)
	assert.Equal(t, types.StatusActive, status(t, store, task))

	permissive := New(store, authz.NewRolePolicy(types.AuthzConfig{EditorsMayDelete: true}), WithNotifier(rec))
	_, err = permissive.SoftDelete(ctx, task, "bob")
	require.NoError(t, err)

	_, err = permissive.Restore(ctx, task, "bob")
	assert.ErrorIs(t, err, types.ErrForbidden, "restore stays owner-only")
	_, err = permissive.ForceDelete(ctx, task, "bob")
	assert.ErrorIs(t, err, types.ErrForbidden)
	_, err = permissive.SoftDelete(ctx, types.ProjectRef(tree.Project), "bob")
	assert.ErrorIs(t, err, types.ErrForbidden)
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, task))
}

func TestNotifierFailureKeepsCommit(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 1)
	core, logs := observer.New(zapcore.WarnLevel)
	failing := &recorder{err: errors.New("audit sink down")}
	e := New(store, authz.NewRolePolicy(types.AuthzConfig{}),
		WithNotifier(failing), WithLogger(zap.New(core).Sugar()))
	l := types.ListRef(tree.Lists[0])

	n, err := e.SoftDelete(ctx, l, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, l))

	warnings := logs.FilterMessage("notifier failed").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, l.String(), warnings[0].ContextMap()["ref"])
}

func TestEmptyTrashScopedToOwnedProjects(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	mine := storetest.Seed(t, store, "alice", 2, 1)
	theirs := storetest.Seed(t, store, "bob", 1)
	storetest.AddMember(t, store, theirs.Project, "alice", types.RoleEditor)
	e, rec := newEngine(t, store)

	_, err := e.SoftDelete(ctx, types.ListRef(mine.Lists[0]), "alice")
	require.NoError(t, err)
	_, err = e.SoftDelete(ctx, types.TaskRef(mine.Tasks[1][0]), "alice")
	require.NoError(t, err)
	_, err = e.SoftDelete(ctx, types.ListRef(theirs.Lists[0]), "bob")
	require.NoError(t, err)

	n, err := e.EmptyTrash(ctx, "alice", types.GlobalScope())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, types.StatusPurged, status(t, store, types.ListRef(mine.Lists[0])))
	assert.Equal(t, types.StatusPurged, status(t, store, types.TaskRef(mine.Tasks[1][0])))
	assert.Equal(t, types.StatusActive, status(t, store, types.ListRef(mine.Lists[1])))
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, types.ListRef(theirs.Lists[0])))
	assert.Equal(t, types.StatusTrashedCascaded, status(t, store, types.TaskRef(theirs.Tasks[0][0])))

	_, err = e.EmptyTrash(ctx, "alice", types.ProjectScope(theirs.Project))
	assert.ErrorIs(t, err, types.ErrForbidden)
	_, err = e.EmptyTrash(ctx, "mallory", types.ProjectScope(theirs.Project))
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, types.StatusTrashedDirect, status(t, store, types.ListRef(theirs.Lists[0])))

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, types.EventTrashEmptied, last.Kind)
	require.NotNil(t, last.Scope)
	assert.Equal(t, types.ScopeGlobal, last.Scope.Kind)
	assert.Equal(t, 4, last.Affected)
}

func TestEmptyTrashProjects(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	trashed := storetest.Seed(t, store, "alice", 1)
	kept := storetest.Seed(t, store, "alice", 1)
	e, _ := newEngine(t, store)

	_, err := e.SoftDelete(ctx, types.ProjectRef(trashed.Project), "alice")
	require.NoError(t, err)
	_, err = e.SoftDelete(ctx, types.TaskRef(kept.Tasks[0][0]), "alice")
	require.NoError(t, err)

	t.Run("project scope keeps the container", func(t *testing.T) {
		n, err := e.EmptyTrash(ctx, "alice", types.ProjectScope(trashed.Project))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, types.StatusTrashedDirect, status(t, store, types.ProjectRef(trashed.Project)))
		assert.Equal(t, types.StatusTrashedDirect, status(t, store, types.TaskRef(kept.Tasks[0][0])))
	})

	t.Run("global scope removes trashed projects", func(t *testing.T) {
		n, err := e.EmptyTrash(ctx, "alice", types.GlobalScope())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, types.StatusPurged, status(t, store, types.ProjectRef(trashed.Project)))
		assert.Equal(t, types.StatusActive, status(t, store, types.ListRef(kept.Lists[0])))
	})

	t.Run("nothing left", func(t *testing.T) {
		n, err := e.EmptyTrash(ctx, "alice", types.GlobalScope())
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("malformed scope", func(t *testing.T) {
		_, err := e.EmptyTrash(ctx, "alice", types.Scope{Kind: types.ScopeProject})
		assert.ErrorIs(t, err, types.ErrInvalidScope)
	})
}

// failingStore fails the nth Update call and passes everything else through.
type failingStore struct {
	types.Store
	failOn int
	calls  int
	err    error
}

func (s *failingStore) Update(ctx context.Context, fn func(tx types.Tx) error) error {
	s.calls++
	if s.calls == s.failOn {
		return s.err
	}
	return s.Store.Update(ctx, fn)
}

func TestEmptyTrashPerProject(t *testing.T) {
	ctx := context.Background()
	backend := storetest.New(t)
	first := storetest.Seed(t, backend, "alice", 2)
	second := storetest.Seed(t, backend, "alice", 2)
	setup, _ := newEngine(t, backend)
	for _, tree := range []storetest.Tree{first, second} {
		_, err := setup.SoftDelete(ctx, types.ListRef(tree.Lists[0]), "alice")
		require.NoError(t, err)
	}

	t.Run("partial failure is reported", func(t *testing.T) {
		diskFull := errors.New("disk full")
		store := &failingStore{Store: backend, failOn: 2, err: diskFull}
		e, rec := newEngine(t, store, WithBatching(types.BatchingPerProject))

		n, err := e.EmptyTrash(ctx, "alice", types.GlobalScope())
		assert.Equal(t, 3, n)
		assert.ErrorIs(t, err, types.ErrPartialPurge)
		assert.ErrorIs(t, err, diskFull)
		require.Len(t, rec.events, 1)
		assert.Equal(t, 3, rec.events[0].Affected)
	})

	t.Run("retry finishes the rest", func(t *testing.T) {
		e, _ := newEngine(t, backend, WithBatching(types.BatchingPerProject))
		n, err := e.EmptyTrash(ctx, "alice", types.GlobalScope())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		for _, tree := range []storetest.Tree{first, second} {
			assert.Equal(t, types.StatusPurged, status(t, backend, types.ListRef(tree.Lists[0])))
		}
	})
}

func TestEmptyTrashAtomicRollsBack(t *testing.T) {
	ctx := context.Background()
	backend := storetest.New(t)
	tree := storetest.Seed(t, backend, "alice", 1)
	setup, _ := newEngine(t, backend)
	_, err := setup.SoftDelete(ctx, types.ListRef(tree.Lists[0]), "alice")
	require.NoError(t, err)

	boom := errors.New("boom")
	e, rec := newEngine(t, &failingStore{Store: backend, failOn: 1, err: boom})
	n, err := e.EmptyTrash(ctx, "alice", types.GlobalScope())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, types.ErrPartialPurge)
	assert.Equal(t, 0, n)
	assert.Empty(t, rec.events)
	assert.Equal(t, types.StatusTrashedDirect, status(t, backend, types.ListRef(tree.Lists[0])))
}

func TestConcurrentSameSubtree(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 2, 2)
	e, _ := newEngine(t, store)
	p := types.ProjectRef(tree.Project)
	l := types.ListRef(tree.Lists[0])

	ops := []func() error{
		func() error { _, err := e.SoftDelete(ctx, l, "alice"); return err },
		func() error { _, err := e.Restore(ctx, l, "alice"); return err },
		func() error { _, err := e.SoftDelete(ctx, p, "alice"); return err },
		func() error { _, err := e.Restore(ctx, p, "alice"); return err },
	}

	const workers = 40
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ops[i%len(ops)]()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		assert.True(t,
			errors.Is(err, types.ErrInvalidState) || errors.Is(err, types.ErrPreconditionFailed),
			"worker %d: unexpected error %v", i, err)
	}

	// No active entity may sit under a trashed parent.
	var nodes []types.Node
	require.NoError(t, store.View(ctx, func(tx types.Reader) error {
		var err error
		nodes, err = hierarchy.New(tx).DescendantsOf(p)
		return err
	}))
	require.Len(t, nodes, 7)
	byRef := make(map[types.EntityRef]types.Node, len(nodes))
	for _, n := range nodes {
		byRef[n.Ref] = n
	}
	for _, n := range nodes {
		if n.Parent.IsZero() || !n.Trash.IsActive() {
			continue
		}
		parent, ok := byRef[n.Parent]
		require.True(t, ok, "%s: parent %s missing", n.Ref, n.Parent)
		assert.True(t, parent.Trash.IsActive(), "%s is active under trashed %s", n.Ref, n.Parent)
	}
}

func TestDefaultNotifier(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 1)
	e := New(store, authz.NewRolePolicy(types.AuthzConfig{}), WithNotifier(nil))

	n, err := e.SoftDelete(ctx, types.ListRef(tree.Lists[0]), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
