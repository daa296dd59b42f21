package trash

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskbin/internal/authz"
	"github.com/mesh-intelligence/taskbin/internal/lifecycle"
	"github.com/mesh-intelligence/taskbin/internal/retention"
	"github.com/mesh-intelligence/taskbin/internal/storetest"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

type fixture struct {
	store   types.Store
	engine  *lifecycle.Engine
	service *Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := storetest.New(t)
	policy := authz.NewRolePolicy(types.AuthzConfig{})
	c := &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	ret := retention.NewTierPolicy(types.RetentionConfig{
		Default: 30 * 24 * time.Hour,
		Tiers:   map[string]time.Duration{"free": 7 * 24 * time.Hour},
		Owners:  map[string]string{"bob": "free"},
	})
	return fixture{
		store:   store,
		engine:  lifecycle.New(store, policy, lifecycle.WithClock(c.Now)),
		service: NewService(store, policy, ret, nil),
	}
}

func refsOf(items []types.TrashItem) []types.EntityRef {
	out := make([]types.EntityRef, len(items))
	for i, it := range items {
		out[i] = it.Ref
	}
	return out
}

func TestGlobalTrash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	home := storetest.Seed(t, f.store, "alice", 1, 0)
	old := storetest.Seed(t, f.store, "alice", 0)
	shared := storetest.Seed(t, f.store, "bob", 1)
	storetest.AddMember(t, f.store, shared.Project, "alice", types.RoleEditor)

	_, err := f.engine.SoftDelete(ctx, types.TaskRef(home.Tasks[0][0]), "alice")
	require.NoError(t, err)
	_, err = f.engine.SoftDelete(ctx, types.ProjectRef(old.Project), "alice")
	require.NoError(t, err)
	_, err = f.engine.SoftDelete(ctx, types.ListRef(shared.Lists[0]), "bob")
	require.NoError(t, err)

	items, err := f.service.GlobalTrash(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []types.EntityRef{
		types.ProjectRef(old.Project),
		types.ListRef(old.Lists[0]),
		types.TaskRef(home.Tasks[0][0]),
	}, refsOf(items))

	for _, it := range items {
		assert.Equal(t, "alice", it.OwnerID)
		assert.Equal(t, it.DeletedAt.Add(30*24*time.Hour), it.RetainUntil, it.Ref.String())
	}
	assert.Equal(t, types.TrashedCascaded(types.ProjectRef(old.Project)), items[1].State)
	assert.Equal(t, home.Lists[0], items[2].ListID)

	bobs, err := f.service.GlobalTrash(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobs, 2)
	assert.Equal(t, bobs[0].DeletedAt.Add(7*24*time.Hour), bobs[0].RetainUntil, "tier window")

	none, err := f.service.GlobalTrash(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.service.GlobalTrash(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidActor)
}

func TestProjectTrash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	shared := storetest.Seed(t, f.store, "bob", 2, 1)
	storetest.AddMember(t, f.store, shared.Project, "alice", types.RoleViewer)

	_, err := f.engine.SoftDelete(ctx, types.ListRef(shared.Lists[0]), "bob")
	require.NoError(t, err)

	t.Run("members see the trash", func(t *testing.T) {
		for _, actor := range []string{"bob", "alice"} {
			items, err := f.service.ProjectTrash(ctx, shared.Project, actor)
			require.NoError(t, err)
			assert.Len(t, items, 3, actor)
			assert.Equal(t, types.ListRef(shared.Lists[0]), items[0].Ref, "parents first")
			assert.Equal(t, "bob", items[0].OwnerID)
		}
	})

	t.Run("strangers get not found", func(t *testing.T) {
		_, err := f.service.ProjectTrash(ctx, shared.Project, "mallory")
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = f.service.ProjectTrash(ctx, "missing", "bob")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("reflects restore immediately", func(t *testing.T) {
		_, err := f.engine.Restore(ctx, types.ListRef(shared.Lists[0]), "bob")
		require.NoError(t, err)
		items, err := f.service.ProjectTrash(ctx, shared.Project, "alice")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("reflects force delete", func(t *testing.T) {
		ref := types.ListRef(shared.Lists[0])
		_, err := f.engine.SoftDelete(ctx, ref, "bob")
		require.NoError(t, err)
		_, err = f.engine.ForceDelete(ctx, ref, "bob")
		require.NoError(t, err)
		items, err := f.service.ProjectTrash(ctx, shared.Project, "bob")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

type brokenPolicy struct{}

func (brokenPolicy) RetentionWindow(context.Context, string) (time.Duration, error) {
	return 0, errors.New("plan service unavailable")
}

func TestRetentionFailure(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	tree := storetest.Seed(t, store, "alice", 1)
	s := NewService(store, authz.NewRolePolicy(types.AuthzConfig{}), brokenPolicy{}, nil)

	_, err := s.GlobalTrash(ctx, "alice")
	assert.ErrorContains(t, err, "plan service unavailable")
	_, err = s.ProjectTrash(ctx, tree.Project, "alice")
	assert.ErrorContains(t, err, "plan service unavailable")
}
