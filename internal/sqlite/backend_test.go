package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/taskbin/internal/logger"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// setupBackend creates an attached Backend in a temp directory and detaches
// it when the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

// seedTree creates project -> list -> two tasks owned by owner and returns
// their IDs.
func seedTree(t *testing.T, b *Backend, owner string) (projectID, listID string, taskIDs []string) {
	t.Helper()
	err := b.Update(context.Background(), func(tx types.Tx) error {
		var err error
		if projectID, err = tx.CreateProject(&types.Project{OwnerID: owner, Name: "Home"}); err != nil {
			return err
		}
		if listID, err = tx.CreateList(&types.List{ProjectID: projectID, Name: "Chores"}); err != nil {
			return err
		}
		for _, title := range []string{"Dishes", "Laundry"} {
			id, err := tx.CreateTask(&types.Task{ListID: listID, Title: title, CreatorID: owner})
			if err != nil {
				return err
			}
			taskIDs = append(taskIDs, id)
		}
		return nil
	})
	require.NoError(t, err)
	return projectID, listID, taskIDs
}

func TestBackendAttachDetach(t *testing.T) {
	t.Run("attach twice returns ErrAlreadyAttached", func(t *testing.T) {
		b := setupBackend(t)
		err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
		assert.ErrorIs(t, err, types.ErrAlreadyAttached)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		b := NewBackend()
		err := b.Attach(types.Config{Backend: "postgres"})
		assert.ErrorIs(t, err, types.ErrBackendUnknown)
	})

	t.Run("detach is idempotent", func(t *testing.T) {
		b := setupBackend(t)
		require.NoError(t, b.Detach())
		require.NoError(t, b.Detach())
	})

	t.Run("operations after detach return ErrStoreDetached", func(t *testing.T) {
		b := setupBackend(t)
		require.NoError(t, b.Detach())

		err := b.Update(context.Background(), func(tx types.Tx) error { return nil })
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		err = b.View(context.Background(), func(tx types.Reader) error { return nil })
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		assert.ErrorIs(t, b.Export(context.Background(), t.TempDir()), types.ErrStoreDetached)
	})

	t.Run("data survives reattach", func(t *testing.T) {
		dir := t.TempDir()
		cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

		b := NewBackend()
		require.NoError(t, b.Attach(cfg))
		var id string
		require.NoError(t, b.Update(context.Background(), func(tx types.Tx) error {
			var err error
			id, err = tx.CreateProject(&types.Project{OwnerID: "alice", Name: "Keep"})
			return err
		}))
		require.NoError(t, b.Detach())

		require.NoError(t, b.Attach(cfg))
		defer b.Detach()
		require.NoError(t, b.View(context.Background(), func(tx types.Reader) error {
			p, err := tx.GetProject(id, types.ActiveOnly)
			require.NoError(t, err)
			assert.Equal(t, "Keep", p.Name)
			return nil
		}))
	})
}

func TestBackendUpdateRollsBackOnError(t *testing.T) {
	b := setupBackend(t)
	projectID, _, _ := seedTree(t, b, "alice")
	boom := errors.New("boom")

	err := b.Update(context.Background(), func(tx types.Tx) error {
		if _, err := tx.CreateList(&types.List{ProjectID: projectID, Name: "Ghost"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, b.View(context.Background(), func(tx types.Reader) error {
		_, err := tx.ActiveListNamed(projectID, "Ghost")
		assert.ErrorIs(t, err, types.ErrNotFound)
		return nil
	}))
}

func TestBackendLogsLifecycle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetGlobal(zap.New(core))
	t.Cleanup(func() { logger.SetGlobal(zap.NewNop()) })

	dataDir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	require.NoError(t, b.Export(context.Background(), filepath.Join(t.TempDir(), "out")))
	require.NoError(t, b.Detach())

	store := logs.FilterLoggerName(logger.ComponentStore)
	attached := store.FilterMessage("attached").All()
	require.Len(t, attached, 1)
	assert.Equal(t, filepath.Join(dataDir, dbFileName), attached[0].ContextMap()["path"])
	assert.Equal(t, len(exportTables), store.FilterMessage("exported").Len())
	assert.Equal(t, 1, store.FilterMessage("detached").Len())
}
