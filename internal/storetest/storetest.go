// Package storetest builds attached SQLite stores and seeded project trees
// for tests in other packages.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskbin/pkg/sqlite"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// New returns a Backend attached to a fresh temp directory. It is detached
// when the test ends.
func New(t testing.TB) types.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// Tree holds the IDs of a seeded project. Tasks[i] are the tasks of Lists[i].
type Tree struct {
	Project string
	Lists   []string
	Tasks   [][]string
}

// Seed creates a project owned by owner with one list per entry of
// tasksPerList, each holding that many tasks.
func Seed(t testing.TB, store types.Store, owner string, tasksPerList ...int) Tree {
	t.Helper()
	var tree Tree
	err := store.Update(context.Background(), func(tx types.Tx) error {
		var err error
		tree.Project, err = tx.CreateProject(&types.Project{OwnerID: owner, Name: "Project of " + owner})
		if err != nil {
			return err
		}
		for i, n := range tasksPerList {
			listID, err := tx.CreateList(&types.List{ProjectID: tree.Project, Name: listName(i)})
			if err != nil {
				return err
			}
			tree.Lists = append(tree.Lists, listID)
			var tasks []string
			for j := 0; j < n; j++ {
				taskID, err := tx.CreateTask(&types.Task{ListID: listID, Title: listName(i) + " task", CreatorID: owner})
				if err != nil {
					return err
				}
				tasks = append(tasks, taskID)
			}
			tree.Tasks = append(tree.Tasks, tasks)
		}
		return nil
	})
	require.NoError(t, err)
	return tree
}

// AddMember grants userID a role on the project.
func AddMember(t testing.TB, store types.Store, projectID, userID string, role types.Role) {
	t.Helper()
	require.NoError(t, store.Update(context.Background(), func(tx types.Tx) error {
		return tx.AddMember(projectID, userID, role)
	}))
}

// State returns the trash state of ref, or StatusPurged if the row is gone.
func State(t testing.TB, store types.Store, ref types.EntityRef) types.TrashState {
	t.Helper()
	var state types.TrashState
	err := store.View(context.Background(), func(tx types.Reader) error {
		var err error
		switch ref.Kind {
		case types.KindProject:
			var p *types.Project
			if p, err = tx.GetProject(ref.ID, types.IncludeTrashed); err == nil {
				state = p.Trash
			}
		case types.KindList:
			var l *types.List
			if l, err = tx.GetList(ref.ID, types.IncludeTrashed); err == nil {
				state = l.Trash
			}
		default:
			var task *types.Task
			if task, err = tx.GetTask(ref.ID, types.IncludeTrashed); err == nil {
				state = task.Trash
			}
		}
		return err
	})
	if err != nil {
		require.ErrorIs(t, err, types.ErrNotFound)
		return types.TrashState{Status: types.StatusPurged}
	}
	return state
}

func listName(i int) string {
	return "List " + string(rune('A'+i))
}
