package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readExport parses one exported JSONL file.
func readExport(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestExport(t *testing.T) {
	b := setupBackend(t)
	projectID, listID, taskIDs := seedTree(t, b, "alice")
	dir := filepath.Join(t.TempDir(), "snapshot")

	require.NoError(t, b.Export(context.Background(), dir))

	projects := readExport(t, filepath.Join(dir, "projects.jsonl"))
	require.Len(t, projects, 1)
	assert.Equal(t, projectID, projects[0]["project_id"])
	assert.Equal(t, "active", projects[0]["trash_status"])
	assert.Nil(t, projects[0]["deleted_at"])

	lists := readExport(t, filepath.Join(dir, "lists.jsonl"))
	require.Len(t, lists, 1)
	assert.Equal(t, listID, lists[0]["list_id"])

	tasks := readExport(t, filepath.Join(dir, "tasks.jsonl"))
	require.Len(t, tasks, 2)
	assert.Equal(t, taskIDs[0], tasks[0]["task_id"])

	assert.Empty(t, readExport(t, filepath.Join(dir, "project_members.jsonl")))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".jsonl-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
