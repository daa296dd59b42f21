package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EntityRef
		wantErr error
	}{
		{name: "project", input: "project/p1", want: ProjectRef("p1")},
		{name: "list", input: "list/l1", want: ListRef("l1")},
		{name: "task", input: "task/t1", want: TaskRef("t1")},
		{name: "empty is zero", input: "", want: EntityRef{}},
		{name: "missing separator", input: "task", wantErr: ErrInvalidRef},
		{name: "unknown kind", input: "board/b1", wantErr: ErrInvalidRef},
		{name: "empty id", input: "task/", wantErr: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestEntityKindDepth(t *testing.T) {
	assert.Equal(t, 0, KindProject.Depth())
	assert.Equal(t, 1, KindList.Depth())
	assert.Equal(t, 2, KindTask.Depth())
	assert.Equal(t, -1, EntityKind("board").Depth())
	assert.False(t, EntityKind("").Valid())
}

func TestNodeParents(t *testing.T) {
	p := &Project{ProjectID: "p1", Name: "Home"}
	l := &List{ListID: "l1", ProjectID: "p1", Name: "Chores"}
	task := &Task{TaskID: "t1", ListID: "l1", ProjectID: "p1", Title: "Dishes"}

	assert.True(t, p.Node().Parent.IsZero())
	assert.Equal(t, ProjectRef("p1"), l.Node().Parent)
	assert.Equal(t, ListRef("l1"), task.Node().Parent)
	assert.Equal(t, "p1", task.Node().ProjectID)
	assert.Equal(t, "Dishes", task.Node().Name)
}
