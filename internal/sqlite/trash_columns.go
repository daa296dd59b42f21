package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// timeLayout is used for every timestamp column. The fixed-width fraction
// keeps string order equal to time order, and nanosecond precision keeps
// the rows of one cascade batch identical.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// entityTables maps each kind to its table and primary key column.
var entityTables = map[types.EntityKind]struct{ table, idCol string }{
	types.KindProject: {"projects", "project_id"},
	types.KindList:    {"lists", "list_id"},
	types.KindTask:    {"tasks", "task_id"},
}

// visibilityClause returns the SQL condition selecting rows by trash state.
func visibilityClause(vis types.Visibility) string {
	switch vis {
	case types.IncludeTrashed:
		return "1 = 1"
	case types.TrashedOnly:
		return "trash_status <> 'active'"
	default:
		return "trash_status = 'active'"
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// hydrateTrash converts the three trash columns into a TrashState and the
// deleted_at timestamp.
func hydrateTrash(status, origin string, deletedAt sql.NullString) (types.TrashState, *time.Time, error) {
	st := types.TrashStatus(status)
	if !st.Valid() {
		return types.TrashState{}, nil, fmt.Errorf("unknown trash status %q", status)
	}
	ref, err := types.ParseRef(origin)
	if err != nil {
		return types.TrashState{}, nil, fmt.Errorf("parsing trash origin: %w", err)
	}
	at, err := parseNullTime(deletedAt)
	if err != nil {
		return types.TrashState{}, nil, fmt.Errorf("parsing deleted_at: %w", err)
	}
	return types.TrashState{Status: st, Origin: ref}, at, nil
}

// SetTrashState overwrites the trash columns of one row.
func (s *storeTx) SetTrashState(ref types.EntityRef, state types.TrashState, deletedAt *time.Time) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if !state.Status.Valid() {
		return fmt.Errorf("%w: trash status %q", types.ErrInvalidData, state.Status)
	}
	if state.IsActive() != (deletedAt == nil) {
		return fmt.Errorf("%w: deleted_at must be set exactly when trashed", types.ErrInvalidData)
	}
	if state.Status != types.StatusTrashedCascaded && !state.Origin.IsZero() {
		return fmt.Errorf("%w: only cascaded entities carry an origin", types.ErrInvalidData)
	}

	t := entityTables[ref.Kind]
	res, err := s.exec(
		"UPDATE "+t.table+" SET trash_status = ?, trash_origin = ?, deleted_at = ?, updated_at = ? WHERE "+t.idCol+" = ?",
		string(state.Status), state.Origin.String(), formatNullTime(deletedAt), formatTime(s.now()), ref.ID,
	)
	if err != nil {
		return fmt.Errorf("updating trash state of %s: %w", ref, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating trash state of %s: %w", ref, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Purge removes one row permanently. Purging a project also removes its
// membership rows. Children must already be gone; the foreign keys reject
// the delete otherwise.
func (s *storeTx) Purge(ref types.EntityRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	if ref.Kind == types.KindProject {
		if _, err := s.exec("DELETE FROM project_members WHERE project_id = ?", ref.ID); err != nil {
			return fmt.Errorf("deleting members of %s: %w", ref, err)
		}
	}

	t := entityTables[ref.Kind]
	res, err := s.exec("DELETE FROM "+t.table+" WHERE "+t.idCol+" = ?", ref.ID)
	if err != nil {
		return fmt.Errorf("purging %s: %w", ref, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("purging %s: %w", ref, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
