// Package trash serves the read-only trash views. Items carry the time at
// which the owner's retention window runs out.
package trash

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// Service answers trash queries against a Store. It keeps no cache; every
// call reads the current state.
type Service struct {
	store     types.Store
	authz     types.Authorizer
	retention types.RetentionPolicy
	log       *zap.SugaredLogger
}

// NewService returns a Service. A nil log discards output.
func NewService(store types.Store, authz types.Authorizer, retention types.RetentionPolicy, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{store: store, authz: authz, retention: retention, log: log}
}

// GlobalTrash returns every trashed project the user owns and every trashed
// list and task inside projects the user owns. Shared projects the user can
// merely see are not included.
func (s *Service) GlobalTrash(ctx context.Context, user string) ([]types.TrashItem, error) {
	if user == "" {
		return nil, types.ErrInvalidActor
	}
	window, err := s.window(ctx, user)
	if err != nil {
		return nil, err
	}

	items := []types.TrashItem{}
	err = s.store.View(ctx, func(tx types.Reader) error {
		projects, err := tx.ProjectsOwnedBy(user, types.IncludeTrashed)
		if err != nil {
			return err
		}
		for _, p := range projects {
			if p.Trash.IsTrashed() {
				items = append(items, item(p.Node(), "", p.OwnerID, window))
			}
			contents, err := projectContents(tx, p, window)
			if err != nil {
				return err
			}
			items = append(items, contents...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortItems(items)
	s.log.Debugw("global trash", "user", user, "items", len(items))
	return items, nil
}

// ProjectTrash returns the trashed lists and tasks of one project. Any
// member who can view the project may call it. A project the actor cannot
// see is reported as ErrNotFound.
func (s *Service) ProjectTrash(ctx context.Context, projectID, actor string) ([]types.TrashItem, error) {
	if actor == "" {
		return nil, types.ErrInvalidActor
	}
	if projectID == "" {
		return nil, types.ErrInvalidID
	}

	items := []types.TrashItem{}
	err := s.store.View(ctx, func(tx types.Reader) error {
		p, err := tx.GetProject(projectID, types.IncludeTrashed)
		if err != nil {
			return err
		}
		role, err := tx.MemberRole(projectID, actor)
		if err != nil {
			return err
		}
		visible, err := s.authz.CanView(ctx, actor, types.Target{
			Ref:       types.ProjectRef(projectID),
			ProjectID: projectID,
			OwnerID:   p.OwnerID,
			ActorRole: role,
		})
		if err != nil {
			return fmt.Errorf("authorizing project/%s: %w", projectID, err)
		}
		if !visible {
			return fmt.Errorf("project/%s: %w", projectID, types.ErrNotFound)
		}

		window, err := s.window(ctx, p.OwnerID)
		if err != nil {
			return err
		}
		items, err = projectContents(tx, p, window)
		return err
	})
	if err != nil {
		return nil, err
	}

	sortItems(items)
	s.log.Debugw("project trash", "project", projectID, "actor", actor, "items", len(items))
	return items, nil
}

func (s *Service) window(ctx context.Context, owner string) (time.Duration, error) {
	d, err := s.retention.RetentionWindow(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("retention window for %s: %w", owner, err)
	}
	return d, nil
}

// projectContents returns the trashed lists and tasks of p.
func projectContents(tx types.Reader, p *types.Project, window time.Duration) ([]types.TrashItem, error) {
	lists, err := tx.ListsInProject(p.ProjectID, types.TrashedOnly)
	if err != nil {
		return nil, err
	}
	tasks, err := tx.TasksInProject(p.ProjectID, types.TrashedOnly)
	if err != nil {
		return nil, err
	}

	items := make([]types.TrashItem, 0, len(lists)+len(tasks))
	for _, l := range lists {
		items = append(items, item(l.Node(), "", p.OwnerID, window))
	}
	for _, t := range tasks {
		items = append(items, item(t.Node(), t.ListID, p.OwnerID, window))
	}
	return items, nil
}

func item(n types.Node, listID, owner string, window time.Duration) types.TrashItem {
	it := types.TrashItem{
		Ref:       n.Ref,
		Name:      n.Name,
		ProjectID: n.ProjectID,
		ListID:    listID,
		OwnerID:   owner,
		State:     n.Trash,
	}
	if n.DeletedAt != nil {
		it.DeletedAt = *n.DeletedAt
		it.RetainUntil = n.DeletedAt.Add(window)
	}
	return it
}

// sortItems orders newest deletions first, parents before children within
// one deletion.
func sortItems(items []types.TrashItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.DeletedAt.Equal(b.DeletedAt) {
			return a.DeletedAt.After(b.DeletedAt)
		}
		if a.Ref.Kind != b.Ref.Kind {
			return a.Ref.Kind.Depth() < b.Ref.Kind.Depth()
		}
		return a.Name < b.Name
	})
}
