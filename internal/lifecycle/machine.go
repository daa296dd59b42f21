package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// Lifecycle events. The cascade variants are fired on descendants of the
// entity an operation was called on.
const (
	eventTrash          = "trash"
	eventCascadeTrash   = "cascade_trash"
	eventRestore        = "restore"
	eventCascadeRestore = "cascade_restore"
	eventPurge          = "purge"
	eventCascadePurge   = "cascade_purge"
)

var (
	stateActive   = string(types.StatusActive)
	stateDirect   = string(types.StatusTrashedDirect)
	stateCascaded = string(types.StatusTrashedCascaded)
	statePurged   = string(types.StatusPurged)
)

// transitions is the per-entity state machine. Purged has no outgoing
// edges. Trashing a trashed entity again is a self-transition, which the
// engine treats as a no-op.
var transitions = fsm.Events{
	{Name: eventTrash, Src: []string{stateActive, stateCascaded, stateDirect}, Dst: stateDirect},
	{Name: eventCascadeTrash, Src: []string{stateActive, stateCascaded}, Dst: stateCascaded},
	{Name: eventRestore, Src: []string{stateDirect, stateCascaded}, Dst: stateActive},
	{Name: eventCascadeRestore, Src: []string{stateCascaded}, Dst: stateActive},
	{Name: eventPurge, Src: []string{stateDirect, stateCascaded}, Dst: statePurged},
	{Name: eventCascadePurge, Src: []string{stateDirect, stateCascaded}, Dst: statePurged},
}

// fire runs event against an entity currently in from and returns the
// resulting status. An event not allowed from the current status returns
// ErrInvalidState.
func fire(ctx context.Context, from types.TrashStatus, event string) (types.TrashStatus, error) {
	if from == "" {
		from = types.StatusActive
	}
	machine := fsm.NewFSM(string(from), transitions, nil)

	err := machine.Event(ctx, event)
	var noTransition fsm.NoTransitionError
	var invalid fsm.InvalidEventError
	switch {
	case err == nil, errors.As(err, &noTransition):
		return types.TrashStatus(machine.Current()), nil
	case errors.As(err, &invalid):
		return from, fmt.Errorf("%w: cannot %s an entity that is %s", types.ErrInvalidState, event, from)
	default:
		return from, fmt.Errorf("%s from %s: %w", event, from, err)
	}
}
