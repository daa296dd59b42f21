// Package notify holds the Notifier implementations the lifecycle engine
// reports to after each committed mutation.
package notify

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.Notifier = (*LogNotifier)(nil)
	_ types.Notifier = Multi(nil)
	_ types.Notifier = Nop{}
)

// LogNotifier writes each event as an audit log line.
type LogNotifier struct {
	log *zap.SugaredLogger
}

// NewLogNotifier returns a LogNotifier writing to log.
func NewLogNotifier(log *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs ev at Info.
func (n *LogNotifier) Notify(_ context.Context, ev types.Event) error {
	fields := []interface{}{
		"event", ev.Kind,
		"actor", ev.Actor,
		"affected", ev.Affected,
		"at", ev.At,
	}
	if !ev.Ref.IsZero() {
		fields = append(fields, "ref", ev.Ref.String())
	}
	if ev.Promoted {
		fields = append(fields, "promoted", true)
	}
	if ev.Scope != nil {
		fields = append(fields, "scope", ev.Scope.Kind)
		if ev.Scope.ProjectID != "" {
			fields = append(fields, "project", ev.Scope.ProjectID)
		}
	}
	n.log.Infow("lifecycle event", fields...)
	return nil
}

// Multi delivers every event to each notifier in order. A failing notifier
// does not stop the others; their errors are combined.
type Multi []types.Notifier

// Notify fans ev out.
func (m Multi) Notify(ctx context.Context, ev types.Event) error {
	var err error
	for _, n := range m {
		err = multierr.Append(err, n.Notify(ctx, ev))
	}
	return err
}

// Nop drops every event.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, types.Event) error { return nil }
