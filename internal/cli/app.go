package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskbin/internal/authz"
	"github.com/mesh-intelligence/taskbin/internal/lifecycle"
	"github.com/mesh-intelligence/taskbin/internal/logger"
	"github.com/mesh-intelligence/taskbin/internal/notify"
	"github.com/mesh-intelligence/taskbin/internal/paths"
	"github.com/mesh-intelligence/taskbin/internal/retention"
	"github.com/mesh-intelligence/taskbin/internal/sqlite"
	"github.com/mesh-intelligence/taskbin/internal/trash"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// app is everything a command needs once config is loaded and the store is
// attached.
type app struct {
	cfg     types.Config
	flags   *rootFlags
	actor   string
	out     io.Writer
	log     *zap.SugaredLogger
	backend *sqlite.Backend
	engine  *lifecycle.Engine
	trash   *trash.Service
	metrics *prometheus.Registry
}

// openApp loads config, builds the logger and attaches the backend. The
// caller must Close the app.
func openApp(cmd *cobra.Command, flags *rootFlags) (*app, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, &systemError{fmt.Errorf("resolve config dir: %w", err)}
	}
	cfg, err := loadConfig(configDir, flags.dataDir)
	if err != nil {
		return nil, &systemError{err}
	}
	actor, err := resolveActor(flags.actor)
	if err != nil {
		return nil, err
	}

	logger.SetGlobal(logger.New(cfg.LogLevel, cfg.LogFormat))

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, &systemError{fmt.Errorf("attach backend: %w", err)}
	}

	reg := prometheus.NewRegistry()
	policy := authz.NewRolePolicy(cfg.Authz)
	notifier := notify.Multi{
		notify.NewLogNotifier(logger.For(logger.ComponentNotify)),
		notify.NewMetrics(reg),
	}

	a := &app{
		cfg:     cfg,
		flags:   flags,
		actor:   actor,
		out:     cmd.OutOrStdout(),
		log:     logger.For(logger.ComponentCLI),
		backend: backend,
		metrics: reg,
		engine: lifecycle.New(backend, policy,
			lifecycle.WithNotifier(notifier),
			lifecycle.WithLogger(logger.For(logger.ComponentLifecycle)),
			lifecycle.WithBatching(cfg.EffectiveBatching()),
		),
		trash: trash.NewService(backend, policy,
			retention.NewTierPolicy(cfg.Retention),
			logger.For(logger.ComponentTrash),
		),
	}
	a.log.Debugw("app opened", "config_dir", configDir, "actor", actor)
	return a, nil
}

// Close writes the metrics file, if configured, and detaches the backend.
func (a *app) Close() error {
	var err error
	if a.cfg.MetricsFile != "" {
		err = multierr.Append(err, prometheus.WriteToTextfile(a.cfg.MetricsFile, a.metrics))
	}
	return multierr.Append(err, a.backend.Detach())
}

// resolveActor returns the acting user: flag > TASKBIN_ACTOR > OS user.
func resolveActor(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(EnvActor); v != "" {
		return v, nil
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username, nil
	}
	return "", types.ErrInvalidActor
}

// withApp adapts a command body to cobra's RunE, opening and closing the
// app around it and classifying the returned error.
func withApp(flags *rootFlags, fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd, flags)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); cerr != nil && err == nil {
				err = &systemError{cerr}
			}
		}()
		return classify(fn(cmd.Context(), a, args))
	}
}

// print writes v as indented JSON in --json mode and calls text otherwise.
func (a *app) print(v any, text func(w io.Writer)) error {
	if !a.flags.jsonMode {
		text(a.out)
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(a.out, string(out))
	return nil
}
