// Package cli implements the taskbin command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbin/internal/logger"
	"github.com/mesh-intelligence/taskbin/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// EnvActor names the acting user when --as is not given.
const EnvActor = "TASKBIN_ACTOR"

// Version is the taskbin release, overridden at build time with -ldflags.
var Version = "0.1.0-dev"

const modulePath = "github.com/mesh-intelligence/taskbin"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	actor     string
}

// NewRootCmd creates the top-level "taskbin" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "taskbin",
		Short: "Projects, lists and tasks with a recoverable trash",
		Long: "Taskbin keeps projects, task lists and tasks. Deleting moves an entity and\n" +
			"everything under it to the trash, where it can be restored until it is\n" +
			"purged for good.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: ./.taskbin or the platform config dir)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .taskbin-db)")
	pf.BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&flags.actor, "as", "", "acting user (default: $"+EnvActor+" or $USER)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(flags),
		newProjectCmd(flags),
		newListCmd(flags),
		newTaskCmd(flags),
		newMemberCmd(flags),
		newDeleteCmd(flags),
		newRestoreCmd(flags),
		newPurgeCmd(flags),
		newTrashCmd(flags),
		newEmptyTrashCmd(flags),
		newExportCmd(flags),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "taskbin:", err)
	}
	_ = logger.Sync()
	return exitCode(err)
}

// systemError marks failures of the environment (config, storage, I/O)
// rather than of the request.
type systemError struct {
	err error
}

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

// userErrors are the sentinels that mean the request itself was wrong.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrForbidden,
	types.ErrPreconditionFailed,
	types.ErrInvalidState,
	types.ErrInvalidID,
	types.ErrInvalidRef,
	types.ErrInvalidData,
	types.ErrInvalidName,
	types.ErrDuplicateName,
	types.ErrInvalidScope,
	types.ErrInvalidRole,
	types.ErrInvalidActor,
}

// classify wraps err as a systemError unless it is a user error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	var sys *systemError
	if errors.As(err, &sys) {
		return err
	}
	return &systemError{err: err}
}

// exitCode maps an error from a command to the process exit code. Usage
// errors reported by cobra count as user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var sys *systemError
	if errors.As(err, &sys) {
		return exitSysError
	}
	return exitUserError
}
