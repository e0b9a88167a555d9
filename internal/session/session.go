// Package session sequences one run attempt: assemble the argument vector
// from the state tree, validate run settings, spawn through the supervisor,
// and track the resulting handle. At most one handle is tracked; starting a
// new run replaces it without killing a still-running predecessor; whether
// concurrent runs are allowed is the caller's policy.
package session

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"cmdesk/internal/argv"
	"cmdesk/internal/history"
	"cmdesk/internal/locale"
	"cmdesk/internal/proc"
	"cmdesk/internal/state"
)

// RunError is a failed run attempt surfaced to the presentation layer: a
// message identifier plus its payload, never pre-rendered text.
type RunError struct {
	// MessageID is the fixed identifier the UI renders this under.
	MessageID string
	// Payload fills the message's format verbs (display name, reason).
	Payload []any
	// ArgID correlates the failure with one argument, empty for
	// standalone notices like a missing sub-command or an empty env key.
	ArgID string
	// Err is the underlying error.
	Err error
}

func (e *RunError) Error() string { return e.Err.Error() }

func (e *RunError) Unwrap() error { return e.Err }

// Render resolves the error against a locale table.
func (e *RunError) Render(table *locale.Table) string {
	return table.Format(e.MessageID, e.Payload...)
}

// Options configures an Orchestrator.
type Options struct {
	// Executable becomes token zero of every spawn.
	Executable string
	// MarkChild sets the re-entry marker variable on the child, used in
	// library mode where the child is this same binary re-entering.
	MarkChild bool
	// History records run attempts when non-nil.
	History *history.Store
	// Locale renders painted validation messages. Nil uses the built-in
	// English table.
	Locale *locale.Table
	// Logger receives debug logging. Nil means no logging.
	Logger *zap.Logger
}

// Orchestrator wires the state tree, the assembler, and the supervisor
// together for one wrapped program.
type Orchestrator struct {
	root  *state.Node
	opts  Options
	log   *zap.Logger
	table *locale.Table

	// Run settings edited through the optional tabs.
	env     []proc.EnvVar
	stdin   proc.StdinSource
	workDir string

	handle *proc.Handle
}

// New creates an orchestrator over an already-built state tree.
func New(root *state.Node, opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	table := opts.Locale
	if table == nil {
		table = locale.Default()
	}
	return &Orchestrator{root: root, opts: opts, log: log, table: table}
}

// Locale returns the message table runs are rendered against.
func (o *Orchestrator) Locale() *locale.Table {
	return o.table
}

// Root returns the state tree for rendering and mutation.
func (o *Orchestrator) Root() *state.Node {
	return o.root
}

// Env returns the current environment overrides.
func (o *Orchestrator) Env() []proc.EnvVar {
	return o.env
}

// AddEnv appends an empty override row for the user to fill in.
func (o *Orchestrator) AddEnv() {
	o.env = append(o.env, proc.EnvVar{})
}

// SetEnv replaces one override row.
func (o *Orchestrator) SetEnv(index int, key, value string) {
	if index >= 0 && index < len(o.env) {
		o.env[index] = proc.EnvVar{Key: key, Value: value}
	}
}

// RemoveEnv deletes one override row.
func (o *Orchestrator) RemoveEnv(index int) {
	if index >= 0 && index < len(o.env) {
		o.env = append(o.env[:index], o.env[index+1:]...)
	}
}

// SetStdin selects what the child reads on stdin; nil closes the stream.
func (o *Orchestrator) SetStdin(src proc.StdinSource) {
	o.stdin = src
}

// Stdin returns the current stdin source.
func (o *Orchestrator) Stdin() proc.StdinSource {
	return o.stdin
}

// SetWorkDir overrides the child's working directory; empty inherits.
func (o *Orchestrator) SetWorkDir(dir string) {
	o.workDir = dir
}

// WorkDir returns the current working directory override.
func (o *Orchestrator) WorkDir() string {
	return o.workDir
}

// Handle returns the currently tracked run, nil before the first one.
func (o *Orchestrator) Handle() *proc.Handle {
	return o.handle
}

// Running reports whether the tracked run is still alive.
func (o *Orchestrator) Running() bool {
	return o.handle != nil && o.handle.IsRunning()
}

// Kill terminates the tracked run, if any.
func (o *Orchestrator) Kill() error {
	if o.handle == nil {
		return nil
	}
	return o.handle.Kill()
}

// Run executes one run attempt. On a validation failure the offending
// ArgValue is painted (when one is known), no process is spawned, and the
// returned RunError carries the message identifier. On success the new
// handle replaces the previous one.
func (o *Orchestrator) Run() (*proc.Handle, error) {
	o.root.ClearValidationErrors()

	args, err := argv.Assemble(o.root)
	if err != nil {
		return nil, o.failValidation(err)
	}

	for _, v := range o.env {
		if v.Key == "" {
			// Not tied to any argument; the UI shows it as a notice.
			return nil, &RunError{
				MessageID: locale.MsgEnvKeyEmpty,
				Err:       proc.ErrEmptyEnvKey,
			}
		}
	}

	req := proc.Request{
		Argv:  append([]string{o.opts.Executable}, args...),
		Env:   o.env,
		Stdin: o.stdin,
		Dir:   o.workDir,
	}
	if o.opts.MarkChild {
		req.Env = append(req.Env, proc.EnvVar{Key: ChildEnvVar, Value: "1"})
	}

	startedAt := time.Now()
	handle, err := proc.Spawn(req)

	// The new run replaces the old one either way; a still-running
	// predecessor keeps running untracked.
	o.handle = handle

	if err != nil {
		o.log.Warn("spawn failed", zap.Strings("argv", req.Argv), zap.Error(err))
		return handle, &RunError{
			MessageID: locale.MsgSpawnFailed,
			Payload:   []any{err.Error()},
			Err:       err,
		}
	}

	o.log.Info("spawned",
		zap.Strings("argv", req.Argv),
		zap.Int("pid", handle.PID()),
		zap.String("dir", o.workDir))

	if o.opts.History != nil {
		id, herr := o.opts.History.RecordStart(req.Argv, o.workDir, startedAt)
		if herr != nil {
			o.log.Warn("record run start", zap.Error(herr))
		} else {
			go o.recordFinish(handle, id)
		}
	}
	return handle, nil
}

// recordFinish waits for the handle's terminal state and closes out its
// history row.
func (o *Orchestrator) recordFinish(h *proc.Handle, id int64) {
	<-h.Done()
	status := h.Status().String()
	if err := o.opts.History.RecordFinish(id, status, h.ExitCode(), time.Now()); err != nil {
		o.log.Warn("record run finish", zap.Error(err))
	}
}

// failValidation paints an assembler failure onto the tree and wraps it as
// a RunError.
func (o *Orchestrator) failValidation(err error) error {
	var missingArg *argv.MissingRequiredError
	var missingSub *argv.MissingSubcommandError
	var internal *argv.InternalError

	switch {
	case errors.As(err, &missingArg):
		re := &RunError{
			MessageID: missingArg.MessageID(),
			Payload:   []any{missingArg.DisplayName},
			ArgID:     missingArg.ID,
			Err:       err,
		}
		o.root.ApplyValidationError(missingArg.ID, re.Render(o.table))
		return re
	case errors.As(err, &missingSub):
		return &RunError{
			MessageID: missingSub.MessageID(),
			Payload:   []any{missingSub.Command},
			Err:       err,
		}
	case errors.As(err, &internal):
		o.log.Error("assembler internal error", zap.Error(err))
		return &RunError{
			MessageID: internal.MessageID(),
			Payload:   []any{internal.Reason},
			Err:       err,
		}
	default:
		return &RunError{
			MessageID: locale.MsgInternalError,
			Payload:   []any{err.Error()},
			Err:       err,
		}
	}
}

// Output returns a snapshot of the tracked run's output, empty before the
// first run.
func (o *Orchestrator) Output() string {
	if o.handle == nil {
		return ""
	}
	return o.handle.Output()
}
