// Package proc supervises one external child process per handle: it spawns
// the program behind an assembled argument vector, drains its output streams
// concurrently into a shared buffer, tracks liveness, and kills on request.
package proc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ErrEmptyEnvKey rejects a request whose environment overrides contain an
// entry with an empty key. Checked before anything is spawned.
var ErrEmptyEnvKey = errors.New("environment variable key is empty")

// ErrEmptyArgv rejects a request with no tokens at all.
var ErrEmptyArgv = errors.New("empty argument vector")

// Status is the lifecycle state of a supervised child.
type Status int

const (
	// StatusNotStarted means no process was ever spawned for this handle.
	StatusNotStarted Status = iota
	// StatusRunning means the child is alive.
	StatusRunning
	// StatusExited means the child terminated on its own.
	StatusExited
	// StatusKilled means Kill was invoked and termination is confirmed.
	StatusKilled
	// StatusSpawnFailed means the spawn itself failed; the child never ran.
	StatusSpawnFailed
)

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not started"
	case StatusRunning:
		return "running"
	case StatusExited:
		return "exited"
	case StatusKilled:
		return "killed"
	case StatusSpawnFailed:
		return "spawn failed"
	default:
		return "unknown"
	}
}

// EnvVar is one environment override, applied on top of the host
// environment. A later entry with the same key wins.
type EnvVar struct {
	Key   string
	Value string
}

// StdinSource selects what the child reads on its input stream. A nil
// source leaves the stream closed.
type StdinSource interface {
	open() (io.Reader, io.Closer, error)
}

// StdinText feeds the child literal text; the stream closes once the text
// is fully written.
type StdinText string

func (t StdinText) open() (io.Reader, io.Closer, error) {
	return strings.NewReader(string(t)), nil, nil
}

// StdinFile redirects the child's input stream from a file.
type StdinFile string

func (f StdinFile) open() (io.Reader, io.Closer, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, nil, fmt.Errorf("open stdin file: %w", err)
	}
	return file, file, nil
}

// Request describes one spawn: the full argument vector (token zero is the
// executable), plus optional environment overrides, stdin source, and
// working directory.
type Request struct {
	Argv  []string
	Env   []EnvVar
	Stdin StdinSource
	Dir   string
}

// Handle tracks one spawned child. The supervisor owns it exclusively;
// other layers read status and buffer snapshots and may request Kill.
type Handle struct {
	mu       sync.Mutex
	status   Status
	exitCode int
	spawnErr error
	killed   bool

	cmd   *exec.Cmd
	buf   OutputBuffer
	done  chan struct{}
	stdin io.Closer
}

// Spawn launches the child described by the request. The returned handle is
// never nil: on a pre-spawn rejection it stays NotStarted, on an exec
// failure it is left in SpawnFailed, otherwise it is Running with both
// output streams draining in the background.
func Spawn(req Request) (*Handle, error) {
	h := &Handle{done: make(chan struct{})}

	if len(req.Argv) == 0 {
		return h, ErrEmptyArgv
	}
	for _, env := range req.Env {
		if env.Key == "" {
			return h, ErrEmptyEnvKey
		}
	}

	cmd := exec.Command(req.Argv[0], req.Argv[1:]...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		env := os.Environ()
		for _, v := range req.Env {
			env = append(env, v.Key+"="+v.Value)
		}
		cmd.Env = env
	}

	if req.Stdin != nil {
		r, closer, err := req.Stdin.open()
		if err != nil {
			return h.failSpawn(err)
		}
		cmd.Stdin = r
		h.stdin = closer
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return h.failSpawn(fmt.Errorf("create stdout pipe: %w", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return h.failSpawn(fmt.Errorf("create stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		return h.failSpawn(fmt.Errorf("start process: %w", err))
	}

	h.cmd = cmd
	h.status = StatusRunning

	// One drainer per stream. Reading one must never block on the other,
	// so each owns its own goroutine and appends to the shared buffer.
	var readers sync.WaitGroup
	readers.Add(2)
	go h.drain(stdout, &readers)
	go h.drain(stderr, &readers)
	go h.wait(&readers)

	return h, nil
}

func (h *Handle) failSpawn(err error) (*Handle, error) {
	if h.stdin != nil {
		h.stdin.Close()
	}
	h.status = StatusSpawnFailed
	h.spawnErr = err
	close(h.done)
	return h, err
}

// drain copies one output stream into the shared buffer until EOF.
func (h *Handle) drain(r io.Reader, wg *sync.WaitGroup) {
	defer wg.Done()
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.buf.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// wait collects the exit state once both drainers finished, then publishes
// the terminal status.
func (h *Handle) wait(readers *sync.WaitGroup) {
	readers.Wait()
	err := h.cmd.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stdin != nil {
		h.stdin.Close()
		h.stdin = nil
	}

	switch {
	case h.killed:
		h.status = StatusKilled
	case err == nil:
		h.status = StatusExited
		h.exitCode = 0
	default:
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			h.status = StatusExited
			h.exitCode = exit.ExitCode()
		} else {
			// Wait itself failed; treat as an abnormal exit.
			h.status = StatusExited
			h.exitCode = -1
		}
	}
	close(h.done)
}

// Kill terminates a running child. It is idempotent: on a handle that
// already exited, was killed, or never started it is a no-op.
func (h *Handle) Kill() error {
	h.mu.Lock()
	if h.status != StatusRunning || h.killed {
		h.mu.Unlock()
		return nil
	}
	h.killed = true
	proc := h.cmd.Process
	h.mu.Unlock()

	if proc == nil {
		return nil
	}
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill process: %w", err)
	}
	return nil
}

// Status returns the current lifecycle state without blocking.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// IsRunning is a non-blocking liveness probe. The waiter goroutine flips
// the status the moment the child terminates, so no explicit Wait call is
// needed on the polling side.
func (h *Handle) IsRunning() bool {
	return h.Status() == StatusRunning
}

// ExitCode returns the child's exit code. Meaningful only once Status is
// StatusExited.
func (h *Handle) ExitCode() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exitCode
}

// SpawnError returns the failure that put the handle into SpawnFailed.
func (h *Handle) SpawnError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.spawnErr
}

// Output returns a snapshot of everything both streams produced so far.
// Bytes from one stream keep their order; interleaving between the two
// streams is timing-dependent.
func (h *Handle) Output() string {
	return h.buf.String()
}

// PID returns the child's process id, or 0 before a successful spawn.
func (h *Handle) PID() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd != nil && h.cmd.Process != nil {
		return h.cmd.Process.Pid
	}
	return 0
}

// Done returns a channel closed once the handle reaches a terminal state.
// Poll-free callers can select on it; the TUI just polls IsRunning.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
