package session

import "os"

// ChildEnvVar is the reserved marker variable. When cmdesk runs in library
// mode it re-executes the current binary with this variable set; the
// re-entered process sees it, clears it, and skips straight to the wrapped
// program's own logic instead of opening the interactive form.
const ChildEnvVar = "CMDESK_CHILD"

// IsChildRun reports whether this invocation is the spawned child
// re-entering, clearing the marker so it does not leak further down.
func IsChildRun() bool {
	if _, ok := os.LookupEnv(ChildEnvVar); !ok {
		return false
	}
	os.Unsetenv(ChildEnvVar)
	return true
}
