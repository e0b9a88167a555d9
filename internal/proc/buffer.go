package proc

import (
	"strings"
	"sync"
)

// OutputBuffer is the shared, append-only text buffer a handle's two pipe
// drainers write into. At most two writers and one snapshotting reader touch
// it, so a single mutex is enough.
type OutputBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

// Write appends decoded output. It implements io.Writer so a drainer can
// io.Copy straight into the buffer.
func (ob *OutputBuffer) Write(p []byte) (int, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.b.Write(p)
}

// String returns a snapshot of everything appended so far.
func (ob *OutputBuffer) String() string {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.b.String()
}

// Len returns the number of bytes appended so far.
func (ob *OutputBuffer) Len() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.b.Len()
}
