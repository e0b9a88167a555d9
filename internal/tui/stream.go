package tui

import (
	"strings"
	"sync"
)

// DefaultBufferSize is the default line capacity for the ring buffer.
const DefaultBufferSize = 10000

// RingBuffer provides fixed-size line storage with O(1) appends. When the
// buffer is full, the oldest lines are discarded.
type RingBuffer struct {
	data  []string
	size  int
	head  int // next write position
	tail  int // oldest stored line
	count int
}

// NewRingBuffer returns a buffer holding at most capacity lines.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &RingBuffer{
		data: make([]string, capacity),
		size: capacity,
	}
}

// Append adds a line. If the buffer is full, the oldest line is overwritten.
func (rb *RingBuffer) Append(line string) {
	rb.data[rb.head] = line
	rb.head = (rb.head + 1) % rb.size

	if rb.count < rb.size {
		rb.count++
	} else {
		rb.tail = (rb.tail + 1) % rb.size
	}
}

// Lines returns all lines in order from oldest to newest.
func (rb *RingBuffer) Lines() []string {
	if rb.count == 0 {
		return nil
	}
	result := make([]string, rb.count)
	for i := 0; i < rb.count; i++ {
		result[i] = rb.data[(rb.tail+i)%rb.size]
	}
	return result
}

// Count returns the number of lines currently stored.
func (rb *RingBuffer) Count() int {
	return rb.count
}

// Clear removes all lines.
func (rb *RingBuffer) Clear() {
	rb.head = 0
	rb.tail = 0
	rb.count = 0
}

// Capacity returns the maximum number of lines the buffer can hold.
func (rb *RingBuffer) Capacity() int {
	return rb.size
}

// OutputStream turns the supervisor's cumulative output into a line-capped
// view. Each Feed receives the full output captured so far; only the delta
// since the previous call is consumed, split into complete lines, and
// appended to the ring buffer. A trailing partial line is held back until
// its newline arrives or Flush is called.
type OutputStream struct {
	mu       sync.Mutex
	buffer   *RingBuffer
	partial  strings.Builder
	consumed int
}

// NewOutputStream creates an OutputStream capped at the given line count.
func NewOutputStream(lineCap int) *OutputStream {
	return &OutputStream{buffer: NewRingBuffer(lineCap)}
}

// Feed consumes the unread tail of the cumulative output. It reports
// whether any new content arrived. A full string shorter than what was
// already consumed means a new run started; the stream resets.
func (os *OutputStream) Feed(full string) bool {
	os.mu.Lock()
	defer os.mu.Unlock()

	if len(full) < os.consumed {
		os.buffer.Clear()
		os.partial.Reset()
		os.consumed = 0
	}
	if len(full) == os.consumed {
		return false
	}

	os.partial.WriteString(full[os.consumed:])
	os.consumed = len(full)

	buffered := os.partial.String()
	for {
		idx := strings.Index(buffered, "\n")
		if idx == -1 {
			break
		}
		os.buffer.Append(buffered[:idx])
		buffered = buffered[idx+1:]
	}
	os.partial.Reset()
	os.partial.WriteString(buffered)
	return true
}

// Flush moves any held-back partial line into the ring buffer. It reports
// whether a line was appended.
func (os *OutputStream) Flush() bool {
	os.mu.Lock()
	defer os.mu.Unlock()
	if os.partial.Len() == 0 {
		return false
	}
	os.buffer.Append(os.partial.String())
	os.partial.Reset()
	return true
}

// Lines returns the buffered lines, oldest first.
func (os *OutputStream) Lines() []string {
	os.mu.Lock()
	defer os.mu.Unlock()
	return os.buffer.Lines()
}

// LineCount returns the number of buffered lines.
func (os *OutputStream) LineCount() int {
	os.mu.Lock()
	defer os.mu.Unlock()
	return os.buffer.Count()
}

// Reset clears the stream for a fresh run.
func (os *OutputStream) Reset() {
	os.mu.Lock()
	defer os.mu.Unlock()
	os.buffer.Clear()
	os.partial.Reset()
	os.consumed = 0
}
