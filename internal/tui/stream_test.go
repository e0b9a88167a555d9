package tui

import (
	"reflect"
	"testing"
)

func TestRingBufferAppendAndLines(t *testing.T) {
	rb := NewRingBuffer(3)

	rb.Append("a")
	rb.Append("b")
	if got := rb.Lines(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Lines() = %v, want [a b]", got)
	}

	rb.Append("c")
	rb.Append("d")
	if got := rb.Lines(); !reflect.DeepEqual(got, []string{"b", "c", "d"}) {
		t.Errorf("Lines() after overflow = %v, want [b c d]", got)
	}
	if rb.Count() != 3 {
		t.Errorf("Count() = %d, want 3", rb.Count())
	}
}

func TestRingBufferClear(t *testing.T) {
	rb := NewRingBuffer(2)
	rb.Append("x")
	rb.Clear()

	if rb.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", rb.Count())
	}
	if rb.Lines() != nil {
		t.Errorf("Lines() after Clear = %v, want nil", rb.Lines())
	}
}

func TestRingBufferDefaultCapacity(t *testing.T) {
	rb := NewRingBuffer(0)
	if rb.Capacity() != DefaultBufferSize {
		t.Errorf("Capacity() = %d, want %d", rb.Capacity(), DefaultBufferSize)
	}
}

func TestOutputStreamFeedConsumesDelta(t *testing.T) {
	os := NewOutputStream(10)

	if !os.Feed("one\ntwo") {
		t.Fatal("Feed() with new content = false, want true")
	}
	if got := os.Lines(); !reflect.DeepEqual(got, []string{"one"}) {
		t.Errorf("Lines() = %v, want [one]", got)
	}

	// Same cumulative string again: nothing new.
	if os.Feed("one\ntwo") {
		t.Error("Feed() with no new content = true, want false")
	}

	// The partial line completes and a third begins.
	if !os.Feed("one\ntwo\nthree\npart") {
		t.Fatal("Feed() with delta = false, want true")
	}
	if got := os.Lines(); !reflect.DeepEqual(got, []string{"one", "two", "three"}) {
		t.Errorf("Lines() = %v, want [one two three]", got)
	}

	if !os.Flush() {
		t.Error("Flush() with a held-back partial = false, want true")
	}
	if got := os.Lines(); !reflect.DeepEqual(got, []string{"one", "two", "three", "part"}) {
		t.Errorf("Lines() after Flush = %v, want trailing partial included", got)
	}
	if os.Flush() {
		t.Error("Flush() with nothing held back = true, want false")
	}
}

func TestOutputStreamResetOnShorterInput(t *testing.T) {
	os := NewOutputStream(10)
	os.Feed("old run output\n")

	// A shorter cumulative string means a fresh run replaced the handle.
	os.Feed("new\n")
	if got := os.Lines(); !reflect.DeepEqual(got, []string{"new"}) {
		t.Errorf("Lines() after shorter feed = %v, want [new]", got)
	}
}

func TestOutputStreamLineCap(t *testing.T) {
	os := NewOutputStream(2)
	os.Feed("1\n2\n3\n")

	if got := os.Lines(); !reflect.DeepEqual(got, []string{"2", "3"}) {
		t.Errorf("Lines() = %v, want capped to [2 3]", got)
	}
}
