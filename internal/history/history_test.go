package history

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	id, err := s.RecordStart([]string{"echo", "hello"}, "/tmp", started)
	if err != nil {
		t.Fatalf("RecordStart: %v", err)
	}
	if err := s.RecordFinish(id, "exited", 0, started.Add(time.Second)); err != nil {
		t.Fatalf("RecordFinish: %v", err)
	}

	id2, err := s.RecordStart([]string{"sleep", "30"}, "", started.Add(time.Minute))
	if err != nil {
		t.Fatalf("RecordStart: %v", err)
	}
	if err := s.RecordFinish(id2, "killed", -1, started.Add(2*time.Minute)); err != nil {
		t.Fatalf("RecordFinish: %v", err)
	}

	runs, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	// Newest first.
	if runs[0].Status != "killed" {
		t.Errorf("runs[0].Status = %q, want killed", runs[0].Status)
	}
	if !reflect.DeepEqual(runs[1].Argv, []string{"echo", "hello"}) {
		t.Errorf("runs[1].Argv = %v", runs[1].Argv)
	}
	if runs[1].Dir != "/tmp" {
		t.Errorf("runs[1].Dir = %q", runs[1].Dir)
	}
	if runs[1].ExitCode != 0 {
		t.Errorf("runs[1].ExitCode = %d", runs[1].ExitCode)
	}
	if !runs[1].StartedAt.Equal(started) {
		t.Errorf("runs[1].StartedAt = %v, want %v", runs[1].StartedAt, started)
	}
	if runs[1].FinishedAt == nil || !runs[1].FinishedAt.Equal(started.Add(time.Second)) {
		t.Errorf("runs[1].FinishedAt = %v", runs[1].FinishedAt)
	}
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		if _, err := s.RecordStart([]string{"true"}, "", time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestPurgeOlderThan(t *testing.T) {
	s := openTestStore(t)

	old := time.Now().Add(-48 * time.Hour)
	if _, err := s.RecordStart([]string{"old"}, "", old); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordStart([]string{"new"}, "", time.Now()); err != nil {
		t.Fatal(err)
	}

	purged, err := s.PurgeOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOlderThan: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}

	runs, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Argv[0] != "new" {
		t.Errorf("unexpected surviving runs: %+v", runs)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := s.RecordStart([]string{"x"}, "", time.Now()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()
	runs, err := s2.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected data to survive reopen, got %d runs", len(runs))
	}
}
