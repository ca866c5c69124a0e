package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/estsyntax/internal/syntax"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("out.conll", []byte("x"), Params{Format: syntax.FormatCONLL})
	if job.ID == "" || len(job.ID) != 26 {
		t.Errorf("expected a 26 character id, got %q", job.ID)
	}
	if job.Status != StatusQueued || job.ContentHash != ContentHashHex([]byte("x")) {
		t.Errorf("unexpected job %+v", job.Snapshot())
	}
	if string(job.Data()) != "x" {
		t.Errorf("expected data to be kept, got %q", job.Data())
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{ID: "test-1", Status: StatusQueued, UpdatedAt: time.Now()}

	for _, s := range []JobStatus{StatusReading, StatusAligning, StatusNormalizing, StatusBuilding, StatusCompleted} {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(s, string(s))

		if job.Status != s || job.Phase != string(s) {
			t.Errorf("expected status %q, got %q (%q)", s, job.Status, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", s)
		}
	}
	if !job.Status.Done() || StatusAligning.Done() {
		t.Error("unexpected Done() result")
	}
}

func TestJob_SetResultReleasesData(t *testing.T) {
	job := NewJob("a.cg3", []byte("data"), Params{Format: syntax.FormatCG3})
	job.SetResult(&Result{Records: make([]syntax.Record, 3)})

	if job.Data() != nil {
		t.Error("expected data to be released")
	}
	snap := job.Snapshot()
	if snap.Progress.Words != 3 || snap.Progress.Sentences != 0 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
	if snap.Format != "vislcg3" {
		t.Errorf("expected format vislcg3, got %q", snap.Format)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("aligning: sentence 3")
	job.AddError("normalizing: sentence 7")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "aligning: sentence 3" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil || len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty non-nil errors, got %v", snap.Progress.Errors)
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Put(&Job{ID: "store-1", UpdatedAt: time.Now()})

	got := store.Get("store-1")
	if got == nil || got.ID != "store-1" {
		t.Fatalf("expected to get job back, got %v", got)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)
	store.Put(&Job{ID: "old", UpdatedAt: time.Now()})

	time.Sleep(100 * time.Millisecond)
	store.Put(&Job{ID: "new", UpdatedAt: time.Now()})
	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestNewJobID_OrderedAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 100; i++ {
		id := NewJobID()
		if len(id) != 26 {
			t.Fatalf("expected 26 characters, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		if id < prev {
			t.Errorf("id %q sorts before previous %q", id, prev)
		}
		seen[id] = true
		prev = id
	}
}

func TestEncodeULID(t *testing.T) {
	var zero [16]byte
	if got := encodeULID(zero); got != "00000000000000000000000000" {
		t.Errorf("unexpected zero encoding %q", got)
	}
	var ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	if got := encodeULID(ones); got != "7ZZZZZZZZZZZZZZZZZZZZZZZZZ" {
		t.Errorf("unexpected max encoding %q", got)
	}
}
