package tracker

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeDeleter struct {
	mu      sync.Mutex
	deleted []int
}

func (f *fakeDeleter) Delete(_ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeDeleter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

func TestClearImmediate(t *testing.T) {
	d := &fakeDeleter{}
	tr := New(d)
	tr.Track(1, 100, 10)
	tr.Track(1, 100, 11)
	tr.Clear(context.Background(), 1, 0)
	if got := d.count(); got != 2 {
		t.Fatalf("deleted %d messages, want 2", got)
	}
	// Second clear is a no-op
	tr.Clear(context.Background(), 1, 0)
	if got := d.count(); got != 2 {
		t.Fatalf("deleted %d messages after repeat, want 2", got)
	}
}

func TestClearDelayed(t *testing.T) {
	d := &fakeDeleter{}
	tr := New(d)
	tr.Track(1, 100, 10)
	tr.Clear(context.Background(), 1, 20*time.Millisecond)
	if got := d.count(); got != 0 {
		t.Fatalf("deleted %d messages before delay", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for d.count() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("delayed deletion did not fire")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCancelPendingFlushes(t *testing.T) {
	d := &fakeDeleter{}
	tr := New(d)
	tr.Track(1, 100, 10)
	tr.Clear(context.Background(), 1, time.Hour)
	if got := d.count(); got != 0 {
		t.Fatalf("deleted %d messages before flush", got)
	}

	tr.CancelPending(context.Background(), 1)
	if got := d.count(); got != 1 {
		t.Fatalf("deleted %d messages after flush, want 1", got)
	}
	// Nothing pending any more
	tr.CancelPending(context.Background(), 1)
	if got := d.count(); got != 1 {
		t.Fatalf("deleted %d messages after repeat flush, want 1", got)
	}
}

func TestUsersIsolated(t *testing.T) {
	d := &fakeDeleter{}
	tr := New(d)
	tr.Track(1, 100, 10)
	tr.Track(2, 200, 20)
	tr.Clear(context.Background(), 1, 0)
	if got := d.count(); got != 1 {
		t.Fatalf("deleted %d messages, want 1", got)
	}
}
