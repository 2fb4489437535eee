package query

import (
	"sync"
	"testing"
	"time"
)

// recorder collects fired values behind a lock.
type recorder struct {
	mu    sync.Mutex
	fired []string
}

func (r *recorder) fire(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, v)
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fired...)
}

func TestRapidEditsCoalesceToFinalValue(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.fire)

	for _, v := range []string{"n", "na", "nar", "naru", "naruto"} {
		d.Set(v)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	got := rec.values()
	if len(got) != 1 {
		t.Fatalf("expected exactly one delivery, got %v", got)
	}
	if got[0] != "naruto" {
		t.Fatalf("expected final value, got %q", got[0])
	}
}

func TestSupersededValueNeverDeliveredLate(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.fire)

	d.Set("old")
	time.Sleep(15 * time.Millisecond) // timer about to fire
	d.Set("new")

	time.Sleep(80 * time.Millisecond)

	for _, v := range rec.values() {
		if v == "old" {
			t.Fatal("superseded value was delivered")
		}
	}
	if got := rec.values(); len(got) != 1 || got[0] != "new" {
		t.Fatalf("expected single delivery of new value, got %v", got)
	}
}

func TestCancelSuppressesPending(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.fire)

	d.Set("doomed")
	d.Cancel()

	time.Sleep(60 * time.Millisecond)

	if got := rec.values(); len(got) != 0 {
		t.Fatalf("cancelled delivery still fired: %v", got)
	}
}

func TestFlushDeliversImmediately(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(time.Hour, rec.fire)

	d.Set("now")
	d.Flush()

	if got := rec.values(); len(got) != 1 || got[0] != "now" {
		t.Fatalf("flush should deliver synchronously, got %v", got)
	}

	// The stopped timer must not deliver a second time.
	time.Sleep(30 * time.Millisecond)
	if got := rec.values(); len(got) != 1 {
		t.Fatalf("flush double-delivered: %v", got)
	}
}

func TestDefaultQuietApplied(t *testing.T) {
	d := NewDebouncer(0, func(string) {})
	if d.quiet != DefaultQuiet {
		t.Fatalf("expected default quiet interval, got %v", d.quiet)
	}
}
