package scheduler

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEngineStressConcurrentSchedule(t *testing.T) {
	engine := NewEngine(4096)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 200
	total := workers * perWorker

	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				delay := time.Duration((w+i)%50+10) * time.Millisecond
				ev := Event{
					Kind:  KindDue,
					Title: fmt.Sprintf("w%d-%d", w, i),
					At:    now.Add(delay),
				}
				if err := engine.Schedule(ev); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	deadline := time.After(5 * time.Second)
	var received int64
	for atomic.LoadInt64(&received) < int64(total) {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting events: received=%d total=%d dropped=%d", received, total, engine.Dropped())
		case <-engine.C():
			atomic.AddInt64(&received, 1)
		}
	}

	if got := int(received); got != total {
		t.Fatalf("unexpected received count: got=%d want=%d", got, total)
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", engine.Dropped())
	}
}

func TestEngineStressResetDuringSchedule(t *testing.T) {
	engine := NewEngine(1024)
	engine.Start()
	defer engine.Stop()

	far := time.Now().Add(time.Hour)
	const workers = 6
	var wg sync.WaitGroup
	wg.Add(workers + 1)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				ev := Event{Kind: KindDue, Title: fmt.Sprintf("w%d-%d", w, i), At: far.Add(time.Duration(i) * time.Second)}
				if err := engine.Schedule(ev); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
			}
		}()
	}
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			plan := []Event{{Kind: KindRollover, At: far}, {Kind: KindDue, Title: "zero"}}
			if err := engine.Reset(plan); err != nil {
				t.Errorf("reset failed: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	const want = 40
	now := time.Now()
	plan := make([]Event, 0, want)
	for i := 0; i < want; i++ {
		plan = append(plan, Event{Kind: KindDue, Title: fmt.Sprintf("final-%d", i), At: now.Add(time.Duration(i%10+5) * time.Millisecond)})
	}
	if err := engine.Reset(plan); err != nil {
		t.Fatalf("final reset: %v", err)
	}

	seen := make(map[string]bool, want)
	deadline := time.After(5 * time.Second)
	for len(seen) < want {
		select {
		case <-deadline:
			t.Fatalf("timeout: got %d of %d, pending=%d dropped=%d", len(seen), want, engine.Pending(), engine.Dropped())
		case ev := <-engine.C():
			if !strings.HasPrefix(ev.Title, "final-") {
				t.Fatalf("event %q survived the final reset", ev.Title)
			}
			seen[ev.Title] = true
		}
	}
	if p := engine.Pending(); p != 0 {
		t.Fatalf("expected empty queue after drain, pending=%d", p)
	}
	select {
	case ev := <-engine.C():
		t.Fatalf("unexpected extra event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
