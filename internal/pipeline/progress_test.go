package pipeline

import (
	"sync"
	"testing"
)

func TestProgressIdle(t *testing.T) {
	var p Progress

	processed, total := p.Snapshot()
	if processed != 0 || total != 0 {
		t.Errorf("idle Snapshot() = %d/%d, want 0/0", processed, total)
	}
	if !p.Done() {
		t.Error("idle progress should report done so streams terminate immediately")
	}
}

func TestProgressLifecycle(t *testing.T) {
	var p Progress

	p.Reset(3)
	if p.Done() {
		t.Error("Done() = true right after Reset(3)")
	}

	p.Step()
	p.Step()
	processed, total := p.Snapshot()
	if processed != 2 || total != 3 {
		t.Errorf("Snapshot() = %d/%d, want 2/3", processed, total)
	}

	p.Step()
	if !p.Done() {
		t.Error("Done() = false after all steps")
	}

	p.Reset(1)
	processed, total = p.Snapshot()
	if processed != 0 || total != 1 {
		t.Errorf("Snapshot() after second Reset = %d/%d, want 0/1", processed, total)
	}
}

func TestProgressConcurrentSteps(t *testing.T) {
	var p Progress
	p.Reset(100)

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Step()
		}()
	}
	wg.Wait()

	processed, total := p.Snapshot()
	if processed != 100 || total != 100 {
		t.Errorf("Snapshot() = %d/%d, want 100/100", processed, total)
	}
}
