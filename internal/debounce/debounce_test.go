package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	var calls atomic.Int32
	var last atomic.Int32
	done := make(chan struct{}, 1)

	d := New(50*time.Millisecond, func(v int) {
		calls.Add(1)
		last.Store(int32(v))
		done <- struct{}{}
	})

	for i := 1; i <= 5; i++ {
		d.Call(i)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}
	// Leave room for a stray second invocation to show up.
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("argument = %d, want 5 (last call)", got)
	}
}

func TestDebouncerSeparatedCallsBothRun(t *testing.T) {
	var calls atomic.Int32
	d := New(20*time.Millisecond, func(struct{}) { calls.Add(1) })

	d.Call(struct{}{})
	time.Sleep(80 * time.Millisecond)
	d.Call(struct{}{})
	time.Sleep(80 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := New(30*time.Millisecond, func(struct{}) { calls.Add(1) })

	d.Call(struct{}{})
	if !d.Stop() {
		t.Error("Stop() = false, want true for pending call")
	}
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0 after Stop", got)
	}
	if d.Stop() {
		t.Error("Stop() = true with nothing pending")
	}
}

func TestKeyedDebouncesPerKey(t *testing.T) {
	var mu sync.Mutex
	got := make(map[string][]int)
	var wg sync.WaitGroup
	wg.Add(2)

	k := NewKeyed(40*time.Millisecond, func(key string, v int) {
		mu.Lock()
		got[key] = append(got[key], v)
		mu.Unlock()
		wg.Done()
	})

	k.Call("a", 1)
	k.Call("b", 10)
	k.Call("a", 2)
	k.Call("b", 20)
	k.Call("a", 3)

	waitCh := make(chan struct{})
	go func() { wg.Wait(); close(waitCh) }()
	select {
	case <-waitCh:
	case <-time.After(time.Second):
		t.Fatal("keyed debouncer did not fire for both keys")
	}
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got["a"]) != 1 || got["a"][0] != 3 {
		t.Errorf("key a invocations = %v, want [3]", got["a"])
	}
	if len(got["b"]) != 1 || got["b"][0] != 20 {
		t.Errorf("key b invocations = %v, want [20]", got["b"])
	}
}

func TestKeyedFreesKeyAfterInvocation(t *testing.T) {
	done := make(chan string, 100)
	k := NewKeyed(200*time.Millisecond, func(key string, _ int) { done <- key })

	for i := range 50 {
		k.Call(string(rune('a'+i%26))+string(rune('A'+i/26)), i)
	}
	if got := k.Pending(); got != 50 {
		t.Fatalf("Pending = %d, want 50", got)
	}

	for range 50 {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("keyed debouncer did not fire for every key")
		}
	}
	if got := k.Pending(); got != 0 {
		t.Errorf("Pending after firing = %d, want 0", got)
	}
}

func TestKeyedStopDropsPending(t *testing.T) {
	var calls atomic.Int32
	k := NewKeyed(20*time.Millisecond, func(string, int) { calls.Add(1) })

	k.Call("a", 1)
	k.Call("b", 2)
	k.Stop()

	if got := k.Pending(); got != 0 {
		t.Errorf("Pending after Stop = %d, want 0", got)
	}
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0 after Stop", got)
	}

	k.Call("a", 3)
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 for a Call after Stop", got)
	}
}
