package cache

import (
	"context"
	"testing"
)

func TestPassthrough_AlwaysLoads(t *testing.T) {
	c := NewPassthrough[string, int]()
	calls := 0
	load := func(context.Context) (int, bool, error) {
		calls++
		return 42, true, nil
	}

	for i := 0; i < 3; i++ {
		v, ok, err := c.GetOrLoad(context.Background(), "a", load)
		if err != nil || !ok || v != 42 {
			t.Fatalf("unexpected result: %v %v %v", v, ok, err)
		}
	}
	if calls != 3 {
		t.Errorf("expected loader called every time, got %d calls", calls)
	}
}

func TestInMemory_MemoizesSuccessfulLoad(t *testing.T) {
	c := NewInMemory[string, int](0)
	calls := 0
	load := func(context.Context) (int, bool, error) {
		calls++
		return 7, true, nil
	}

	for i := 0; i < 3; i++ {
		v, ok, err := c.GetOrLoad(context.Background(), "a", load)
		if err != nil || !ok || v != 7 {
			t.Fatalf("unexpected result: %v %v %v", v, ok, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected loader called once, got %d calls", calls)
	}
}

func TestInMemory_MissNotMemoized(t *testing.T) {
	c := NewInMemory[string, int](0)
	calls := 0
	load := func(context.Context) (int, bool, error) {
		calls++
		return 0, false, nil
	}

	c.GetOrLoad(context.Background(), "a", load)
	c.GetOrLoad(context.Background(), "a", load)

	if calls != 2 {
		t.Errorf("expected loader re-invoked on every miss, got %d calls", calls)
	}
}

func TestInMemory_RemoveAndClear(t *testing.T) {
	c := NewInMemory[string, int](0)
	c.Add("a", 1)
	c.Add("b", 2)

	c.Remove("a")
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after remove, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected 0 entries after clear, got %d", c.Len())
	}
}

func TestInMemory_CapacityEvictsOldestFirst(t *testing.T) {
	c := NewInMemory[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	if c.Len() != 2 {
		t.Fatalf("expected capacity enforced at 2, got %d", c.Len())
	}
	if _, ok, _ := c.GetOrLoad(context.Background(), "a", func(context.Context) (int, bool, error) {
		return 0, false, nil
	}); ok {
		t.Error("expected oldest entry 'a' to have been evicted")
	}
	if _, ok := c.entries["c"]; !ok {
		t.Error("expected most recently added entry 'c' to remain cached")
	}
}
