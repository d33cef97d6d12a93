package drops

import "testing"

func TestFrameClockOrder(t *testing.T) {
	var c FrameClock
	var order []int
	c.Add(func() { order = append(order, 1) })
	c.Add(func() { order = append(order, 2) })
	c.Tick()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
	if c.Ticks() != 1 {
		t.Errorf("Ticks = %d, want 1", c.Ticks())
	}
}

func TestFrameHandleRemove(t *testing.T) {
	var c FrameClock
	n := 0
	h := c.Add(func() { n++ })
	c.Tick()
	if !h.Active() {
		t.Error("handle should be active")
	}
	h.Remove()
	h.Remove()
	c.Tick()
	if n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
	if h.Active() || c.Len() != 0 {
		t.Error("handle should be removed")
	}
}

func TestFrameHandleZeroValue(t *testing.T) {
	var h FrameHandle
	h.Remove()
	if h.Active() {
		t.Error("zero handle should not be active")
	}
}

func TestFrameClockMutationDuringTick(t *testing.T) {
	var c FrameClock
	var calls []string
	var second FrameHandle
	c.Add(func() {
		calls = append(calls, "first")
		second.Remove()
		c.Add(func() { calls = append(calls, "late") })
	})
	second = c.Add(func() { calls = append(calls, "second") })

	c.Tick()
	// Removal and addition apply from the next tick.
	if len(calls) != 2 || calls[1] != "second" {
		t.Fatalf("tick 1 calls = %v", calls)
	}
	calls = calls[:0]
	c.Tick()
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "late" {
		t.Errorf("tick 2 calls = %v", calls)
	}
}
