package drops

import "testing"

type pointerRecorder struct {
	moves  []Vec2
	leaves int
}

func recordPointer(b *InputBridge) (*pointerRecorder, InputHandle, InputHandle) {
	r := &pointerRecorder{}
	hm := b.OnMove(func(p Vec2) { r.moves = append(r.moves, p) })
	hl := b.OnLeave(func() { r.leaves++ })
	return r, hm, hl
}

func TestCentred(t *testing.T) {
	tests := []struct {
		x, y float64
		w, h int
		want Vec2
	}{
		{960, 540, 1920, 1080, Vec2{0, 0}},
		{1060, 590, 1920, 1080, Vec2{100, 50}},
		{0, 0, 640, 480, Vec2{-320, -240}},
	}
	for _, tt := range tests {
		if got := centred(tt.x, tt.y, tt.w, tt.h); got != tt.want {
			t.Errorf("centred(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestUpdateMoveAndDedup(t *testing.T) {
	var b InputBridge
	r, _, _ := recordPointer(&b)

	b.update(1060, 590, 1920, 1080, true)
	b.update(1060, 590, 1920, 1080, true)
	if len(r.moves) != 1 {
		t.Fatalf("moves = %d, want 1", len(r.moves))
	}
	if r.moves[0] != (Vec2{100, 50}) {
		t.Errorf("move = %v, want {100 50}", r.moves[0])
	}
	if !b.Inside() || b.Last() != (Vec2{100, 50}) {
		t.Errorf("Inside = %v, Last = %v", b.Inside(), b.Last())
	}
}

func TestUpdateLeaveConditions(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		focused bool
	}{
		{"left of window", -1, 10, true},
		{"below window", 10, 480, true},
		{"right edge", 640, 10, true},
		{"unfocused", 10, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b InputBridge
			r, _, _ := recordPointer(&b)
			b.update(100, 100, 640, 480, true)
			b.update(tt.x, tt.y, 640, 480, tt.focused)
			if r.leaves != 1 {
				t.Errorf("leaves = %d, want 1", r.leaves)
			}
			if b.Inside() || b.Last() != (Vec2{}) {
				t.Error("pointer should be reset after leave")
			}
			// Staying outside does not repeat the leave.
			b.update(tt.x, tt.y, 640, 480, tt.focused)
			if r.leaves != 1 {
				t.Errorf("leaves = %d after repeat, want 1", r.leaves)
			}
		})
	}
}

func TestLeaveWithoutEnterIsSilent(t *testing.T) {
	var b InputBridge
	r, _, _ := recordPointer(&b)
	b.update(-5, -5, 640, 480, true)
	if r.leaves != 0 {
		t.Errorf("leaves = %d, want 0", r.leaves)
	}
}

func TestInputHandleRemove(t *testing.T) {
	var b InputBridge
	r, hm, hl := recordPointer(&b)
	hm.Remove()
	hl.Remove()
	hm.Remove()

	b.update(10, 10, 640, 480, true)
	b.update(-1, 10, 640, 480, true)
	if len(r.moves) != 0 || r.leaves != 0 {
		t.Errorf("removed handlers fired: moves=%d leaves=%d", len(r.moves), r.leaves)
	}

	var zero InputHandle
	zero.Remove()
}

func TestRemoveHandlerKeepsOthers(t *testing.T) {
	var b InputBridge
	var got []string
	b.OnMove(func(Vec2) { got = append(got, "a") })
	h := b.OnMove(func(Vec2) { got = append(got, "b") })
	b.OnMove(func(Vec2) { got = append(got, "c") })
	h.Remove()

	b.update(1, 1, 10, 10, true)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("handlers = %v, want [a c]", got)
	}
}

func TestInputBridgeReset(t *testing.T) {
	var b InputBridge
	r, _, _ := recordPointer(&b)
	b.update(10, 10, 640, 480, true)
	b.InjectPointer(1, 1)
	b.Reset()
	if b.Inside() || b.Pending() != 0 || b.Last() != (Vec2{}) {
		t.Error("Reset should clear pointer state and the queue")
	}
	b.update(10, 10, 640, 480, true)
	if len(r.moves) != 2 {
		t.Errorf("moves = %d, want 2 (handlers survive Reset)", len(r.moves))
	}
}
