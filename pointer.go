package drops

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Handler registry ---

type moveHandler struct {
	id uint32
	fn func(Vec2)
}

type leaveHandler struct {
	id uint32
	fn func()
}

type inputEvent uint8

const (
	inputMove inputEvent = iota
	inputLeave
)

// InputHandle allows removing a callback registered on an InputBridge.
type InputHandle struct {
	id     uint32
	bridge *InputBridge
	event  inputEvent
}

// Remove unregisters this callback so it no longer fires.
func (h InputHandle) Remove() {
	if h.bridge == nil {
		return
	}
	switch h.event {
	case inputMove:
		h.bridge.moves = removeHandler(h.bridge.moves, h.id, func(m moveHandler) uint32 { return m.id })
	case inputLeave:
		h.bridge.leaves = removeHandler(h.bridge.leaves, h.id, func(l leaveHandler) uint32 { return l.id })
	}
}

func removeHandler[T any](s []T, id uint32, idOf func(T) uint32) []T {
	for i := range s {
		if idOf(s[i]) == id {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Input bridge ---

// InputBridge reduces mouse and touch state to a single pointer expressed
// relative to the viewport centre. It emits a move whenever the pointer
// position changes inside the window, and a leave when the pointer exits the
// window, the window loses focus, or the last touch ends.
type InputBridge struct {
	moves  []moveHandler
	leaves []leaveHandler
	nextID uint32

	inside    bool
	lastX     int
	lastY     int
	touching  bool
	touchIDs  []ebiten.TouchID
	injectQ   []syntheticPointerEvent
	lastEvent Vec2
}

// OnMove registers fn to receive centred pointer positions.
func (b *InputBridge) OnMove(fn func(Vec2)) InputHandle {
	b.nextID++
	b.moves = append(b.moves, moveHandler{id: b.nextID, fn: fn})
	return InputHandle{id: b.nextID, bridge: b, event: inputMove}
}

// OnLeave registers fn to run when the pointer leaves the surface.
func (b *InputBridge) OnLeave(fn func()) InputHandle {
	b.nextID++
	b.leaves = append(b.leaves, leaveHandler{id: b.nextID, fn: fn})
	return InputHandle{id: b.nextID, bridge: b, event: inputLeave}
}

// Inside reports whether the pointer was over the surface at the last poll.
func (b *InputBridge) Inside() bool {
	return b.inside
}

// Last returns the most recent centred position emitted by a move.
func (b *InputBridge) Last() Vec2 {
	return b.lastEvent
}

// centred converts screen coordinates to an offset from the viewport centre.
func centred(x, y float64, w, h int) Vec2 {
	return Vec2{x - float64(w)/2, y - float64(h)/2}
}

// Poll reads one frame of input for a w x h surface. A queued synthetic
// event, if any, replaces real input for the frame.
func (b *InputBridge) Poll(w, h int) {
	if b.processInjected(w, h) {
		return
	}

	b.touchIDs = ebiten.AppendTouchIDs(b.touchIDs[:0])
	if len(b.touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(b.touchIDs[0])
		b.touching = true
		b.update(tx, ty, w, h, ebiten.IsFocused())
		return
	}
	if b.touching {
		// The finger lifted; the cursor position is stale until it moves.
		b.touching = false
		b.lastX, b.lastY = ebiten.CursorPosition()
		b.leave()
		return
	}

	mx, my := ebiten.CursorPosition()
	b.update(mx, my, w, h, ebiten.IsFocused())
}

// update applies one observed pointer position.
func (b *InputBridge) update(x, y, w, h int, focused bool) {
	in := focused && x >= 0 && y >= 0 && x < w && y < h
	if !in {
		b.lastX, b.lastY = x, y
		b.leave()
		return
	}
	if b.inside && x == b.lastX && y == b.lastY {
		return
	}
	b.inside = true
	b.lastX, b.lastY = x, y
	b.move(centred(float64(x), float64(y), w, h))
}

func (b *InputBridge) move(p Vec2) {
	b.lastEvent = p
	for i := range b.moves {
		b.moves[i].fn(p)
	}
}

// leave fires leave handlers once per exit.
func (b *InputBridge) leave() {
	if !b.inside {
		return
	}
	b.inside = false
	b.lastEvent = Vec2{}
	for i := range b.leaves {
		b.leaves[i].fn()
	}
}

// Reset forgets pointer state and drops queued synthetic events. Handlers
// stay registered.
func (b *InputBridge) Reset() {
	b.inside = false
	b.touching = false
	b.lastEvent = Vec2{}
	b.injectQ = b.injectQ[:0]
}
