package drops

// syntheticPointerEvent represents a single injected pointer event, in
// screen coordinates like real cursor input.
type syntheticPointerEvent struct {
	screenX, screenY float64
	leave            bool
}

// InjectPointer queues a pointer move to the given screen coordinates. The
// event is consumed on the next Poll, in place of real input.
func (b *InputBridge) InjectPointer(x, y float64) {
	b.injectQ = append(b.injectQ, syntheticPointerEvent{screenX: x, screenY: y})
}

// InjectLeave queues a leave event.
func (b *InputBridge) InjectLeave() {
	b.injectQ = append(b.injectQ, syntheticPointerEvent{leave: true})
}

// InjectPath queues a linear pointer path from (fromX, fromY) to (toX, toY)
// over the given number of frames, both endpoints included. Minimum frames
// is 2.
func (b *InputBridge) InjectPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		b.InjectPointer(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// Pending returns the number of queued synthetic events.
func (b *InputBridge) Pending() int {
	return len(b.injectQ)
}

// processInjected pops one synthetic event and feeds it through the same
// path as real input. Returns true if an event was consumed.
func (b *InputBridge) processInjected(w, h int) bool {
	if len(b.injectQ) == 0 {
		return false
	}
	evt := b.injectQ[0]
	copy(b.injectQ, b.injectQ[1:])
	b.injectQ = b.injectQ[:len(b.injectQ)-1]

	if evt.leave {
		b.leave()
		return true
	}
	if evt.screenX < 0 || evt.screenY < 0 || evt.screenX >= float64(w) || evt.screenY >= float64(h) {
		b.leave()
		return true
	}
	// Synthetic moves always fire, even when the position repeats.
	b.inside = true
	b.move(centred(evt.screenX, evt.screenY, w, h))
	return true
}
