package drops

// frameHandler is a registered per-frame callback.
type frameHandler struct {
	id uint32
	fn func()
}

// FrameClock fans one tick out to every attached per-frame callback, in
// registration order. Scene.Update calls Tick once per Ebitengine update.
type FrameClock struct {
	handlers []frameHandler
	running  []frameHandler
	nextID   uint32
	ticks    uint64
}

// FrameHandle allows removing a callback registered with FrameClock.Add.
type FrameHandle struct {
	id    uint32
	clock *FrameClock
}

// Add registers fn to run on every tick and returns a handle to remove it.
func (c *FrameClock) Add(fn func()) FrameHandle {
	c.nextID++
	c.handlers = append(c.handlers, frameHandler{id: c.nextID, fn: fn})
	return FrameHandle{id: c.nextID, clock: c}
}

// Remove unregisters the callback. Removing twice, or removing the zero
// handle, is a no-op.
func (h FrameHandle) Remove() {
	if h.clock == nil {
		return
	}
	s := h.clock.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = frameHandler{}
			h.clock.handlers = s[:len(s)-1]
			return
		}
	}
}

// Active reports whether the callback is still registered.
func (h FrameHandle) Active() bool {
	if h.clock == nil {
		return false
	}
	for i := range h.clock.handlers {
		if h.clock.handlers[i].id == h.id {
			return true
		}
	}
	return false
}

// Tick runs every registered callback once. Handlers added or removed during
// a tick take effect from the next tick.
func (c *FrameClock) Tick() {
	c.ticks++
	c.running = append(c.running[:0], c.handlers...)
	for i := range c.running {
		c.running[i].fn()
	}
	clear(c.running)
}

// Len returns the number of registered callbacks.
func (c *FrameClock) Len() int {
	return len(c.handlers)
}

// Ticks returns how many times Tick has been called.
func (c *FrameClock) Ticks() uint64 {
	return c.ticks
}
