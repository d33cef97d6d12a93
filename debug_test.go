package drops

import "testing"

func TestDebugCheckDisposed(t *testing.T) {
	n := NewContainer("live")
	debugCheckDisposed(n, "test")

	n.Dispose()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if msg, _ := r.(string); msg != `drops debug: test on disposed node "live"` {
			t.Errorf("panic = %v", r)
		}
	}()
	debugCheckDisposed(n, "test")
}

func TestDebugfSilentWhenOff(t *testing.T) {
	var s Scene
	// Must not touch stderr or panic with debug off.
	s.debugf("value %d", 1)
	s.debugLog(debugStats{})
}
