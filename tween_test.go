package drops

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenAlphaReachesTarget(t *testing.T) {
	n := NewContainer("n")
	n.Alpha = 0
	g := TweenAlpha(n, 0.8, 1, ease.Linear)

	g.Update(0.5)
	if g.Done {
		t.Fatal("should not be done halfway")
	}
	if n.Alpha <= 0 || n.Alpha >= 0.8 {
		t.Errorf("halfway alpha = %v", n.Alpha)
	}
	if !n.transformDirty {
		t.Error("tween should mark the node dirty")
	}

	g.Update(0.6)
	if !g.Done {
		t.Error("should be done")
	}
	if diff := n.Alpha - 0.8; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("final alpha = %v, want 0.8", n.Alpha)
	}
}

func TestTweenStopsOnDisposedTarget(t *testing.T) {
	n := NewContainer("n")
	n.Alpha = 0
	g := TweenAlpha(n, 1, 1, ease.Linear)
	n.Dispose()
	g.Update(0.5)
	if !g.Done {
		t.Error("tween on a disposed node should stop")
	}
}

func TestTweenValueCallsOnUpdate(t *testing.T) {
	v := 0.0
	calls := 0
	g := TweenValue(&v, 30, 0.2, ease.InOutSine, func() { calls++ })
	for !g.Done {
		g.Update(0.05)
	}
	if calls < 4 {
		t.Errorf("onUpdate calls = %d, want >= 4", calls)
	}
	if diff := v - 30; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("value = %v, want 30", v)
	}
}

func TestTweenCancel(t *testing.T) {
	v := 0.0
	g := TweenValue(&v, 10, 1, ease.Linear, nil)
	g.Cancel()
	g.Update(0.5)
	if v != 0 {
		t.Errorf("cancelled tween wrote %v", v)
	}
}

func TestTweenSetDropsFinished(t *testing.T) {
	var s tweenSet
	a, b := 0.0, 0.0
	s.add(TweenValue(&a, 1, 0.1, ease.Linear, nil))
	s.add(TweenValue(&b, 1, 1, ease.Linear, nil))
	s.update(0.2)
	if s.len() != 1 {
		t.Errorf("len = %d, want 1", s.len())
	}
	s.clear()
	if s.len() != 0 {
		t.Error("clear should empty the set")
	}
}
