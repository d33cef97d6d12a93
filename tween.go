package drops

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates one float64 field. Call Update(dt) each frame; the
// group writes the value through and marks the target node dirty. If the
// target node is disposed, the group stops immediately.
type TweenGroup struct {
	tween    *gween.Tween
	field    *float64
	target   *Node
	onUpdate func()
	Done     bool
}

// Update advances the tween by dt seconds and writes the value.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	val, finished := g.tween.Update(dt)
	*g.field = float64(val)
	g.Done = finished

	if g.target != nil {
		g.target.MarkDirty()
	}
	if g.onUpdate != nil {
		g.onUpdate()
	}
}

// Cancel stops the group where it is.
func (g *TweenGroup) Cancel() {
	g.Done = true
}

// TweenAlpha creates a TweenGroup that animates node.Alpha to the target value
// over the specified duration using the easing function.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return &TweenGroup{
		tween:  gween.New(float32(node.Alpha), float32(to), duration, fn),
		field:  &node.Alpha,
		target: node,
	}
}

// TweenValue animates *field from its current value to to, calling onUpdate
// after every write. onUpdate may be nil.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc, onUpdate func()) *TweenGroup {
	return &TweenGroup{
		tween:    gween.New(float32(*field), float32(to), duration, fn),
		field:    field,
		onUpdate: onUpdate,
	}
}

// tweenSet runs a list of groups and drops finished ones.
type tweenSet struct {
	groups []*TweenGroup
}

func (s *tweenSet) add(g *TweenGroup) {
	s.groups = append(s.groups, g)
}

func (s *tweenSet) update(dt float32) {
	live := s.groups[:0]
	for _, g := range s.groups {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.groups[len(live):])
	s.groups = live
}

func (s *tweenSet) clear() {
	clear(s.groups)
	s.groups = s.groups[:0]
}

func (s *tweenSet) len() int {
	return len(s.groups)
}
