package drops

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constructor defaults ---

func TestNewContainerDefaults(t *testing.T) {
	n := NewContainer("test")
	assertNodeDefaults(t, n, "test", NodeTypeContainer)
}

func TestNewSpriteDefaults(t *testing.T) {
	img := ebiten.NewImage(32, 16)
	n := NewSprite("spr", img)
	assertNodeDefaults(t, n, "spr", NodeTypeSprite)
	if n.Image() != img {
		t.Error("Image() should return the constructor image")
	}
	w, h := n.Size()
	if w != 32 || h != 16 {
		t.Errorf("Size = (%v, %v), want (32, 16)", w, h)
	}
}

func TestNewSpriteNilImage(t *testing.T) {
	n := NewSprite("empty", nil)
	if w, h := n.Size(); w != 0 || h != 0 {
		t.Errorf("Size = (%v, %v), want (0, 0)", w, h)
	}
}

func TestNewRect(t *testing.T) {
	n := NewRect("bg", 1920, 1080, ColorNeutralNormal)
	if n.Image() != WhitePixel {
		t.Error("NewRect should render WhitePixel")
	}
	if n.ScaleX != 1920 || n.ScaleY != 1080 {
		t.Errorf("Scale = (%v, %v), want (1920, 1080)", n.ScaleX, n.ScaleY)
	}
	if n.Color != ColorNeutralNormal {
		t.Errorf("Color = %v, want neutral normal", n.Color)
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %d, want %d", n.Type, typ)
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", n.Alpha)
	}
	if n.Color != ColorWhite {
		t.Errorf("Color = %v, want white", n.Color)
	}
	if !n.Visible {
		t.Error("Visible should be true")
	}
	if !n.transformDirty {
		t.Error("transformDirty should be true")
	}
}

func TestUniqueIDs(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	c := NewSprite("c", nil)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

// --- AddChild / RemoveChild ---

func TestAddChildBasic(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 || parent.Children()[0] != child {
		t.Errorf("Children = %v", parent.Children())
	}
}

func TestAddChildReparent(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	child := NewContainer("child")

	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 || child.Parent != p2 {
		t.Error("child should belong to p2")
	}
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewContainer("p").AddChild(nil)
}

func TestAddChildCyclePanics(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	b.AddChild(a)
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	a.RemoveChild(b)
}

func TestRemoveFromParent(t *testing.T) {
	p := NewContainer("p")
	c1 := NewContainer("c1")
	c2 := NewContainer("c2")
	p.AddChild(c1)
	p.AddChild(c2)

	c1.RemoveFromParent()
	if p.NumChildren() != 1 || p.Children()[0] != c2 {
		t.Errorf("Children after removal = %v", p.Children())
	}
	if c1.Parent != nil {
		t.Error("c1.Parent should be nil")
	}
	// No parent: no-op.
	c1.RemoveFromParent()
}

// --- Dispose ---

func TestDisposeRecursive(t *testing.T) {
	root := NewContainer("root")
	mid := NewContainer("mid")
	leaf := NewSprite("leaf", ebiten.NewImage(2, 2))
	leaf.Filters = []Filter{NewDisplacementFilter(nil, 0)}
	root.AddChild(mid)
	mid.AddChild(leaf)

	mid.Dispose()
	if root.NumChildren() != 0 {
		t.Error("disposed node should be detached from its parent")
	}
	if !mid.IsDisposed() || !leaf.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if leaf.Image() != nil || leaf.Filters != nil {
		t.Error("disposed sprite should drop its image and filters")
	}
	// Double dispose is a no-op.
	mid.Dispose()
}

func TestDebugAddChildDisposedPanics(t *testing.T) {
	globalDebug = true
	defer func() { globalDebug = false }()

	p := NewContainer("p")
	c := NewContainer("c")
	c.Dispose()
	defer func() {
		if recover() == nil {
			t.Error("expected panic when adding a disposed node in debug mode")
		}
	}()
	p.AddChild(c)
}
