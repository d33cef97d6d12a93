package drops

import "testing"

func TestNormalPassEmptyRender(t *testing.T) {
	p := NewNormalPass(320, 200)
	defer p.Dispose()
	p.Render()
	if p.Root.NumChildren() != 1 {
		t.Errorf("Root children = %d, want 1 (backdrop only)", p.Root.NumChildren())
	}
}

func TestNormalPassBackdrop(t *testing.T) {
	p := NewNormalPass(320, 200)
	defer p.Dispose()
	if p.backdrop.Color != ColorNeutralNormal {
		t.Errorf("backdrop color = %v, want neutral normal", p.backdrop.Color)
	}
	assertNear(t, "backdrop w", p.backdrop.ScaleX, 320)
	assertNear(t, "backdrop h", p.backdrop.ScaleY, 200)
}

func TestNormalPassRenderWithDroplets(t *testing.T) {
	p := NewNormalPass(320, 200)
	defer p.Dispose()
	reg := CreateDroplets(5, Rect{0, 0, 320, 200}, testModels(1), DefaultPlacement(), testRNG(6), nil, p.Root)
	if p.Root.NumChildren() != 6 {
		t.Fatalf("Root children = %d, want 6", p.Root.NumChildren())
	}
	if p.Root.Children()[0] != p.backdrop {
		t.Error("backdrop must be drawn first")
	}
	in := Integrator{Registry: reg}
	in.Step(Vec2{10, 10})
	p.Render()
	if p.renderer.submitted != 6 {
		t.Errorf("submitted = %d, want 6", p.renderer.submitted)
	}
}

func TestNormalPassResize(t *testing.T) {
	p := NewNormalPass(320, 200)
	defer p.Dispose()
	p.Resize(800, 600)
	if w, h := p.Size(); w != 800 || h != 600 {
		t.Errorf("Size = %dx%d, want 800x600", w, h)
	}
	assertNear(t, "backdrop w", p.backdrop.ScaleX, 800)
	assertNear(t, "backdrop h", p.backdrop.ScaleY, 600)
}
