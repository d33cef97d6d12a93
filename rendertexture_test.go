package drops

import "testing"

func TestRenderTextureSize(t *testing.T) {
	rt := NewRenderTexture(64, 32)
	defer rt.Dispose()
	if rt.Width() != 64 || rt.Height() != 32 {
		t.Errorf("size = %dx%d, want 64x32", rt.Width(), rt.Height())
	}
	b := rt.Image().Bounds()
	if b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("image bounds = %v", b)
	}
}

func TestRenderTextureMinimumSize(t *testing.T) {
	rt := NewRenderTexture(0, -5)
	defer rt.Dispose()
	if rt.Width() != 1 || rt.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", rt.Width(), rt.Height())
	}
}

func TestRenderTextureResize(t *testing.T) {
	rt := NewRenderTexture(64, 32)
	defer rt.Dispose()

	old := rt.Image()
	rt.Resize(64, 32)
	if rt.Image() != old {
		t.Error("same-size Resize should keep the image")
	}

	rt.Resize(128, 96)
	if rt.Image() == old {
		t.Error("Resize should replace the image")
	}
	if b := rt.Image().Bounds(); b.Dx() != 128 || b.Dy() != 96 {
		t.Errorf("resized bounds = %v", b)
	}
}

func TestRenderTextureSpriteNode(t *testing.T) {
	rt := NewRenderTexture(16, 16)
	defer rt.Dispose()
	n := rt.NewSpriteNode("rt")
	if n.Image() != rt.Image() {
		t.Error("sprite should display the texture image")
	}
}

func TestRenderTextureDispose(t *testing.T) {
	rt := NewRenderTexture(8, 8)
	rt.Dispose()
	if rt.Image() != nil {
		t.Error("Image should be nil after Dispose")
	}
	rt.Dispose()
}
