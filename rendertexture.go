package drops

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTexture is a persistent offscreen canvas. Unlike pooled render
// targets used internally, a RenderTexture is owned by the caller and is NOT
// recycled between frames. The normal pass renders into one every frame.
type RenderTexture struct {
	image *ebiten.Image
	w, h  int
}

// NewRenderTexture creates a persistent offscreen canvas of the given size.
// Dimensions below 1 are raised to 1; a zero-sized surface is a caller error
// upstream and is not representable as an ebiten image.
func NewRenderTexture(w, h int) *RenderTexture {
	w, h = max(w, 1), max(h, 1)
	return &RenderTexture{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying *ebiten.Image. The pointer changes after Resize.
func (rt *RenderTexture) Image() *ebiten.Image {
	return rt.image
}

// Width returns the texture width in pixels.
func (rt *RenderTexture) Width() int {
	return rt.w
}

// Height returns the texture height in pixels.
func (rt *RenderTexture) Height() int {
	return rt.h
}

// Clear fills the texture with transparent black.
func (rt *RenderTexture) Clear() {
	rt.image.Clear()
}

// Fill fills the entire texture with the given color.
func (rt *RenderTexture) Fill(c Color) {
	rt.image.Fill(c.toRGBA())
}

// NewSpriteNode creates a sprite displaying this texture's current image.
// The node is not updated by a later Resize.
func (rt *RenderTexture) NewSpriteNode(name string) *Node {
	return NewSprite(name, rt.image)
}

// Resize deallocates the old image and creates a new one at the given
// dimensions. No-op when the size is unchanged.
func (rt *RenderTexture) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if rt.image != nil && rt.w == width && rt.h == height {
		return
	}
	if rt.image != nil {
		rt.image.Deallocate()
	}
	rt.image = ebiten.NewImage(width, height)
	rt.w = width
	rt.h = height
}

// Dispose deallocates the underlying image. The RenderTexture should not be
// used after calling Dispose.
func (rt *RenderTexture) Dispose() {
	if rt.image != nil {
		rt.image.Deallocate()
		rt.image = nil
	}
}
