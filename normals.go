package drops

// NormalPass renders the normal sprites of every droplet, over a flat
// mid-gray backdrop, into an off-screen buffer. The buffer is the map the
// refraction filter samples, so Render must run after the motion step and
// before the background is drawn.
type NormalPass struct {
	// Root holds the backdrop followed by the normal sprites.
	Root     *Node
	backdrop *Node
	buffer   *RenderTexture
	renderer renderer
}

// NewNormalPass creates a pass with a w x h buffer.
func NewNormalPass(w, h int) *NormalPass {
	p := &NormalPass{
		Root:     NewContainer("normals"),
		backdrop: NewRect("normals_backdrop", float64(w), float64(h), ColorNeutralNormal),
		buffer:   NewRenderTexture(w, h),
	}
	// Antialiased sprite edges must blend toward neutral gray. Over a
	// transparent buffer they would unpremultiply to full-strength offsets.
	p.Root.AddChild(p.backdrop)
	return p
}

// Render clears the buffer and composites the container into it.
func (p *NormalPass) Render() {
	p.buffer.Clear()
	p.renderer.draw(p.buffer.Image(), p.Root, identityTransform)
}

// Resize recreates the buffer and stretches the backdrop to w x h.
func (p *NormalPass) Resize(w, h int) {
	p.buffer.Resize(w, h)
	p.backdrop.SetScale(float64(w), float64(h))
}

// Buffer returns the off-screen texture. Its image changes after Resize.
func (p *NormalPass) Buffer() *RenderTexture {
	return p.buffer
}

// Size returns the buffer dimensions.
func (p *NormalPass) Size() (w, h int) {
	return p.buffer.Width(), p.buffer.Height()
}

// Dispose releases the buffer, the pooled images and every node under Root.
func (p *NormalPass) Dispose() {
	p.Root.Dispose()
	p.renderer.dispose()
	p.buffer.Dispose()
}
