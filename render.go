package drops

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// renderCommand is a single draw instruction emitted during tree traversal.
type renderCommand struct {
	transform [6]float64
	image     *ebiten.Image
	color     Color
	alpha     float64
	blend     BlendMode
}

// renderer walks node trees and submits their sprites to a target image.
// Filtered nodes are rendered to pooled offscreen images first.
type renderer struct {
	pool     renderTexturePool
	commands []renderCommand
	deferred []*ebiten.Image
	op       ebiten.DrawImageOptions

	// Counters since the last resetStats, read by the debug log.
	submitted    int
	filterPasses int
}

func (r *renderer) resetStats() {
	r.submitted = 0
	r.filterPasses = 0
}

// draw renders n and its subtree into target, with base as the transform of
// n's parent space. Nested draws (filtered nodes) reuse the command buffer
// above the caller's high-water mark.
func (r *renderer) draw(target *ebiten.Image, n *Node, base [6]float64) {
	start := len(r.commands)
	deferredStart := len(r.deferred)

	r.walk(n, base, 1)
	r.submit(target, r.commands[start:])

	r.commands = r.commands[:start]
	r.releaseFrom(deferredStart)
}

// drawContent renders n's own image and children (ignoring n's transform and
// filters) into target, offset so that local (bounds.X, bounds.Y) lands on
// pixel (0, 0).
func (r *renderer) drawContent(target *ebiten.Image, n *Node, bounds Rect) {
	start := len(r.commands)
	deferredStart := len(r.deferred)

	offset := [6]float64{1, 0, 0, 1, -bounds.X, -bounds.Y}
	r.emit(n, offset, 1)
	for _, child := range n.children {
		r.walk(child, offset, 1)
	}
	r.submit(target, r.commands[start:])

	r.commands = r.commands[:start]
	r.releaseFrom(deferredStart)
}

func (r *renderer) releaseFrom(i int) {
	for _, img := range r.deferred[i:] {
		r.pool.Release(img)
	}
	clear(r.deferred[i:])
	r.deferred = r.deferred[:i]
}

// walk traverses the tree depth-first, emitting commands for visible sprites.
func (r *renderer) walk(n *Node, parent [6]float64, parentAlpha float64) {
	if !n.Visible {
		return
	}
	transform := multiplyAffine(parent, computeLocalTransform(n))
	alpha := parentAlpha * n.Alpha

	if len(n.Filters) > 0 {
		r.drawFiltered(n, transform, alpha)
		return
	}

	r.emit(n, transform, alpha)
	for _, child := range n.children {
		r.walk(child, transform, alpha)
	}
}

// emit appends a command for n if it is a sprite with an image.
func (r *renderer) emit(n *Node, transform [6]float64, alpha float64) {
	if n.Type != NodeTypeSprite || n.image == nil {
		return
	}
	r.commands = append(r.commands, renderCommand{
		transform: transform,
		image:     n.image,
		color:     n.Color,
		alpha:     alpha,
		blend:     n.BlendMode,
	})
}

// drawFiltered renders n's subtree to an offscreen image sized to its padded
// bounds, runs the filter chain, and emits the result as one command.
func (r *renderer) drawFiltered(n *Node, transform [6]float64, alpha float64) {
	bounds := subtreeBounds(n)
	padding := float64(filterChainPadding(n.Filters))
	bounds.X -= padding
	bounds.Y -= padding
	bounds.Width += padding * 2
	bounds.Height += padding * 2

	w := int(math.Ceil(bounds.Width))
	h := int(math.Ceil(bounds.Height))
	if w <= 0 || h <= 0 {
		return
	}

	// RT pixel (0,0) corresponds to local (bounds.X, bounds.Y).
	adjusted := translateAffine(transform, bounds.X, bounds.Y)

	rt := r.pool.Acquire(w, h)
	r.drawContent(rt, n, bounds)
	r.filterPasses += len(n.Filters)

	result := applyFilters(n.Filters, rt, &r.pool, Vec2{adjusted[4], adjusted[5]})
	if result != rt {
		r.pool.Release(rt)
	}
	r.deferred = append(r.deferred, result)

	r.commands = append(r.commands, renderCommand{
		transform: adjusted,
		image:     result,
		color:     ColorWhite,
		alpha:     alpha,
		blend:     n.BlendMode,
	})
}

// submit draws commands in order onto target.
func (r *renderer) submit(target *ebiten.Image, commands []renderCommand) {
	op := &r.op
	r.submitted += len(commands)
	for i := range commands {
		cmd := &commands[i]
		op.GeoM = commandGeoM(cmd.transform)
		op.ColorScale.Reset()
		a := float32(cmd.color.A * cmd.alpha)
		op.ColorScale.Scale(float32(cmd.color.R)*a, float32(cmd.color.G)*a, float32(cmd.color.B)*a, a)
		op.Blend = cmd.blend.EbitenBlend()
		op.Filter = ebiten.FilterLinear
		target.DrawImage(cmd.image, op)
	}
}

// dispose releases every pooled offscreen image.
func (r *renderer) dispose() {
	r.releaseFrom(0)
	r.pool.Dispose()
	r.commands = r.commands[:0]
}

// commandGeoM converts an affine matrix to an ebiten.GeoM.
func commandGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
