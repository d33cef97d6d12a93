package drops

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is the interface for visual effects applied to a node's rendered output.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels needed around the source to accommodate
	// the effect. Zero means no padding.
	Padding() int
}

// anchoredFilter is implemented by filters that sample a screen-space map and
// need to know where the source image sits. The renderer calls setOrigin with
// the position of the source's pixel (0, 0) before each Apply.
type anchoredFilter interface {
	setOrigin(origin Vec2)
}

// --- Kage shader sources ---
// Ebitengine uses premultiplied alpha; the map is un-premultiplied before its
// channels are read as offsets.

const displacementShaderSrc = `//kage:unit pixels
package main

var Scale vec2

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	origin := imageSrc0Origin()
	size := imageSrc0Size()
	m := imageSrc1At(src - origin + imageSrc1Origin())
	if m.a == 0 {
		return imageSrc0At(src)
	}
	// Mid-gray (0.5, 0.5) is the neutral normal: no offset.
	offset := (m.rg/m.a - 0.5) * Scale
	p := clamp(src+offset, origin, origin+size-1)
	return imageSrc0At(p)
}
`

// --- Lazy shader compilation (no sync.Once; drops is single-threaded) ---

var displacementShader *ebiten.Shader

func ensureDisplacementShader() *ebiten.Shader {
	if displacementShader == nil {
		s, err := ebiten.NewShader([]byte(displacementShaderSrc))
		if err != nil {
			panic("drops: failed to compile displacement shader: " + err.Error())
		}
		displacementShader = s
	}
	return displacementShader
}

// --- DisplacementFilter ---

// DisplacementFilter warps its source by reading the red and green channels
// of a map image as a per-pixel offset: offset = (map.rg - 0.5) * (ScaleX, ScaleY).
//
// The map is sampled in the coordinate space the source is drawn into, so a
// screen-sized map (the normal pass buffer) lines up with whatever layer the
// filter is attached to. With Wrap set the map repeats in both directions,
// which suits small tileable textures; otherwise samples outside the map
// read as neutral.
type DisplacementFilter struct {
	Map            *ebiten.Image
	ScaleX, ScaleY float64
	// OffsetX and OffsetY shift the map sampling position, in map pixels.
	OffsetX, OffsetY float64
	Wrap             bool

	padding  int
	origin   Vec2
	scratch  *ebiten.Image // backing store for the per-Apply map view
	uniforms map[string]any
	scaleF32 [2]float32
	shaderOp ebiten.DrawRectShaderOptions
	triOp    ebiten.DrawTrianglesOptions
	verts    [4]ebiten.Vertex
	indices  [6]uint16
}

// NewDisplacementFilter creates a displacement filter over mapImg with the
// given padding in pixels and zero scale.
func NewDisplacementFilter(mapImg *ebiten.Image, padding int) *DisplacementFilter {
	if padding < 0 {
		padding = 0
	}
	f := &DisplacementFilter{
		Map:      mapImg,
		padding:  padding,
		uniforms: make(map[string]any, 1),
		indices:  [6]uint16{0, 1, 2, 1, 3, 2},
	}
	return f
}

// SetScale sets both scale axes.
func (f *DisplacementFilter) SetScale(sx, sy float64) {
	f.ScaleX = sx
	f.ScaleY = sy
}

// Origin returns the anchor most recently supplied by the renderer.
func (f *DisplacementFilter) Origin() Vec2 {
	return f.origin
}

func (f *DisplacementFilter) setOrigin(origin Vec2) {
	f.origin = origin
}

// mapRect returns the rectangle of map pixels sampled for a w x h source.
func (f *DisplacementFilter) mapRect(w, h int) Rect {
	return Rect{
		X:      f.origin.X + f.OffsetX,
		Y:      f.origin.Y + f.OffsetY,
		Width:  float64(w),
		Height: float64(h),
	}
}

// ensureScratch returns a cleared w x h view into a scratch image that grows
// to the largest source seen.
func (f *DisplacementFilter) ensureScratch(w, h int) *ebiten.Image {
	if f.scratch != nil {
		b := f.scratch.Bounds()
		if b.Dx() < w || b.Dy() < h {
			w2, h2 := max(w, b.Dx()), max(h, b.Dy())
			f.scratch.Deallocate()
			f.scratch = ebiten.NewImage(w2, h2)
		}
	} else {
		f.scratch = ebiten.NewImage(w, h)
	}
	view := f.scratch.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	view.Clear()
	return view
}

// Apply copies the relevant window of the map into a source-sized view, then
// runs the displacement shader from src into dst.
func (f *DisplacementFilter) Apply(src, dst *ebiten.Image) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if f.Map == nil || (f.ScaleX == 0 && f.ScaleY == 0) {
		var op ebiten.DrawImageOptions
		dst.DrawImage(src, &op)
		return
	}

	mapView := f.ensureScratch(w, h)
	r := f.mapRect(w, h)
	sx0, sy0 := float32(r.X), float32(r.Y)
	sx1, sy1 := float32(r.X+r.Width), float32(r.Y+r.Height)
	fw, fh := float32(w), float32(h)
	f.verts[0] = ebiten.Vertex{DstX: 0, DstY: 0, SrcX: sx0, SrcY: sy0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	f.verts[1] = ebiten.Vertex{DstX: fw, DstY: 0, SrcX: sx1, SrcY: sy0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	f.verts[2] = ebiten.Vertex{DstX: 0, DstY: fh, SrcX: sx0, SrcY: sy1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	f.verts[3] = ebiten.Vertex{DstX: fw, DstY: fh, SrcX: sx1, SrcY: sy1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	if f.Wrap {
		f.triOp.Address = ebiten.AddressRepeat
	} else {
		f.triOp.Address = ebiten.AddressClampToZero
	}
	f.triOp.Filter = ebiten.FilterNearest
	mapView.DrawTriangles(f.verts[:], f.indices[:], f.Map, &f.triOp)

	f.scaleF32[0] = float32(f.ScaleX)
	f.scaleF32[1] = float32(f.ScaleY)
	f.uniforms["Scale"] = f.scaleF32[:]

	f.shaderOp.Images[0] = src
	f.shaderOp.Images[1] = mapView
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(w, h, ensureDisplacementShader(), &f.shaderOp)
}

// Padding returns the padding value set at construction time.
func (f *DisplacementFilter) Padding() int { return f.padding }

// Dispose releases the filter's scratch image. The map is not owned.
func (f *DisplacementFilter) Dispose() {
	if f.scratch != nil {
		f.scratch.Deallocate()
		f.scratch = nil
	}
}

// --- Filter padding helper ---

// filterChainPadding returns the cumulative padding required by a slice of filters.
func filterChainPadding(filters []Filter) int {
	pad := 0
	for _, f := range filters {
		pad += f.Padding()
	}
	return pad
}

// --- Filter application helper ---

// applyFilters runs a filter chain on src, ping-ponging between pooled
// images. origin is the target-space position of src's pixel (0, 0) and is
// handed to anchored filters. Returns the image holding the final result
// (either src or a pooled image the caller must release).
func applyFilters(filters []Filter, src *ebiten.Image, pool *renderTexturePool, origin Vec2) *ebiten.Image {
	if len(filters) == 0 {
		return src
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	current := src
	var scratch *ebiten.Image

	for _, f := range filters {
		if af, ok := f.(anchoredFilter); ok {
			af.setOrigin(origin)
		}
		if scratch == nil {
			scratch = pool.Acquire(w, h)
		} else {
			scratch.Clear()
		}
		f.Apply(current, scratch)
		current, scratch = scratch, current
	}

	// scratch now holds the previous result; return it to the pool unless it
	// is the caller's source.
	if scratch != src {
		pool.Release(scratch)
	}
	return current
}
