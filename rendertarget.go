package drops

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// renderTexturePool manages reusable offscreen ebiten.Images keyed by
// power-of-two dimensions. Callers receive an exact-size sub-image view so
// that shaders see the requested bounds; the backing image is recycled on
// Release. After warmup, Acquire/Release are zero-alloc.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
	owners  map[*ebiten.Image]*ebiten.Image // view -> backing image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared w x h offscreen view. The backing image is
// rounded up to the next power of two in each dimension.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	var full *ebiten.Image
	if stack := p.buckets[key]; len(stack) > 0 {
		full = stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		full.Clear()
	} else {
		full = ebiten.NewImageWithOptions(
			image.Rect(0, 0, pw, ph),
			&ebiten.NewImageOptions{Unmanaged: true},
		)
	}

	view := full.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	if p.owners == nil {
		p.owners = make(map[*ebiten.Image]*ebiten.Image)
	}
	p.owners[view] = full
	return view
}

// Release returns a view obtained from Acquire to the pool. Unknown images
// are ignored. The image is cleared on next Acquire, not here.
func (p *renderTexturePool) Release(view *ebiten.Image) {
	full, ok := p.owners[view]
	if !ok {
		return
	}
	delete(p.owners, view)
	b := full.Bounds()
	key := poolKey(b.Dx(), b.Dy())
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], full)
}

// Dispose deallocates every pooled image. Outstanding views become invalid.
func (p *renderTexturePool) Dispose() {
	for _, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
	}
	for _, full := range p.owners {
		full.Deallocate()
	}
	p.buckets = nil
	p.owners = nil
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
