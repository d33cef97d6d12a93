package drops

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// Droplet is one animated water drop: a visible sprite plus a paired normal
// sprite drawn only into the normal pass. Both nodes always share position
// and scale.
type Droplet struct {
	InitX, InitY float64
	InitScale    float64
	// CoefX and CoefY are the per-step smoothing fractions, in (0, 1).
	CoefX, CoefY float64

	Target   Vec2
	Smoothed Vec2

	Sprite *Node
	Normal *Node
}

// PlacementOptions tunes droplet creation. Zero fields take the defaults
// from DefaultPlacement.
type PlacementOptions struct {
	// Scale is the range a droplet's scale is drawn from.
	Scale Range
	// Spread is the fraction of each viewport dimension, either side of the
	// centre, that initial positions are drawn from.
	Spread float64
	// Margin is the half-side of the square exclusion zone around each droplet.
	Margin float64
	// MaxRelocations caps collision nudges per droplet. When exhausted the
	// last candidate is kept even if it still collides.
	MaxRelocations int
	// Smoothing is the coefficient of a droplet at scale 1. Coefficients are
	// Smoothing / scale, so larger drops lag more.
	Smoothing float64
	// Alpha is the opacity of the visible sprite.
	Alpha float64
}

// DefaultPlacement returns the standard placement options.
func DefaultPlacement() PlacementOptions {
	return PlacementOptions{
		Scale:          Range{Min: 0.8, Max: 1.2},
		Spread:         0.3,
		Margin:         100,
		MaxRelocations: 50,
		Smoothing:      0.04,
		Alpha:          0.8,
	}
}

func (o PlacementOptions) withDefaults() PlacementOptions {
	d := DefaultPlacement()
	if o.Scale.Min <= 0 || o.Scale.Max < o.Scale.Min {
		o.Scale = d.Scale
	}
	if o.Spread <= 0 {
		o.Spread = d.Spread
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.MaxRelocations <= 0 {
		o.MaxRelocations = d.MaxRelocations
	}
	if o.Smoothing <= 0 {
		o.Smoothing = d.Smoothing
	}
	if o.Alpha <= 0 {
		o.Alpha = d.Alpha
	}
	return o
}

// smoothingCoef keeps coefficients strictly inside (0, 1).
func smoothingCoef(smoothing, scale float64) float64 {
	const lo, hi = 1e-4, 0.999
	c := smoothing / scale
	if c < lo {
		return lo
	}
	if c > hi {
		return hi
	}
	return c
}

// Registry owns the droplets of one scene in creation order.
type Registry struct {
	droplets []*Droplet
	margin   float64
	// relocations counts collision nudges across the whole placement pass.
	relocations int
	// unresolved counts droplets kept while still colliding.
	unresolved int
}

// CreateDroplets places count droplets inside viewport. Each picks a random
// model and scale, starts within opts.Spread of the centre, and is nudged by
// ±Margin per axis while it collides with an earlier droplet. The visible
// sprite is added to spriteLayer and the normal sprite to normalLayer; either
// may be nil. count <= 0 or an empty model list yields an empty registry.
func CreateDroplets(count int, viewport Rect, models []DropletModel, opts PlacementOptions,
	rng *rand.Rand, spriteLayer, normalLayer *Node) *Registry {
	opts = opts.withDefaults()
	r := &Registry{margin: opts.Margin}
	if count <= 0 || len(models) == 0 {
		return r
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	r.droplets = make([]*Droplet, 0, count)
	c := viewport.Center()
	for i := 0; i < count; i++ {
		model := models[rng.IntN(len(models))]
		scale := opts.Scale.Lerp(rng.Float64())
		x := c.X + (rng.Float64()*2-1)*opts.Spread*viewport.Width
		y := c.Y + (rng.Float64()*2-1)*opts.Spread*viewport.Height

		x, y = r.relocate(x, y, opts, rng)

		coef := smoothingCoef(opts.Smoothing, scale)
		d := &Droplet{
			InitX:     x,
			InitY:     y,
			InitScale: scale,
			CoefX:     coef,
			CoefY:     coef,
			Target:    Vec2{x, y},
			Smoothed:  Vec2{x, y},
			Sprite:    newDropletNode("drop", model.Sprite, scale, x, y),
			Normal:    newDropletNode("drop_normal", model.Normal, scale, x, y),
		}
		d.Sprite.Alpha = opts.Alpha
		r.droplets = append(r.droplets, d)

		if spriteLayer != nil {
			spriteLayer.AddChild(d.Sprite)
		}
		if normalLayer != nil {
			normalLayer.AddChild(d.Normal)
		}
	}
	return r
}

// relocate nudges (x, y) until it clears every placed droplet or the
// relocation budget runs out.
func (r *Registry) relocate(x, y float64, opts PlacementOptions, rng *rand.Rand) (float64, float64) {
	for attempt := 0; r.collides(x, y); attempt++ {
		if attempt == opts.MaxRelocations {
			r.unresolved++
			break
		}
		x += randomSign(rng) * opts.Margin
		y += randomSign(rng) * opts.Margin
		r.relocations++
	}
	return x, y
}

// collides reports whether (x, y) lies strictly inside the exclusion square
// of any placed droplet.
func (r *Registry) collides(x, y float64) bool {
	for _, d := range r.droplets {
		if abs(x-d.InitX) < r.margin && abs(y-d.InitY) < r.margin {
			return true
		}
	}
	return false
}

func randomSign(rng *rand.Rand) float64 {
	if rng.IntN(2) == 0 {
		return -1
	}
	return 1
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// newDropletNode builds a sprite pivoted on its image centre.
func newDropletNode(name string, img *ebiten.Image, scale, x, y float64) *Node {
	n := NewSprite(name, img)
	w, h := n.Size()
	n.PivotX, n.PivotY = w/2, h/2
	n.ScaleX, n.ScaleY = scale, scale
	n.X, n.Y = x, y
	return n
}

// Len returns the number of droplets.
func (r *Registry) Len() int {
	return len(r.droplets)
}

// At returns droplet i. Panics if i is out of range.
func (r *Registry) At(i int) *Droplet {
	return r.droplets[i]
}

// Each calls fn for every droplet in creation order.
func (r *Registry) Each(fn func(i int, d *Droplet)) {
	for i, d := range r.droplets {
		fn(i, d)
	}
}

// Margin returns the exclusion margin the registry was placed with.
func (r *Registry) Margin() float64 {
	return r.margin
}

// Unresolved returns how many droplets were kept while still overlapping an
// earlier one because the relocation budget ran out.
func (r *Registry) Unresolved() int {
	return r.unresolved
}

// Relocations returns the total number of collision nudges applied.
func (r *Registry) Relocations() int {
	return r.relocations
}

// dispose releases every droplet node.
func (r *Registry) dispose() {
	for _, d := range r.droplets {
		d.Sprite.Dispose()
		d.Normal.Dispose()
	}
	clear(r.droplets)
	r.droplets = r.droplets[:0]
}
