package drops

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Controller owns the two displacement filters of a scene: refraction, fed
// by the normal pass and applied to the background layer, and flicker, a
// wrap-repeating texture applied to every droplet sprite and normal.
type Controller struct {
	refraction *DisplacementFilter
	flicker    *DisplacementFilter
	normals    *NormalPass

	wind float64
	// Drift is base + wind*ticks. Changing wind folds the running total into
	// base, so a constant wind accumulates without repeated float addition.
	base  float64
	ticks int
}

// NewController creates the filters. flickerTex may be nil, which leaves
// the flicker filter as a pass-through copy. maxFlicker sizes the flicker
// padding so warped pixels are not cropped at the sprite edge.
func NewController(normals *NormalPass, flickerTex *ebiten.Image, maxFlicker float64) *Controller {
	pad := int(math.Ceil(math.Abs(maxFlicker) / 2))
	flicker := NewDisplacementFilter(flickerTex, pad)
	flicker.Wrap = true
	return &Controller{
		refraction: NewDisplacementFilter(normals.Buffer().Image(), 0),
		flicker:    flicker,
		normals:    normals,
	}
}

// SetRefraction sets the background warp strength on both axes.
func (c *Controller) SetRefraction(v float64) {
	c.refraction.SetScale(v, v)
}

// SetFlicker sets the droplet shimmer strength on both axes.
func (c *Controller) SetFlicker(v float64) {
	c.flicker.SetScale(v, v)
}

// SetWind sets the flicker texture drift per tick.
func (c *Controller) SetWind(v float64) {
	if v == c.wind {
		return
	}
	c.base += c.wind * float64(c.ticks)
	c.ticks = 0
	c.wind = v
}

// Refraction returns the current refraction scale (x axis).
func (c *Controller) Refraction() float64 { return c.refraction.ScaleX }

// Flicker returns the current flicker scale (x axis).
func (c *Controller) Flicker() float64 { return c.flicker.ScaleX }

// Wind returns the drift per tick.
func (c *Controller) Wind() float64 { return c.wind }

// Offset returns the accumulated horizontal drift of the flicker texture.
func (c *Controller) Offset() float64 {
	return c.base + c.wind*float64(c.ticks)
}

// Tick advances the flicker drift by one step of wind.
func (c *Controller) Tick() {
	c.ticks++
	c.flicker.OffsetX = c.Offset()
	c.syncMap()
}

// syncMap re-points the refraction map at the normal buffer, whose image
// changes on resize.
func (c *Controller) syncMap() {
	c.refraction.Map = c.normals.Buffer().Image()
}

// AttachRefraction adds the refraction filter to layer.
func (c *Controller) AttachRefraction(layer *Node) {
	layer.Filters = append(layer.Filters, c.refraction)
}

// AttachFlicker adds the flicker filter to both nodes of every droplet.
func (c *Controller) AttachFlicker(reg *Registry) {
	reg.Each(func(_ int, d *Droplet) {
		d.Sprite.Filters = append(d.Sprite.Filters, c.flicker)
		d.Normal.Filters = append(d.Normal.Filters, c.flicker)
	})
}

// RefractionFilter returns the background filter.
func (c *Controller) RefractionFilter() *DisplacementFilter { return c.refraction }

// FlickerFilter returns the droplet filter.
func (c *Controller) FlickerFilter() *DisplacementFilter { return c.flicker }

// Dispose releases the filters' scratch images.
func (c *Controller) Dispose() {
	c.refraction.Dispose()
	c.flicker.Dispose()
}
