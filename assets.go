package drops

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"math"
	"math/rand/v2"
	"path"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"gopkg.in/yaml.v3"
)

// DropletModel is one droplet variant: a visible sprite and a normal map of
// the same dimensions. A size mismatch renders incorrectly but is not an error.
type DropletModel struct {
	Sprite *ebiten.Image
	Normal *ebiten.Image
}

// Assets is the decoded image set a Scene is built from.
type Assets struct {
	// BackgroundNames lists the background presets in display order.
	BackgroundNames []string
	Backgrounds     map[string]*ebiten.Image
	Droplets        []DropletModel
	// Flicker is a tileable texture read as a displacement map with wrap.
	Flicker *ebiten.Image
}

// Background returns the named background. An unknown name falls back to the
// first preset so that a stale tuning file never leaves the scene empty.
func (a *Assets) Background(name string) (string, *ebiten.Image) {
	if img, ok := a.Backgrounds[name]; ok {
		return name, img
	}
	if len(a.BackgroundNames) == 0 {
		return "", nil
	}
	first := a.BackgroundNames[0]
	return first, a.Backgrounds[first]
}

// validate reports the first structural problem with the set.
func (a *Assets) validate() error {
	if len(a.BackgroundNames) == 0 {
		return fmt.Errorf("no backgrounds")
	}
	for _, name := range a.BackgroundNames {
		if a.Backgrounds[name] == nil {
			return fmt.Errorf("background %q has no image", name)
		}
	}
	if len(a.Droplets) == 0 {
		return fmt.Errorf("no droplet models")
	}
	for i, m := range a.Droplets {
		if m.Sprite == nil || m.Normal == nil {
			return fmt.Errorf("droplet model %d is incomplete", i)
		}
	}
	if a.Flicker == nil {
		return fmt.Errorf("no flicker texture")
	}
	return nil
}

// AssetProvider loads the image set once, before the engine starts.
type AssetProvider interface {
	Load() (*Assets, error)
}

// --- Directory assets ---

// AssetManifest is the YAML index of a DirAssets directory.
//
//	backgrounds:
//	  water: bg/water.jpg
//	  stone: bg/stone.jpg
//	drops:
//	  - sprite: drops/drop0.png
//	    normal: drops/drop0_normal.png
//	flicker: flicker.png
type AssetManifest struct {
	Backgrounds yaml.Node      `yaml:"backgrounds"`
	Drops       []DropManifest `yaml:"drops"`
	Flicker     string         `yaml:"flicker"`
}

// DropManifest names the two files of one droplet model.
type DropManifest struct {
	Sprite string `yaml:"sprite"`
	Normal string `yaml:"normal"`
}

// backgroundEntries returns the background mapping in file order.
func (m *AssetManifest) backgroundEntries() ([][2]string, error) {
	if m.Backgrounds.Kind == 0 {
		return nil, nil
	}
	if m.Backgrounds.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("backgrounds: expected a mapping, got line %d", m.Backgrounds.Line)
	}
	content := m.Backgrounds.Content
	entries := make([][2]string, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		entries = append(entries, [2]string{content[i].Value, content[i+1].Value})
	}
	return entries, nil
}

// DirAssets loads images listed in a YAML manifest from a file system.
type DirAssets struct {
	FS fs.FS
	// Manifest is the manifest path inside FS. Defaults to "assets.yaml".
	Manifest string
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*AssetManifest, error) {
	var m AssetManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Load reads the manifest and decodes every image it references. Paths are
// relative to the manifest's directory.
func (d DirAssets) Load() (*Assets, error) {
	name := d.Manifest
	if name == "" {
		name = "assets.yaml"
	}
	data, err := fs.ReadFile(d.FS, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	entries, err := m.backgroundEntries()
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	base := path.Dir(name)
	load := func(p string) (*ebiten.Image, error) {
		img, _, err := ebitenutil.NewImageFromFileSystem(d.FS, path.Join(base, p))
		if err != nil {
			return nil, fmt.Errorf("load image %s: %w", p, err)
		}
		return img, nil
	}

	a := &Assets{Backgrounds: make(map[string]*ebiten.Image, len(entries))}
	for _, e := range entries {
		img, err := load(e[1])
		if err != nil {
			return nil, err
		}
		a.BackgroundNames = append(a.BackgroundNames, e[0])
		a.Backgrounds[e[0]] = img
	}
	for _, dm := range m.Drops {
		sprite, err := load(dm.Sprite)
		if err != nil {
			return nil, err
		}
		normal, err := load(dm.Normal)
		if err != nil {
			return nil, err
		}
		a.Droplets = append(a.Droplets, DropletModel{Sprite: sprite, Normal: normal})
	}
	if m.Flicker != "" {
		if a.Flicker, err = load(m.Flicker); err != nil {
			return nil, err
		}
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", name, err)
	}
	return a, nil
}

// --- Generated assets ---

// backgroundPalettes are the procedural background presets: two colors
// blended by noise.
var backgroundPalettes = map[string][2]color.NRGBA{
	"lagoon": {{0x0b, 0x3d, 0x5c, 0xff}, {0x7f, 0xd1, 0xc7, 0xff}},
	"dusk":   {{0x2b, 0x14, 0x3d, 0xff}, {0xf2, 0x8c, 0x5a, 0xff}},
	"moss":   {{0x1e, 0x33, 0x1b, 0xff}, {0xb8, 0xc9, 0x6b, 0xff}},
	"paper":  {{0xc8, 0xbf, 0xa8, 0xff}, {0xf4, 0xef, 0xe2, 0xff}},
}

// GeneratedBackgroundNames lists the procedural presets in display order.
var GeneratedBackgroundNames = []string{"lagoon", "dusk", "moss", "paper"}

// GeneratedAssets synthesises every image so the scene runs without files.
type GeneratedAssets struct {
	Seed uint64
	// Variants is the number of droplet models. Defaults to 4.
	Variants int
	// BackgroundWidth and BackgroundHeight default to 1280x720.
	BackgroundWidth, BackgroundHeight int
	// FlickerSize is the side of the square flicker tile. Defaults to 128.
	FlickerSize int
}

// Load builds the image set.
func (g GeneratedAssets) Load() (*Assets, error) {
	variants := g.Variants
	if variants <= 0 {
		variants = 4
	}
	bw, bh := g.BackgroundWidth, g.BackgroundHeight
	if bw <= 0 || bh <= 0 {
		bw, bh = 1280, 720
	}
	fsz := g.FlickerSize
	if fsz <= 0 {
		fsz = 128
	}

	a := &Assets{
		BackgroundNames: slices.Clone(GeneratedBackgroundNames),
		Backgrounds:     make(map[string]*ebiten.Image, len(GeneratedBackgroundNames)),
	}
	for i, name := range GeneratedBackgroundNames {
		pixels := BackgroundPixels(bw, bh, backgroundPalettes[name], g.Seed+uint64(i))
		a.Backgrounds[name] = ebiten.NewImageFromImage(pixels)
	}

	rng := rand.New(rand.NewPCG(g.Seed, 0x6472_6f70))
	for range variants {
		w := 48 + rng.IntN(40)
		h := w + rng.IntN(w/3+1)
		sprite, normal := DropletPixels(w, h)
		a.Droplets = append(a.Droplets, DropletModel{
			Sprite: ebiten.NewImageFromImage(sprite),
			Normal: ebiten.NewImageFromImage(normal),
		})
	}
	a.Flicker = ebiten.NewImageFromImage(FlickerPixels(fsz, g.Seed))
	return a, nil
}

// DropletPixels draws an elliptical droplet of w x h pixels and its normal
// map. The sprite is a translucent highlight-and-rim shading; the normal map
// encodes the surface slope in red (x) and green (y) around mid-gray, with
// alpha 0 outside the droplet.
func DropletPixels(w, h int) (sprite, normal *image.NRGBA) {
	sprite = image.NewNRGBA(image.Rect(0, 0, w, h))
	normal = image.NewNRGBA(image.Rect(0, 0, w, h))
	rx, ry := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nx := (float64(x) + 0.5 - rx) / rx
			ny := (float64(y) + 0.5 - ry) / ry
			d2 := nx*nx + ny*ny
			if d2 >= 1 {
				continue
			}
			// Hemisphere: z = sqrt(1 - r^2), slope = (nx, ny) / z.
			z := math.Sqrt(1 - d2)
			edge := 1 - z
			normal.SetNRGBA(x, y, color.NRGBA{
				R: encodeSlope(nx),
				G: encodeSlope(ny),
				B: uint8(127 + z*128),
				A: 0xff,
			})

			// Rim darkens, the upper-left highlight brightens.
			hl := math.Max(0, 1-math.Hypot(nx+0.35, ny+0.4)*2.2)
			v := 0.55 + 0.45*hl - 0.3*edge
			a := 0.25 + 0.6*edge + 0.5*hl
			sprite.SetNRGBA(x, y, color.NRGBA{
				R: unit8(v * 0.92),
				G: unit8(v * 0.97),
				B: unit8(v),
				A: unit8(a),
			})
		}
	}
	return sprite, normal
}

func encodeSlope(v float64) uint8 {
	return unit8(0.5 + v*0.5)
}

func unit8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// BackgroundPixels fills a w x h image by blending the two palette colors
// with fractal value noise.
func BackgroundPixels(w, h int, palette [2]color.NRGBA, seed uint64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	noise := newValueNoise(seed, 256)
	scale := 4.0 / float64(max(w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := noise.fractal(float64(x)*scale, float64(y)*scale, 5)
			img.SetNRGBA(x, y, lerpNRGBA(palette[0], palette[1], t))
		}
	}
	return img
}

// FlickerPixels builds a size x size tileable displacement texture. Red and
// green carry independent noise fields centred on mid-gray.
func FlickerPixels(size int, seed uint64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	// The noise lattice period equals the cell count across the tile, so the
	// texture repeats seamlessly.
	const cells = 8
	nr := newValueNoise(seed, cells)
	ng := newValueNoise(seed^0x9e37_79b9_7f4a_7c15, cells)
	k := float64(cells) / float64(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx, fy := float64(x)*k, float64(y)*k
			img.SetNRGBA(x, y, color.NRGBA{
				R: unit8(nr.at(fx, fy)),
				G: unit8(ng.at(fx, fy)),
				B: 0x80,
				A: 0xff,
			})
		}
	}
	return img
}

func lerpNRGBA(a, b color.NRGBA, t float64) color.NRGBA {
	t = clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

// valueNoise is 2D value noise over a square lattice that wraps every
// period cells.
type valueNoise struct {
	period int
	values []float64
}

func newValueNoise(seed uint64, period int) *valueNoise {
	rng := rand.New(rand.NewPCG(seed, uint64(period)))
	v := make([]float64, period*period)
	for i := range v {
		v[i] = rng.Float64()
	}
	return &valueNoise{period: period, values: v}
}

func (n *valueNoise) lattice(x, y int) float64 {
	p := n.period
	x = ((x % p) + p) % p
	y = ((y % p) + p) % p
	return n.values[y*p+x]
}

// at samples the noise with smoothstep interpolation. Result is in [0, 1].
func (n *valueNoise) at(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	ix, iy := int(x0), int(y0)
	tx, ty := smoothstep(x-x0), smoothstep(y-y0)
	a := n.lattice(ix, iy)
	b := n.lattice(ix+1, iy)
	c := n.lattice(ix, iy+1)
	d := n.lattice(ix+1, iy+1)
	top := a + (b-a)*tx
	bottom := c + (d-c)*tx
	return top + (bottom-top)*ty
}

// fractal sums octaves of noise, normalised back to [0, 1].
func (n *valueNoise) fractal(x, y float64, octaves int) float64 {
	sum, amp, norm := 0.0, 1.0, 0.0
	for range octaves {
		sum += n.at(x, y) * amp
		norm += amp
		amp *= 0.5
		x, y = x*2, y*2
	}
	return sum / norm
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
