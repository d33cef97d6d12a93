package drops

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Param describes one tuning panel control.
type Param struct {
	// Key is the control label, matching the YAML key of Tuning.
	Key string
	// Range bounds numeric values. Unused for Enum params.
	Range Range
	// Step is the change per key press; Shift multiplies it by 10.
	Step float64
	// Structural params reset the scene when changed.
	Structural bool
	// Enum params cycle through the scene's background names.
	Enum bool

	get func(*Tuning) float64
	set func(*Tuning, float64)
}

// TuningParams returns the panel controls in display order.
func TuningParams() []Param {
	return []Param{
		{
			Key: "refraction", Range: RefractionRange, Step: 10,
			get: func(t *Tuning) float64 { return t.Refraction },
			set: func(t *Tuning, v float64) { t.Refraction = v },
		},
		{
			Key: "flicker_effect", Range: FlickerRange, Step: 1,
			get: func(t *Tuning) float64 { return t.Flicker },
			set: func(t *Tuning, v float64) { t.Flicker = v },
		},
		{
			Key: "wind", Range: WindRange, Step: 0.1,
			get: func(t *Tuning) float64 { return t.Wind },
			set: func(t *Tuning, v float64) { t.Wind = v },
		},
		{
			Key: "nb_drops", Range: DropsRange, Step: 1, Structural: true,
			get: func(t *Tuning) float64 { return float64(t.Drops) },
			set: func(t *Tuning, v float64) { t.Drops = int(math.Round(v)) },
		},
		{Key: "background", Structural: true, Enum: true},
	}
}

// Adjust returns t with param p moved by steps increments, clamped to its
// range. Enum params cycle through names, wrapping at both ends.
func (p Param) Adjust(t Tuning, names []string, steps int) Tuning {
	if p.Enum {
		if len(names) == 0 {
			return t
		}
		i := max(slices.Index(names, t.Background), 0)
		n := len(names)
		t.Background = names[((i+steps)%n+n)%n]
		return t
	}
	v := p.get(&t) + float64(steps)*p.Step
	// Round away float drift from repeated 0.1 steps.
	v = math.Round(v/p.Step) * p.Step
	p.set(&t, p.Range.Clamp(v))
	return t
}

// Format renders the param's current value.
func (p Param) Format(t Tuning) string {
	switch {
	case p.Enum:
		return t.Background
	case p.Step >= 1:
		return fmt.Sprintf("%.0f", p.get(&t))
	default:
		return fmt.Sprintf("%.1f", p.get(&t))
	}
}

// TuningPanel is a keyboard-driven in-window panel over a Scene's tuning.
//
//	Tab        show / hide
//	Up, Down   select a control
//	Left,Right change the value (Shift: x10)
//	R          reset the scene
//	P          pause / resume
//	S          save values to the store
//	F12        screenshot
type TuningPanel struct {
	Visible bool

	params   []Param
	selected int
	store    *TuningStore

	status    string
	statusTTL int
}

// NewTuningPanel creates a visible panel. store may be nil.
func NewTuningPanel(store *TuningStore) *TuningPanel {
	return &TuningPanel{Visible: true, params: TuningParams(), store: store}
}

// Params returns the panel's controls.
func (p *TuningPanel) Params() []Param {
	return p.params
}

// Selected returns the index of the selected control.
func (p *TuningPanel) Selected() int {
	return p.selected
}

// Select moves the selection to control i, wrapping.
func (p *TuningPanel) Select(i int) {
	n := len(p.params)
	p.selected = ((i % n) + n) % n
}

// Adjust changes the selected control by steps and applies the result.
// Returns whether the scene was reset.
func (p *TuningPanel) Adjust(s *Scene, steps int) bool {
	param := p.params[p.selected]
	t := param.Adjust(s.Tuning(), s.BackgroundNames(), steps)
	if t == s.Tuning() {
		return false
	}
	return s.Apply(t)
}

// Save writes the scene's tuning to the store.
func (p *TuningPanel) Save(s *Scene) error {
	if p.store == nil {
		return fmt.Errorf("save tuning: no store")
	}
	return p.store.Save(s.Tuning())
}

// Update handles one frame of keyboard input.
func (p *TuningPanel) Update(s *Scene) {
	if p.statusTTL > 0 {
		p.statusTTL--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		p.Visible = !p.Visible
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		s.Screenshot("drops")
		p.setStatus("screenshot queued")
	}
	if !p.Visible {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		p.Select(p.selected - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		p.Select(p.selected + 1)
	}

	mult := 1
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mult = 10
	}
	if repeatPressed(ebiten.KeyLeft) {
		p.Adjust(s, -mult)
	}
	if repeatPressed(ebiten.KeyRight) {
		p.Adjust(s, mult)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.Reset()
		p.setStatus("reset")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if s.Paused() {
			s.Attach()
			p.setStatus("resumed")
		} else {
			s.Detach()
			p.setStatus("paused")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := p.Save(s); err != nil {
			p.setStatus("save failed: " + err.Error())
		} else {
			p.setStatus("saved")
		}
	}
}

// repeatPressed fires on press and then at a steady rate while held.
func repeatPressed(key ebiten.Key) bool {
	const delay, interval = 20, 3
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= delay && (d-delay)%interval == 0)
}

func (p *TuningPanel) setStatus(msg string) {
	p.status = msg
	p.statusTTL = 120
}

// Text renders the panel contents.
func (p *TuningPanel) Text(s *Scene) string {
	var b strings.Builder
	t := s.Tuning()
	for i, param := range p.params {
		cursor := "  "
		if i == p.selected {
			cursor = "> "
		}
		suffix := ""
		if param.Structural {
			suffix = " *"
		}
		fmt.Fprintf(&b, "%s%-15s %s%s\n", cursor, param.Key, param.Format(t), suffix)
	}
	if p.statusTTL > 0 {
		b.WriteString(p.status)
		b.WriteByte('\n')
	}
	return b.String()
}

// Draw prints the panel in the top-right corner.
func (p *TuningPanel) Draw(screen *ebiten.Image, s *Scene) {
	if !p.Visible {
		return
	}
	w := screen.Bounds().Dx()
	ebitenutil.DebugPrintAt(screen, p.Text(s), w-200, 4)
}
