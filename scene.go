package drops

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// EventSink is the interface for optional event forwarding, for example into
// an ECS world. When set on a Scene, lifecycle, pointer and tuning changes
// are reported to it.
type EventSink interface {
	EmitEvent(event SceneEvent)
}

// EventType identifies a SceneEvent.
type EventType uint8

const (
	EventReset EventType = iota
	EventPointerMove
	EventPointerLeave
	EventTuning
	EventResize
)

func (t EventType) String() string {
	switch t {
	case EventReset:
		return "reset"
	case EventPointerMove:
		return "pointer_move"
	case EventPointerLeave:
		return "pointer_leave"
	case EventTuning:
		return "tuning"
	case EventResize:
		return "resize"
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// SceneEvent carries the state relevant to one event.
type SceneEvent struct {
	Type EventType
	// Pointer is the centred pointer position (EventPointerMove).
	Pointer Vec2
	// Tuning is the scene tuning after the change.
	Tuning Tuning
	// Droplets is the droplet count after the change.
	Droplets int
	// Width and Height are the viewport size.
	Width, Height int
}

// Scene owns everything one droplet animation needs: the background layer
// and its refraction filter, the droplet layer, the registry, the normal pass
// and the displacement controller. A reset discards all of it and rebuilds
// from the current tuning.
type Scene struct {
	cfg    Config
	assets *Assets
	rng    *rand.Rand
	sink   EventSink
	debug  bool

	width, height int
	tuning        Tuning
	pointer       Vec2

	// Rebuilt on every reset. Update and Draw are no-ops while initialized
	// is false.
	initialized bool
	root        *Node
	background  *Node
	bgSprite    *Node
	dropLayer   *Node
	registry    *Registry
	integrator  Integrator
	normals     *NormalPass
	controller  *Controller
	tweens      tweenSet
	ramp        *TweenGroup
	rampValue   float64
	inputSubs   []InputHandle

	renderer renderer
	clock    FrameClock
	frame    FrameHandle
	input    InputBridge
	resets   int

	overlay *statsWidget
	script  *ScriptRunner

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string

	stats debugStats
}

// NewScene validates cfg and assets, then builds and starts the first scene.
func NewScene(cfg *Config, assets *Assets) (*Scene, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	if assets == nil {
		return nil, fmt.Errorf("new scene: no assets")
	}
	if err := assets.validate(); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	s := &Scene{
		cfg:           *cfg,
		assets:        assets,
		rng:           rand.New(rand.NewPCG(seed, seed^0x5bd1e995)),
		width:         cfg.Width,
		height:        cfg.Height,
		tuning:        cfg.Tuning,
		ScreenshotDir: "screenshots",
	}
	s.SetDebugMode(cfg.Debug)
	s.Reset()
	return s, nil
}

// --- Lifecycle ---

// Reset stops the frame callback, tears down every render resource, builds a
// new scene from the current tuning and restarts the callback. Nothing runs
// against a partially built scene.
func (s *Scene) Reset() {
	wasPaused := s.initialized && !s.frame.Active()
	s.Detach()
	s.initialized = false
	s.teardown()
	s.build()
	s.initialized = true
	s.resets++
	if !wasPaused {
		s.Attach()
	}
	s.debugf("reset #%d: %d droplets, background %q, %d relocations, %d unresolved",
		s.resets, s.registry.Len(), s.tuning.Background, s.registry.Relocations(), s.registry.Unresolved())
	s.emit(SceneEvent{Type: EventReset})
}

// Close stops the scene and releases its render resources. Update and Draw
// do nothing afterwards.
func (s *Scene) Close() {
	s.Detach()
	s.initialized = false
	s.teardown()
	s.renderer.dispose()
	if s.overlay != nil {
		s.overlay.dispose()
		s.overlay = nil
	}
}

// Attach registers the per-frame step on the frame clock. Attaching twice
// is a no-op.
func (s *Scene) Attach() {
	if !s.initialized || s.frame.Active() {
		return
	}
	s.frame = s.clock.Add(s.step)
}

// Detach removes the per-frame step; the scene keeps drawing its last state.
func (s *Scene) Detach() {
	s.frame.Remove()
	s.frame = FrameHandle{}
}

// Paused reports whether the per-frame step is detached.
func (s *Scene) Paused() bool {
	return !s.frame.Active()
}

func (s *Scene) teardown() {
	for _, h := range s.inputSubs {
		h.Remove()
	}
	s.inputSubs = s.inputSubs[:0]
	s.input.Reset()
	s.tweens.clear()
	s.ramp = nil

	if s.registry != nil {
		s.registry.dispose()
		s.registry = nil
	}
	s.integrator.Registry = nil
	if s.controller != nil {
		s.controller.Dispose()
		s.controller = nil
	}
	if s.normals != nil {
		s.normals.Dispose()
		s.normals = nil
	}
	if s.root != nil {
		s.root.Dispose()
		s.root = nil
	}
	s.background, s.bgSprite, s.dropLayer = nil, nil, nil
	s.pointer = Vec2{}
}

func (s *Scene) build() {
	name, img := s.assets.Background(s.tuning.Background)
	if name != s.tuning.Background {
		s.debugf("unknown background %q, using %q", s.tuning.Background, name)
	}
	s.tuning.Background = name

	s.root = NewContainer("root")
	s.background = NewContainer("background")
	s.bgSprite = NewSprite("background_image", img)
	s.background.AddChild(s.bgSprite)
	s.root.AddChild(s.background)
	s.fitBackground()

	s.normals = NewNormalPass(s.width, s.height)
	s.controller = NewController(s.normals, s.assets.Flicker, s.cfg.Effects.MaxFlicker)
	s.controller.AttachRefraction(s.background)

	s.dropLayer = NewContainer("droplets")
	s.root.AddChild(s.dropLayer)

	opts := s.cfg.Placement.Options()
	s.registry = CreateDroplets(s.tuning.Drops, s.Viewport(), s.assets.Droplets, opts, s.rng,
		s.dropLayer, s.normals.Root)
	s.controller.AttachFlicker(s.registry)
	s.integrator.Registry = s.registry

	s.controller.SetFlicker(s.tuning.Flicker)
	s.controller.SetWind(s.tuning.Wind)
	s.startTransitions(opts.withDefaults().Alpha)

	s.inputSubs = append(s.inputSubs,
		s.input.OnMove(s.SetPointer),
		s.input.OnLeave(s.ClearPointer),
	)
}

// startTransitions fades droplets in and eases refraction up from zero.
func (s *Scene) startTransitions(alpha float64) {
	fade := float32(s.cfg.Effects.FadeIn)
	if fade > 0 {
		s.registry.Each(func(_ int, d *Droplet) {
			d.Sprite.Alpha = 0
			d.Normal.Alpha = 0
			s.tweens.add(TweenAlpha(d.Sprite, alpha, fade, ease.OutQuad))
			s.tweens.add(TweenAlpha(d.Normal, 1, fade, ease.OutQuad))
		})
	}

	ramp := float32(s.cfg.Effects.RefractionRamp)
	if ramp <= 0 {
		s.controller.SetRefraction(s.tuning.Refraction)
		return
	}
	s.rampValue = 0
	s.controller.SetRefraction(0)
	s.ramp = TweenValue(&s.rampValue, s.tuning.Refraction, ramp, ease.InOutSine, func() {
		s.controller.SetRefraction(s.rampValue)
	})
	s.tweens.add(s.ramp)
}

// --- Per-frame ---

// step is the frame callback: transitions, wind drift, then droplet motion.
func (s *Scene) step() {
	// A clock snapshot can still hold step after a teardown in the same tick.
	if !s.initialized {
		return
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.tweens.update(float32(1.0 / float64(ebiten.TPS())))
	if s.ramp != nil && s.ramp.Done {
		s.controller.SetRefraction(s.tuning.Refraction)
		s.ramp = nil
	}
	s.controller.Tick()
	s.integrator.Step(s.pointer)

	if s.debug {
		s.stats.stepTime = time.Since(t0)
	}
}

// Update runs the attached script, polls input and advances the frame clock
// once.
func (s *Scene) Update() {
	if !s.initialized {
		return
	}
	if s.script != nil {
		s.script.step(s)
	}
	s.input.Poll(s.width, s.height)
	s.clock.Tick()
	if s.overlay != nil {
		s.overlay.update(1.0/float64(ebiten.TPS()), s)
	}
}

// Draw renders the normal pass, then the scene, to screen. Node world
// transforms (LocalToWorld) are refreshed for the visible tree.
func (s *Scene) Draw(screen *ebiten.Image) {
	if !s.initialized {
		return
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
		s.renderer.resetStats()
		s.normals.renderer.resetStats()
	}

	s.normals.Render()

	if s.debug {
		s.stats.normalTime = time.Since(t0)
		t0 = time.Now()
	}

	updateWorldTransform(s.root, identityTransform, 1, false)
	s.renderer.draw(screen, s.root, identityTransform)
	if s.overlay != nil {
		s.overlay.draw(screen)
	}

	if s.debug {
		s.stats.drawTime = time.Since(t0)
		s.stats.commandCount = s.renderer.submitted + s.normals.renderer.submitted
		s.stats.filterPasses = s.renderer.filterPasses + s.normals.renderer.filterPasses
		s.debugLog(s.stats)
	}

	s.flushScreenshots(screen)
}

// --- Input ---

// SetPointer sets the pointer offset from the viewport centre.
func (s *Scene) SetPointer(p Vec2) {
	s.pointer = p
	s.emit(SceneEvent{Type: EventPointerMove, Pointer: p})
}

// ClearPointer returns the pointer to the origin, as when it leaves the
// surface.
func (s *Scene) ClearPointer() {
	s.pointer = Vec2{}
	s.emit(SceneEvent{Type: EventPointerLeave})
}

// Pointer returns the current pointer offset.
func (s *Scene) Pointer() Vec2 {
	return s.pointer
}

// Input returns the scene's input bridge, for synthetic injection.
func (s *Scene) Input() *InputBridge {
	return &s.input
}

// --- Tuning ---

// Apply installs new tuning values. A change of droplet count or background
// resets the scene; any other change is applied in place. Returns whether a
// reset happened.
func (s *Scene) Apply(t Tuning) bool {
	prev := s.tuning
	s.tuning = t
	if !s.initialized {
		return false
	}
	if prev.Structural(t) {
		s.Reset()
		s.emit(SceneEvent{Type: EventTuning})
		return true
	}
	if s.ramp != nil {
		s.ramp.Cancel()
		s.ramp = nil
	}
	s.controller.SetRefraction(t.Refraction)
	s.controller.SetFlicker(t.Flicker)
	s.controller.SetWind(t.Wind)
	s.emit(SceneEvent{Type: EventTuning})
	return false
}

// Tuning returns the current tuning values.
func (s *Scene) Tuning() Tuning {
	return s.tuning
}

// BackgroundNames lists the available background presets.
func (s *Scene) BackgroundNames() []string {
	return s.assets.BackgroundNames
}

// --- Resize ---

// Resize adapts the normal buffer, its backdrop and the background cover fit
// to a new viewport. Droplets keep their positions.
func (s *Scene) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == s.width && h == s.height) {
		return
	}
	s.width, s.height = w, h
	if s.initialized {
		s.normals.Resize(w, h)
		s.controller.syncMap()
		s.fitBackground()
	}
	s.debugf("resize %dx%d", w, h)
	s.emit(SceneEvent{Type: EventResize})
}

// fitBackground scales the background image to cover the viewport while
// keeping its aspect ratio, centred.
func (s *Scene) fitBackground() {
	iw, ih := s.bgSprite.Size()
	if iw == 0 || ih == 0 {
		return
	}
	scale, x, y := coverFit(iw, ih, float64(s.width), float64(s.height))
	s.bgSprite.SetScale(scale, scale)
	s.bgSprite.SetPosition(x, y)
}

// coverFit returns the uniform scale and offset that make an iw x ih image
// cover a w x h area, centred.
func coverFit(iw, ih, w, h float64) (scale, x, y float64) {
	scale = max(w/iw, h/ih)
	return scale, (w - iw*scale) / 2, (h - ih*scale) / 2
}

// --- Accessors ---

// Size returns the viewport size.
func (s *Scene) Size() (w, h int) {
	return s.width, s.height
}

// Viewport returns the viewport rectangle.
func (s *Scene) Viewport() Rect {
	return Rect{Width: float64(s.width), Height: float64(s.height)}
}

// Initialized reports whether the scene is built and running.
func (s *Scene) Initialized() bool {
	return s.initialized
}

// Resets returns how many times the scene has been built.
func (s *Scene) Resets() int {
	return s.resets
}

// Root returns the root of the visible tree.
func (s *Scene) Root() *Node {
	return s.root
}

// BackgroundLayer returns the layer the refraction filter is attached to.
func (s *Scene) BackgroundLayer() *Node {
	return s.background
}

// BackgroundSprite returns the cover-fitted background image node.
func (s *Scene) BackgroundSprite() *Node {
	return s.bgSprite
}

// Registry returns the current droplet registry.
func (s *Scene) Registry() *Registry {
	return s.registry
}

// NormalPass returns the current normal pass.
func (s *Scene) NormalPass() *NormalPass {
	return s.normals
}

// Controller returns the current displacement controller.
func (s *Scene) Controller() *Controller {
	return s.controller
}

// Clock returns the frame clock driving the scene.
func (s *Scene) Clock() *FrameClock {
	return &s.clock
}

// SetEventSink sets the optional event sink.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

func (s *Scene) emit(e SceneEvent) {
	if s.sink == nil {
		return
	}
	e.Tuning = s.tuning
	if s.registry != nil {
		e.Droplets = s.registry.Len()
	}
	e.Width, e.Height = s.width, s.height
	s.sink.EmitEvent(e)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, per-frame timing stats are logged to stderr and a stats
// overlay is drawn in the top-left corner.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled && s.overlay == nil {
		s.overlay = newStatsWidget()
	}
	if !enabled && s.overlay != nil {
		s.overlay.dispose()
		s.overlay = nil
	}
}

// DebugMode reports whether debug mode is on.
func (s *Scene) DebugMode() bool {
	return s.debug
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool
