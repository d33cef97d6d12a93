// Package drops renders refractive water droplets over a background with
// [Ebitengine].
//
// A [Scene] keeps a set of droplet sprites that slide toward the pointer
// with per-frame exponential smoothing. Every frame it renders the droplets'
// normal maps, over a neutral gray backdrop, into an off-screen buffer and
// feeds that buffer to a displacement filter on the background layer, so the
// background appears refracted through each drop. A second, wrap-repeating
// displacement texture drifts sideways under every droplet to add shimmer.
//
// # Quick start
//
// Load an image set with an [AssetProvider], build a scene and call it from
// your [ebiten.Game]:
//
//	assets, err := drops.GeneratedAssets{Seed: 1}.Load()
//	if err != nil { ... }
//	scene, err := drops.NewScene(drops.DefaultConfig(), assets)
//	if err != nil { ... }
//
//	type Game struct{ scene *drops.Scene }
//
//	func (g *Game) Update() error        { g.scene.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.scene.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) {
//		g.scene.Resize(w, h)
//		return w, h
//	}
//
// # Frame order
//
// [Scene.Update] polls the [InputBridge] and ticks the [FrameClock], which
// runs the scene step: tweens, wind drift ([Controller.Tick]) and droplet
// motion ([Integrator.Step]). [Scene.Draw] then renders the [NormalPass]
// before compositing the background and droplet layers, so the refraction
// filter always samples this frame's normals.
//
// # Tuning
//
// [Scene.Apply] installs new [Tuning] values. Refraction, flicker and wind
// change in place; a new droplet count or background rebuilds the scene
// (see [Scene.Reset]). [TuningPanel] drives Apply from the keyboard and
// [TuningStore] persists the values between runs.
//
// # Scripting
//
// [LoadScript] parses a YAML list of steps (pointer moves and paths, waits,
// tuning changes, resets, pauses and screenshots). Install it with
// [Scene.SetScript]; the scene plays one step per frame until it is done.
//
// # Filters
//
// Filters implement [Filter] and run over a node's rendered subtree.
// [DisplacementFilter] reads a map image's red and green channels as a
// per-pixel offset, offset = (rg - 0.5) * scale, using a Kage shader.
//
// [Ebitengine]: https://ebitengine.org
package drops
