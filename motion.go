package drops

// Integrator advances every droplet of a registry toward the pointer-offset
// target with per-step exponential smoothing.
type Integrator struct {
	Registry *Registry
}

// Step moves each droplet one frame toward (InitX+pointer.X, InitY+pointer.Y).
// The smoothed position is written to both the sprite and its normal, so the
// pair never diverges. The law is per step, not per second.
func (in *Integrator) Step(pointer Vec2) {
	if in.Registry == nil {
		return
	}
	for _, d := range in.Registry.droplets {
		d.Target.X = d.InitX + pointer.X
		d.Target.Y = d.InitY + pointer.Y

		d.Smoothed.X += (d.Target.X - d.Smoothed.X) * d.CoefX
		d.Smoothed.Y += (d.Target.Y - d.Smoothed.Y) * d.CoefY

		d.Sprite.SetPosition(d.Smoothed.X, d.Smoothed.Y)
		d.Normal.SetPosition(d.Smoothed.X, d.Smoothed.Y)
	}
}
