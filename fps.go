package drops

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsWidget displays FPS, TPS and scene state in debug mode.
// The text is refreshed every ~0.5 seconds.
type statsWidget struct {
	img     *ebiten.Image
	elapsed float64
	op      ebiten.DrawImageOptions
}

func newStatsWidget() *statsWidget {
	// 180x80 fits five DebugPrint lines.
	return &statsWidget{img: ebiten.NewImage(180, 80), elapsed: 0.5}
}

func (w *statsWidget) update(dt float64, s *Scene) {
	w.elapsed += dt
	if w.elapsed < 0.5 {
		return
	}
	w.elapsed = 0

	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})

	drops := 0
	if s.registry != nil {
		drops = s.registry.Len()
	}
	state := "running"
	if s.Paused() {
		state = "paused"
	}
	ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\ndrops: %d (%s)\ndrift: %.1f\npointer: %.0f,%.0f",
		ebiten.ActualFPS(), ebiten.ActualTPS(), drops, state, s.controller.Offset(), s.pointer.X, s.pointer.Y))
}

func (w *statsWidget) draw(screen *ebiten.Image) {
	w.op.GeoM.Reset()
	w.op.GeoM.Translate(4, 4)
	screen.DrawImage(w.img, &w.op)
}

func (w *statsWidget) dispose() {
	w.img.Deallocate()
}
