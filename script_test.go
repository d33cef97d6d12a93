package drops

import (
	"strings"
	"testing"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "steps: [", "parse script"},
		{"empty", "steps: []", "no steps"},
		{"unknown action", "steps: [{action: jump}]", `unknown action "jump"`},
		{"unknown key", "steps: [{action: set, key: gravity, value: 1}]", `unknown tuning key "gravity"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadScript = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadScriptJSON(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [{"action": "move", "x": 10, "y": 20}, {"action": "wait", "frames": 3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.steps) != 2 || r.steps[0].X != 10 || r.steps[1].Frames != 3 {
		t.Errorf("steps = %+v", r.steps)
	}
}

// scriptFrame runs the script and consumes injected input the way Update
// does, without reading real devices.
func scriptFrame(s *Scene, r *ScriptRunner) {
	r.step(s)
	s.input.processInjected(s.width, s.height)
}

func TestScriptRunnerSequence(t *testing.T) {
	s := newTestScene(t, nil)
	r, err := LoadScript([]byte(`
steps:
  - {action: move, x: 260, y: 140}
  - {action: wait, frames: 2}
  - {action: set, key: refraction, value: 5000}
  - {action: set, key: background, label: dusk}
  - {action: screenshot, label: after}
  - {action: leave}
`))
	if err != nil {
		t.Fatal(err)
	}

	scriptFrame(s, r)
	if s.Pointer() != (Vec2{100, 50}) {
		t.Errorf("pointer = %v, want {100 50}", s.Pointer())
	}
	for i := 0; i < 20 && !r.Done(); i++ {
		scriptFrame(s, r)
	}
	if !r.Done() {
		t.Fatal("script should finish")
	}
	tun := s.Tuning()
	assertNear(t, "refraction", tun.Refraction, RefractionRange.Max)
	if tun.Background != "dusk" {
		t.Errorf("background = %q, want dusk", tun.Background)
	}
	if s.PendingScreenshots() != 1 {
		t.Errorf("screenshots = %d, want 1", s.PendingScreenshots())
	}
	if s.Pointer() != (Vec2{}) {
		t.Errorf("pointer after leave = %v", s.Pointer())
	}
}

func TestScriptRunnerPathDrains(t *testing.T) {
	s := newTestScene(t, nil)
	r, err := LoadScript([]byte(`
steps:
  - {action: path, from_x: 0, from_y: 90, to_x: 300, to_y: 90, frames: 4}
  - {action: pause}
`))
	if err != nil {
		t.Fatal(err)
	}
	scriptFrame(s, r) // queues the path, consumes the first point
	for i := 0; i < 3; i++ {
		scriptFrame(s, r)
		if s.Paused() {
			t.Fatalf("frame %d: pause ran before the path drained", i)
		}
	}
	scriptFrame(s, r)
	if !s.Paused() || !r.Done() {
		t.Errorf("paused = %v, done = %v", s.Paused(), r.Done())
	}
	assertNear(t, "pointer x", s.Pointer().X, 300-160)
}
