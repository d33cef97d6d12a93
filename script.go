package drops

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is one action of a demo script.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	Key    string  `yaml:"key,omitempty"`
	Value  float64 `yaml:"value,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"from_x,omitempty"`
	FromY  float64 `yaml:"from_y,omitempty"`
	ToX    float64 `yaml:"to_x,omitempty"`
	ToY    float64 `yaml:"to_y,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner plays a sequence of pointer, tuning and capture actions
// across frames, for demos and visual checks. Pointer coordinates are in
// screen pixels. Attach to a Scene with SetScript.
//
//	steps:
//	  - {action: path, from_x: 0, from_y: 360, to_x: 1280, to_y: 360, frames: 120}
//	  - {action: set, key: refraction, value: -600}
//	  - {action: set, key: background, label: dusk}
//	  - {action: wait, frames: 30}
//	  - {action: screenshot, label: dusk}
//	  - {action: leave}
//
// Other actions: move (x, y), reset, pause, resume.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML (or JSON) script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "move", "leave", "path", "wait", "screenshot", "reset", "pause", "resume":
		return nil
	case "set":
		if _, ok := findParam(st.Key); !ok {
			return fmt.Errorf("unknown tuning key %q", st.Key)
		}
		return nil
	}
	return fmt.Errorf("unknown action %q", st.Action)
}

func findParam(key string) (Param, bool) {
	for _, p := range TuningParams() {
		if p.Key == key {
			return p, true
		}
	}
	return Param{}, false
}

// apply returns t with the step's key set. Numeric values are clamped.
func (st scriptStep) apply(t Tuning) Tuning {
	p, ok := findParam(st.Key)
	if !ok {
		return t
	}
	if p.Enum {
		t.Background = st.Label
		return t
	}
	p.set(&t, p.Range.Clamp(st.Value))
	return t
}

// SetScript attaches a script runner. It is stepped from Scene.Update before
// input is polled; nil detaches it.
func (s *Scene) SetScript(r *ScriptRunner) {
	s.script = r
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step runs at most one action per frame.
func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Let injected pointer events drain before advancing.
	if s.input.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "move":
		s.input.InjectPointer(st.X, st.Y)
	case "leave":
		s.input.InjectLeave()
	case "path":
		s.input.InjectPath(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		s.Screenshot(st.Label)
	case "set":
		s.Apply(st.apply(s.Tuning()))
	case "reset":
		s.Reset()
	case "pause":
		s.Detach()
	case "resume":
		s.Attach()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && s.input.Pending() == 0 {
		r.done = true
	}
}
