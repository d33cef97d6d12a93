package drops

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and render metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	stepTime     time.Duration
	normalTime   time.Duration
	drawTime     time.Duration
	commandCount int
	filterPasses int
}

// debugLog prints timing and render stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.stepTime + stats.normalTime + stats.drawTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[drops] step: %v | normals: %v | draw: %v | total: %v\n",
		stats.stepTime, stats.normalTime, stats.drawTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[drops] commands: %d | filter passes: %d | drift: %.2f\n",
		stats.commandCount, stats.filterPasses, s.controller.Offset())
}

// debugf prints a single diagnostic line when debug mode is on.
func (s *Scene) debugf(format string, args ...any) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[drops] "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("drops debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckChildCount warns on stderr if a node has more children than any
// droplet layer should ever hold.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[drops] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
