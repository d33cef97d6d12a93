// Package ecs provides ECS adapters for drops.
package ecs

import (
	"github.com/phanxgames/drops"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for drops scene events.
var SceneEventType = events.NewEventType[drops.SceneEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Scene events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) drops.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event drops.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}
