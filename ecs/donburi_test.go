package ecs

import (
	"testing"

	"github.com/phanxgames/drops"

	"github.com/yohamta/donburi"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []drops.SceneEvent
	SceneEventType.Subscribe(world, func(w donburi.World, e drops.SceneEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(drops.SceneEvent{
		Type:    drops.EventPointerMove,
		Pointer: drops.Vec2{X: 100, Y: 50},
	})
	sink.EmitEvent(drops.SceneEvent{
		Type:     drops.EventReset,
		Droplets: 12,
		Tuning:   drops.Tuning{Drops: 12, Background: "lagoon"},
	})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("expected no events before ProcessEvents, got %d", len(received))
	}
	SceneEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != drops.EventPointerMove || e.Pointer != (drops.Vec2{X: 100, Y: 50}) {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != drops.EventReset || e.Droplets != 12 || e.Tuning.Background != "lagoon" {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink drops.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	SceneEventType.Subscribe(world, func(w donburi.World, e drops.SceneEvent) {
		count1++
	})
	SceneEventType.Subscribe(world, func(w donburi.World, e drops.SceneEvent) {
		count2++
	})

	sink.EmitEvent(drops.SceneEvent{Type: drops.EventTuning})
	SceneEventType.ProcessEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("subscriber counts = %d, %d; want 1, 1", count1, count2)
	}
}
