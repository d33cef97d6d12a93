// Package ecs provides ECS adapters for the drops scene event system.
//
// The primary adapter is [NewDonburiSink], which bridges scene events
// (reset, pointer, tuning, resize) into a [Donburi] world as typed events.
// Subscribe to [SceneEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
