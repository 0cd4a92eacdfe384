// Package ecs provides ECS adapters for readalong's stage events.
//
// The primary adapter is [NewDonburiSink], which bridges stage events
// (balloon popped, all popped, playback changes, partial coverage) into a
// [Donburi] world as typed events. Subscribe to [StageEventType] in your ECS
// systems to receive them. Popped balloons are also kept as [PoppedLine]
// entities, listed by [PoppedLines].
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	stage.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
