// Package ecs provides ECS adapters for readalong.
package ecs

import (
	readalong "github.com/snuhcs-course/swpp-2025-project-team-09-sub000"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// StageEventType is the Donburi event type for readalong stage events.
// Subscribe to this in your ECS systems to receive pops and playback changes.
var StageEventType = events.NewEventType[readalong.Event]()

// PoppedLine records one popped reward balloon as an entity.
type PoppedLine struct {
	LineIndex int
	Text      string
}

// PoppedLineComponent tags entities created for popped balloons.
var PoppedLineComponent = donburi.NewComponentType[PoppedLine]()

var poppedQuery = donburi.NewQuery(filter.Contains(PoppedLineComponent))

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Every event
// is published to StageEventType; popped balloons additionally become
// PoppedLine entities.
func NewDonburiSink(world donburi.World) readalong.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(e readalong.Event) {
	if e.Type == readalong.EventBalloonPopped {
		entity := s.world.Create(PoppedLineComponent)
		PoppedLineComponent.SetValue(s.world.Entry(entity), PoppedLine{LineIndex: e.LineIndex, Text: e.Text})
	}
	StageEventType.Publish(s.world, e)
}

// PoppedLines returns every recorded popped line in creation order.
func PoppedLines(world donburi.World) []PoppedLine {
	var out []PoppedLine
	poppedQuery.Each(world, func(entry *donburi.Entry) {
		out = append(out, *PoppedLineComponent.Get(entry))
	})
	return out
}
