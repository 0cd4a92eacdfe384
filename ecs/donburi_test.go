package ecs

import (
	"testing"

	readalong "github.com/snuhcs-course/swpp-2025-project-team-09-sub000"

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

	var received []readalong.Event
	StageEventType.Subscribe(world, func(w donburi.World, e readalong.Event) {
		received = append(received, e)
	})

	sink.EmitEvent(readalong.Event{Type: readalong.EventBalloonPopped, LineIndex: 2, Text: "rabbit"})
	sink.EmitEvent(readalong.Event{Type: readalong.EventPlayback, Page: "p1", Region: 1, State: readalong.PlayPlaying})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before ProcessEvents", len(received))
	}
	StageEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != readalong.EventBalloonPopped || e.LineIndex != 2 || e.Text != "rabbit" {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != readalong.EventPlayback || e.Region != 1 || e.State != readalong.PlayPlaying {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_RecordsPoppedLines(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	sink.EmitEvent(readalong.Event{Type: readalong.EventBalloonPopped, LineIndex: 0, Text: "a"})
	sink.EmitEvent(readalong.Event{Type: readalong.EventAllPopped})
	sink.EmitEvent(readalong.Event{Type: readalong.EventBalloonPopped, LineIndex: 1, Text: "b"})

	lines := PoppedLines(world)
	if len(lines) != 2 {
		t.Fatalf("PoppedLines = %d, want 2", len(lines))
	}
	seen := map[int]string{}
	for _, l := range lines {
		seen[l.LineIndex] = l.Text
	}
	if seen[0] != "a" || seen[1] != "b" {
		t.Errorf("PoppedLines = %+v", lines)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	StageEventType.Subscribe(world, func(w donburi.World, e readalong.Event) { count1++ })
	StageEventType.Subscribe(world, func(w donburi.World, e readalong.Event) { count2++ })

	sink.EmitEvent(readalong.Event{Type: readalong.EventAllPopped})
	StageEventType.ProcessEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("counts = %d, %d, want 1, 1", count1, count2)
	}
}

func TestDonburiSink_WithStage(t *testing.T) {
	world := donburi.NewWorld()
	stage := readalong.NewStage(640, 480, nil)
	stage.SetEventSink(NewDonburiSink(world))

	stage.Emit(readalong.Event{Type: readalong.EventBalloonPopped, LineIndex: 7, Text: "x"})

	if got := PoppedLines(world); len(got) != 1 || got[0].LineIndex != 7 {
		t.Errorf("PoppedLines = %+v", got)
	}
}
