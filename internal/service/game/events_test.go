package game

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleAnnouncer_Narration(t *testing.T) {
	var buf bytes.Buffer
	ca := NewConsoleAnnouncer(&buf)

	events := []Event{
		{EventType: EVENT_ROUND_START, Data: RoundStartEvent{Round: 1, Chairs: 3, Players: 4}},
		{EventType: EVENT_SEAT_CLAIMED, Data: SeatClaimedEvent{Round: 1, PlayerID: 2}},
		{EventType: EVENT_ELIMINATED, Data: EliminatedEvent{Round: 1, PlayerID: 4, Remaining: 3}},
		{EventType: EVENT_WINNER, Data: WinnerEvent{PlayerID: 2, Rounds: 3}},
		{EventType: EVENT_GAME_FINISHED, Data: GameFinishedEvent{Rounds: 3}},
		{EventType: "Unknown", Data: nil},
	}

	for _, evt := range events {
		ca.Announce(evt)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 narration lines, got %d: %q", len(lines), buf.String())
	}

	wants := []string{"3 把椅子", "玩家 2 抢到", "玩家 4 被淘汰", "胜者是玩家 2", "游戏结束"}
	for i, want := range wants {
		if !strings.Contains(lines[i], want) {
			t.Fatalf("line %d: want %q in %q", i, want, lines[i])
		}
	}
}

func TestMultiAnnouncer_FansOut(t *testing.T) {
	count := 0
	counter := AnnouncerFunc(func(Event) { count++ })

	MultiAnnouncer{counter, counter, counter}.Announce(Event{EventType: EVENT_WINNER})

	if count != 3 {
		t.Fatalf("want 3 deliveries, got %d", count)
	}
}
