package game

import (
	"testing"
)

func TestPlayerActor_ReactSeatsOrEliminates(t *testing.T) {
	gs := NewGameState("test", 2, nil)
	if _, err := gs.StartRound(); err != nil {
		t.Fatalf("start round failed: %v", err)
	}

	acks := make(chan RoundAck, 2)
	first := newPlayerActor(NewPlayer(1), gs, NewRoundSignal(), acks, 0)
	second := newPlayerActor(NewPlayer(2), gs, NewRoundSignal(), acks, 0)

	ack := first.react(1)
	if !ack.Seated || ack.Eliminated || ack.Err != nil {
		t.Fatalf("first player should be seated, got %+v", ack)
	}

	ack = second.react(1)
	if ack.Seated || !ack.Eliminated || ack.Err != nil {
		t.Fatalf("second player should be eliminated, got %+v", ack)
	}

	if gs.ActivePlayers() != 1 {
		t.Fatalf("want 1 active player, got %d", gs.ActivePlayers())
	}
}

func TestPlayerActor_SeatedPlayerDoesNotClaimTwice(t *testing.T) {
	gs := NewGameState("test", 3, nil)
	if _, err := gs.StartRound(); err != nil {
		t.Fatalf("start round failed: %v", err)
	}

	pa := newPlayerActor(NewPlayer(1), gs, NewRoundSignal(), make(chan RoundAck, 1), 0)

	pa.react(1)
	pa.react(1)

	if got := gs.Snapshot().SeatsClaimed; got != 1 {
		t.Fatalf("seated player claimed again, want 1 seat got %d", got)
	}

	if pa.player.Status() != PLAYER_SEATED {
		t.Fatalf("want status %s, got %s", PLAYER_SEATED, pa.player.Status())
	}

	pa.player.ResetSeat()
	if pa.player.Status() != PLAYER_WAITING {
		t.Fatalf("want status %s after reset, got %s", PLAYER_WAITING, pa.player.Status())
	}
}

func TestPlayerActor_EliminationIsMonotonic(t *testing.T) {
	gs := NewGameState("test", 2, nil)
	if _, err := gs.StartRound(); err != nil {
		t.Fatalf("start round failed: %v", err)
	}

	// 唯一的椅子先被别人占走
	if !gs.TryClaimSeat() {
		t.Fatalf("claim should succeed")
	}

	pa := newPlayerActor(NewPlayer(2), gs, NewRoundSignal(), make(chan RoundAck, 1), 0)

	if ack := pa.react(1); !ack.Eliminated {
		t.Fatalf("player should be eliminated, got %+v", ack)
	}

	// 再次反应不会重复淘汰，也不会复活
	ack := pa.react(1)
	if !ack.Eliminated || ack.Err != nil {
		t.Fatalf("eliminated player must stay eliminated, got %+v", ack)
	}

	if gs.ActivePlayers() != 1 {
		t.Fatalf("active players double-decremented, got %d", gs.ActivePlayers())
	}

	if got := gs.Snapshot().SeatsClaimed; got != 1 {
		t.Fatalf("eliminated player claimed a seat, want 1 seat got %d", got)
	}
}
