package game

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestGameState_StartRoundResetsChairs(t *testing.T) {
	gs := NewGameState("test", 4, nil)

	evt, err := gs.StartRound()
	if err != nil {
		t.Fatalf("start round should succeed, got: %v", err)
	}

	if evt.Round != 1 || evt.Chairs != 3 || evt.Players != 4 {
		t.Fatalf("unexpected round start, got %+v", evt)
	}

	if !gs.TryClaimSeat() {
		t.Fatalf("first claim should succeed")
	}

	if got := gs.Snapshot().ChairsRemaining; got != 2 {
		t.Fatalf("want 2 chairs remaining, got %d", got)
	}
}

func TestGameState_StartRoundDetectsBrokenInvariant(t *testing.T) {
	gs := NewGameState("test", 4, nil)

	// 没有淘汰任何人就移除椅子，椅子数与玩家数不再匹配
	if err := gs.ShrinkChairs(); err != nil {
		t.Fatalf("shrink should succeed, got: %v", err)
	}

	if _, err := gs.StartRound(); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("want ErrInvariantViolation, got: %v", err)
	}
}

func TestGameState_EliminateOnlyOnce(t *testing.T) {
	gs := NewGameState("test", 3, nil)

	if err := gs.Eliminate(2); err != nil {
		t.Fatalf("first eliminate should succeed, got: %v", err)
	}

	if err := gs.Eliminate(2); !errors.Is(err, ErrAlreadyEliminated) {
		t.Fatalf("want ErrAlreadyEliminated, got: %v", err)
	}

	if got := gs.ActivePlayers(); got != 2 {
		t.Fatalf("active players decremented twice, want 2 got %d", got)
	}
}

func TestGameState_GameOver(t *testing.T) {
	tests := []struct {
		name       string
		players    int
		eliminate  []int
		wantOver   bool
		wantActive int
	}{
		{name: "fresh game", players: 3, wantOver: false, wantActive: 3},
		{name: "two left", players: 3, eliminate: []int{1}, wantOver: false, wantActive: 2},
		{name: "one left", players: 3, eliminate: []int{1, 3}, wantOver: true, wantActive: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState("test", tt.players, nil)
			for _, id := range tt.eliminate {
				if err := gs.Eliminate(id); err != nil {
					t.Fatalf("eliminate %d failed: %v", id, err)
				}
			}

			if got := gs.GameOver(); got != tt.wantOver {
				t.Fatalf("want game over %v, got %v", tt.wantOver, got)
			}

			if got := gs.ActivePlayers(); got != tt.wantActive {
				t.Fatalf("want %d active, got %d", tt.wantActive, got)
			}
		})
	}
}

func TestGameState_ShrinkChairsNeverNegative(t *testing.T) {
	gs := NewGameState("test", 2, nil)

	if err := gs.ShrinkChairs(); err != nil {
		t.Fatalf("shrink from 1 chair should succeed, got: %v", err)
	}

	if err := gs.ShrinkChairs(); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("want ErrInvariantViolation, got: %v", err)
	}

	if got := gs.Snapshot().ChairsTotal; got != 0 {
		t.Fatalf("want 0 chairs, got %d", got)
	}
}

func TestGameState_TryClaimSeatNoOverbooking(t *testing.T) {
	const (
		players  = 64
		contends = 8
	)

	gs := NewGameState("test", players, nil)

	start, err := gs.StartRound()
	if err != nil {
		t.Fatalf("start round failed: %v", err)
	}

	var (
		wg      sync.WaitGroup
		success atomic.Int64
		gate    = make(chan struct{})
	)

	// 每个玩家多次争抢，总成功数仍不能超过本回合椅子数
	for range players {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-gate
			for range contends {
				if gs.TryClaimSeat() {
					success.Add(1)
				}
			}
		}()
	}

	close(gate)
	wg.Wait()

	if got := int(success.Load()); got != start.Chairs {
		t.Fatalf("want %d successful claims, got %d", start.Chairs, got)
	}

	if got := gs.Snapshot().ChairsRemaining; got != 0 {
		t.Fatalf("want 0 chairs remaining, got %d", got)
	}
}

func TestGameState_SingleChairStress(t *testing.T) {
	for _, players := range []int{2, 8, 32, 128} {
		gs := NewGameState("test", players, nil)

		// 把椅子减到只剩 1 把
		for i := 1; i < players-1; i++ {
			if err := gs.Eliminate(i); err != nil {
				t.Fatalf("eliminate failed: %v", err)
			}
			if err := gs.ShrinkChairs(); err != nil {
				t.Fatalf("shrink failed: %v", err)
			}
		}

		if _, err := gs.StartRound(); err != nil {
			t.Fatalf("start round failed: %v", err)
		}

		var (
			wg       sync.WaitGroup
			success  atomic.Int64
			failures atomic.Int64
			gate     = make(chan struct{})
		)

		for range players {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-gate
				if gs.TryClaimSeat() {
					success.Add(1)
				} else {
					failures.Add(1)
				}
			}()
		}

		close(gate)
		wg.Wait()

		if success.Load() != 1 || failures.Load() != int64(players-1) {
			t.Fatalf(
				"players=%d: want 1 success and %d failures, got %d and %d",
				players, players-1, success.Load(), failures.Load(),
			)
		}
	}
}
