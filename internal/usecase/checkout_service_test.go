package usecase

import (
	"errors"
	"testing"

	"github.com/courtside/pickup-queue/internal/domain/game"
)

func TestCheckoutService_NextUpRemovalClosesGap(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 6)

	if err := env.checkoutSvc.Checkout(t.Context(), "u5"); err != nil {
		t.Fatalf("checkout u5: %v", err)
	}

	if _, exists, err := env.checkins.GetActiveByUser(t.Context(), env.set.ID, "u5"); err != nil || exists {
		t.Fatalf("u5 should be inactive: exists=%t err=%v", exists, err)
	}
	if got := env.userAt(t, 5).UserID; got != "u6" {
		t.Fatalf("position 5 held by %s, want u6", got)
	}

	set := env.activeSet(t)
	if set.CurrentQueuePosition != 1 || set.QueueNextUp != 6 {
		t.Fatalf("pointers = %d/%d, want 1/6", set.CurrentQueuePosition, set.QueueNextUp)
	}
	env.assertDense(t)
}

func TestCheckoutService_HomeCheckoutPullsReplacementFromWaitingLine(t *testing.T) {
	env := newTestEnv(t, 4, 1, 2)
	env.seedPlayers(t, 12)

	started, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if err := env.checkoutSvc.Checkout(t.Context(), "u2"); err != nil {
		t.Fatalf("checkout u2: %v", err)
	}

	// u9 was first in the waiting line; it inherits position 2 with u2's
	// game binding.
	replacement := env.userAt(t, 2)
	if replacement.UserID != "u9" {
		t.Fatalf("position 2 held by %s, want u9", replacement.UserID)
	}
	if replacement.GameID == nil || *replacement.GameID != started.ID {
		t.Fatalf("replacement game binding = %v, want %s", replacement.GameID, started.ID)
	}
	if replacement.Team == nil || *replacement.Team != game.TeamHome {
		t.Fatalf("replacement team = %v, want %d", replacement.Team, game.TeamHome)
	}

	// The durable roster record follows the swap.
	players, err := env.games.ListPlayers(t.Context(), started.ID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	for _, p := range players {
		if p.UserID == "u2" {
			t.Fatal("u2 should no longer appear on the roster")
		}
	}

	// u10..u12 close the gap u9 left behind.
	for position, want := range map[int]string{9: "u10", 10: "u11", 11: "u12"} {
		if got := env.userAt(t, position).UserID; got != want {
			t.Fatalf("position %d held by %s, want %s", position, got, want)
		}
	}

	set := env.activeSet(t)
	if set.QueueNextUp != 12 {
		t.Fatalf("tail pointer = %d, want 12", set.QueueNextUp)
	}
	env.assertDense(t)
}

func TestCheckoutService_HomeCheckoutWithoutReplacementFails(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 4)

	if _, err := env.gameSvc.CreateGame(t.Context(), "1"); err != nil {
		t.Fatalf("create game: %v", err)
	}

	err := env.checkoutSvc.Checkout(t.Context(), "u1")
	if !errors.Is(err, ErrNoReplacementAvailable) {
		t.Fatalf("expected ErrNoReplacementAvailable, got %v", err)
	}

	// Nothing may change on a refused checkout.
	if got := env.userAt(t, 1).UserID; got != "u1" {
		t.Fatalf("position 1 held by %s, want u1", got)
	}
	set := env.activeSet(t)
	if set.QueueNextUp != 5 {
		t.Fatalf("tail pointer = %d, want 5", set.QueueNextUp)
	}
}

func TestCheckoutService_AwayCheckoutRunsShortHanded(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 4)

	started, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if err := env.checkoutSvc.Checkout(t.Context(), "u3"); err != nil {
		t.Fatalf("checkout u3: %v", err)
	}

	if got := env.userAt(t, 3).UserID; got != "u4" {
		t.Fatalf("position 3 held by %s, want u4", got)
	}
	set := env.activeSet(t)
	if set.QueueNextUp != 4 {
		t.Fatalf("tail pointer = %d, want 4", set.QueueNextUp)
	}

	// The roster keeps the departed player; the game continues short-handed.
	players, err := env.games.ListPlayers(t.Context(), started.ID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 4 {
		t.Fatalf("roster size = %d, want 4", len(players))
	}
	env.assertDense(t)
}

func TestCheckoutService_AwayCheckoutPrefersReplacement(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 6)

	started, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if err := env.checkoutSvc.Checkout(t.Context(), "u3"); err != nil {
		t.Fatalf("checkout u3: %v", err)
	}

	replacement := env.userAt(t, 3)
	if replacement.UserID != "u5" {
		t.Fatalf("position 3 held by %s, want u5", replacement.UserID)
	}
	if replacement.Team == nil || *replacement.Team != game.TeamAway {
		t.Fatalf("replacement team = %v, want %d", replacement.Team, game.TeamAway)
	}
	if got := env.userAt(t, 5).UserID; got != "u6" {
		t.Fatalf("position 5 held by %s, want u6", got)
	}

	players, err := env.games.ListPlayers(t.Context(), started.ID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	found := false
	for _, p := range players {
		if p.UserID == "u5" && p.Team == game.TeamAway {
			found = true
		}
		if p.UserID == "u3" {
			t.Fatal("u3 should no longer appear on the roster")
		}
	}
	if !found {
		t.Fatal("u5 should hold the vacated away seat")
	}
	env.assertDense(t)
}

func TestCheckoutService_UnknownCheckin(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.addUser(t, "bystander", false)

	if err := env.checkoutSvc.Checkout(t.Context(), "bystander"); !errors.Is(err, ErrCheckinNotFound) {
		t.Fatalf("expected ErrCheckinNotFound, got %v", err)
	}
}
