package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtside/pickup-queue/internal/domain/checkin"
	"github.com/courtside/pickup-queue/internal/domain/game"
)

func TestGameService_CreateGameAssemblesActiveWindow(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 5)

	started, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if started.State != game.StateStarted || started.Court != "1" {
		t.Fatalf("unexpected game: %+v", started)
	}

	players, err := env.games.ListPlayers(t.Context(), started.ID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	want := []game.Player{
		{UserID: "u1", Team: game.TeamHome, Slot: 0},
		{UserID: "u2", Team: game.TeamHome, Slot: 1},
		{UserID: "u3", Team: game.TeamAway, Slot: 0},
		{UserID: "u4", Team: game.TeamAway, Slot: 1},
	}
	if len(players) != len(want) {
		t.Fatalf("roster size = %d, want %d", len(players), len(want))
	}
	for i, p := range players {
		if p.UserID != want[i].UserID || p.Team != want[i].Team || p.Slot != want[i].Slot {
			t.Fatalf("roster[%d] = %+v, want %+v", i, p, want[i])
		}
	}

	// The window rows carry the game binding; the waiting line does not.
	for position := 1; position <= 4; position++ {
		row := env.userAt(t, position)
		if row.GameID == nil || *row.GameID != started.ID {
			t.Fatalf("position %d not bound to game: %+v", position, row)
		}
	}
	if waiting := env.userAt(t, 5); waiting.Assigned() {
		t.Fatalf("position 5 should stay unassigned: %+v", waiting)
	}

	// Starting a game does not move the window pointers.
	set := env.activeSet(t)
	if set.CurrentQueuePosition != 1 || set.QueueNextUp != 6 {
		t.Fatalf("pointers = %d/%d, want 1/6", set.CurrentQueuePosition, set.QueueNextUp)
	}
}

func TestGameService_CreateGameValidatesCourt(t *testing.T) {
	env := newTestEnv(t, 2, 2, 2)
	env.seedPlayers(t, 4)

	for _, court := range []string{"", "abc", "0", "3"} {
		if _, err := env.gameSvc.CreateGame(t.Context(), court); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("court %q: expected ErrInvalidInput, got %v", court, err)
		}
	}
}

func TestGameService_CreateGameRejectsBusyCourt(t *testing.T) {
	env := newTestEnv(t, 2, 2, 2)
	env.seedPlayers(t, 8)

	if _, err := env.gameSvc.CreateGame(t.Context(), "1"); err != nil {
		t.Fatalf("create first game: %v", err)
	}
	if _, err := env.gameSvc.CreateGame(t.Context(), "1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for busy court, got %v", err)
	}
}

func TestGameService_CreateGameRequiresFullWindow(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 3)

	if _, err := env.gameSvc.CreateGame(t.Context(), "1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short window, got %v", err)
	}

	games, err := env.games.ListBySet(t.Context(), env.set.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("no game may be persisted on a short window, found %d", len(games))
	}
}

func TestGameService_CreateGameRejectsAssignedWindow(t *testing.T) {
	env := newTestEnv(t, 2, 2, 2)
	env.seedPlayers(t, 4)

	if _, err := env.gameSvc.CreateGame(t.Context(), "1"); err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := env.gameSvc.CreateGame(t.Context(), "2"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput when the window is already playing, got %v", err)
	}
}

func TestGameService_FinalizeGameRunsPromotionPipeline(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 10)
	env.addUser(t, "u4", false) // u4 opts out of auto-up

	started, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	env.advance(20 * time.Minute)
	finalized, err := env.gameSvc.FinalizeGame(t.Context(), started.ID, 21, 15)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if finalized.State != game.StateFinal || finalized.Winner() != game.TeamHome {
		t.Fatalf("unexpected finalized game: %+v", finalized)
	}

	// The winners come back at the head of the advanced window.
	for position, want := range map[int]string{5: "u1", 6: "u2"} {
		row := env.userAt(t, position)
		if row.UserID != want || row.Type != checkin.TypeWinPromoted {
			t.Fatalf("position %d = %+v, want %s win-promoted", position, row, want)
		}
	}

	// The waiting line shifted up behind them.
	for position, want := range map[int]string{7: "u5", 8: "u6", 12: "u10"} {
		if got := env.userAt(t, position).UserID; got != want {
			t.Fatalf("position %d held by %s, want %s", position, got, want)
		}
	}

	// u3 re-queues at the tail via auto-up; u4 opted out and is gone.
	autoUpRow := env.userAt(t, 13)
	if autoUpRow.UserID != "u3" || autoUpRow.Type != checkin.TypeAutoUp {
		t.Fatalf("position 13 = %+v, want u3 auto-up", autoUpRow)
	}
	if _, exists, err := env.checkins.GetActiveByUser(t.Context(), env.set.ID, "u4"); err != nil || exists {
		t.Fatalf("u4 should not be re-queued: exists=%t err=%v", exists, err)
	}

	set := env.activeSet(t)
	if set.CurrentQueuePosition != 5 || set.QueueNextUp != 14 {
		t.Fatalf("pointers = %d/%d, want 5/14", set.CurrentQueuePosition, set.QueueNextUp)
	}
	env.assertDense(t)
}

func TestGameService_FinalizeGameStreakCapDemotesRepeatWinner(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 10)

	first, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create first game: %v", err)
	}
	env.advance(20 * time.Minute)
	if _, err := env.gameSvc.FinalizeGame(t.Context(), first.ID, 21, 15); err != nil {
		t.Fatalf("finalize first game: %v", err)
	}

	// u1/u2 won and hold the head again; u5/u6 face them.
	second, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create second game: %v", err)
	}
	env.advance(20 * time.Minute)
	if _, err := env.gameSvc.FinalizeGame(t.Context(), second.ID, 21, 10); err != nil {
		t.Fatalf("finalize second game: %v", err)
	}

	// Second straight win hits the cap: the losers are promoted instead and
	// the champions rotate out through auto-up.
	for position, want := range map[int]string{9: "u5", 10: "u6"} {
		row := env.userAt(t, position)
		if row.UserID != want || row.Type != checkin.TypeLossPromoted {
			t.Fatalf("position %d = %+v, want %s loss-promoted", position, row, want)
		}
	}

	for position, want := range map[int]string{16: "u1", 17: "u2"} {
		row := env.userAt(t, position)
		if row.UserID != want || row.Type != checkin.TypeAutoUp {
			t.Fatalf("position %d = %+v, want %s auto-up", position, row, want)
		}
	}

	set := env.activeSet(t)
	if set.CurrentQueuePosition != 9 || set.QueueNextUp != 18 {
		t.Fatalf("pointers = %d/%d, want 9/18", set.CurrentQueuePosition, set.QueueNextUp)
	}
	env.assertDense(t)
}

func TestGameService_FinalizeGameSkipsPromotedPlayerAlreadyInQueue(t *testing.T) {
	env := newTestEnv(t, 2, 1, 3)
	env.seedPlayers(t, 4)

	started, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	// u3 leaves mid-game with nobody waiting, so the roster keeps their seat,
	// then changes their mind and re-queues manually.
	env.advance(5 * time.Minute)
	if err := env.checkoutSvc.Checkout(t.Context(), "u3"); err != nil {
		t.Fatalf("checkout u3: %v", err)
	}
	if _, err := env.queueSvc.CheckIn(t.Context(), "u3"); err != nil {
		t.Fatalf("re-check-in u3: %v", err)
	}

	env.advance(15 * time.Minute)
	if _, err := env.gameSvc.FinalizeGame(t.Context(), started.ID, 10, 21); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	// The winning team is promoted, but u3 already holds a live row and must
	// not get a second one.
	rows := env.activeCheckins(t)
	u3Rows := 0
	for _, row := range rows {
		if row.UserID == "u3" {
			u3Rows++
		}
	}
	if u3Rows != 1 {
		t.Fatalf("u3 has %d active rows, want 1 (rows %+v)", u3Rows, rows)
	}
	if row := env.userAt(t, 4); row.UserID != "u3" || row.Type != checkin.TypeManual {
		t.Fatalf("position 4 = %+v, want u3 manual", row)
	}

	// Only the teammate without a live row takes a promoted seat; the losers
	// rotate back in through auto-up.
	if row := env.userAt(t, 5); row.UserID != "u4" || row.Type != checkin.TypeWinPromoted {
		t.Fatalf("position 5 = %+v, want u4 win-promoted", row)
	}
	for position, want := range map[int]string{6: "u1", 7: "u2"} {
		row := env.userAt(t, position)
		if row.UserID != want || row.Type != checkin.TypeAutoUp {
			t.Fatalf("position %d = %+v, want %s auto-up", position, row, want)
		}
	}

	set := env.activeSet(t)
	if set.CurrentQueuePosition != 5 || set.QueueNextUp != 8 {
		t.Fatalf("pointers = %d/%d, want 5/8", set.CurrentQueuePosition, set.QueueNextUp)
	}
	env.assertDense(t)
}

func TestGameService_FinalizeGameTieGoesToTeamTwo(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 4)

	started, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	env.advance(20 * time.Minute)
	if _, err := env.gameSvc.FinalizeGame(t.Context(), started.ID, 15, 15); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	for position, want := range map[int]string{5: "u3", 6: "u4"} {
		row := env.userAt(t, position)
		if row.UserID != want || row.Type != checkin.TypeWinPromoted {
			t.Fatalf("position %d = %+v, want %s win-promoted", position, row, want)
		}
	}
}

func TestGameService_FinalizeGameRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 4)

	started, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if _, err := env.gameSvc.FinalizeGame(t.Context(), "missing", 21, 15); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if _, err := env.gameSvc.FinalizeGame(t.Context(), started.ID, -1, 15); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative score, got %v", err)
	}

	if _, err := env.gameSvc.FinalizeGame(t.Context(), started.ID, 21, 15); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := env.gameSvc.FinalizeGame(t.Context(), started.ID, 21, 15); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on repeated finalize, got %v", err)
	}
}

type recordingPublisher struct {
	scores chan FinalScore
}

func (p *recordingPublisher) PublishFinalScore(_ context.Context, score FinalScore) error {
	p.scores <- score
	return nil
}

func TestGameService_FinalizeGamePublishesFinalScore(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 4)

	publisher := &recordingPublisher{scores: make(chan FinalScore, 1)}
	env.gameSvc.SetScorePublisher(publisher)

	started, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	env.advance(20 * time.Minute)
	if _, err := env.gameSvc.FinalizeGame(t.Context(), started.ID, 21, 19); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	select {
	case score := <-publisher.scores:
		if score.GameID != started.ID || score.Team1Score != 21 || score.Team2Score != 19 {
			t.Fatalf("unexpected published score: %+v", score)
		}
		if score.Court != "1" || score.GameSetID != env.set.ID {
			t.Fatalf("published score misses context fields: %+v", score)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("final score was never published")
	}
}

func TestGameService_ListGamesNewestFirst(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	env.seedPlayers(t, 10)

	first, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create first game: %v", err)
	}
	env.advance(20 * time.Minute)
	if _, err := env.gameSvc.FinalizeGame(t.Context(), first.ID, 21, 15); err != nil {
		t.Fatalf("finalize first game: %v", err)
	}

	env.advance(time.Minute)
	second, err := env.gameSvc.CreateGame(t.Context(), "1")
	if err != nil {
		t.Fatalf("create second game: %v", err)
	}

	games, err := env.gameSvc.ListGames(t.Context())
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}
	if games[0].ID != second.ID || games[1].ID != first.ID {
		t.Fatalf("games not newest first: %s then %s", games[0].ID, games[1].ID)
	}
}
