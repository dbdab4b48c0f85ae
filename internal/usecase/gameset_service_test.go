package usecase

import (
	"errors"
	"testing"
)

func TestGameSetService_CreateActivatesWithFreshPointers(t *testing.T) {
	env := newTestEnv(t, 4, 2, 2)

	set := env.activeSet(t)
	if set.PlayersPerTeam != 4 || set.NumberOfCourts != 2 || set.MaxConsecutiveGames != 2 {
		t.Fatalf("unexpected configuration: %+v", set)
	}
	if set.CurrentQueuePosition != 1 || set.QueueNextUp != 1 {
		t.Fatalf("pointers should start at 1/1, got %d/%d", set.CurrentQueuePosition, set.QueueNextUp)
	}
}

func TestGameSetService_CreateDeactivatesPreviousSet(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)
	first := env.set

	env.advance(1)
	second, err := env.gameSetSvc.Create(t.Context(), CreateGameSetInput{
		PlayersPerTeam:      3,
		NumberOfCourts:      1,
		MaxConsecutiveGames: 3,
	})
	if err != nil {
		t.Fatalf("create second set: %v", err)
	}

	previous, exists, err := env.sets.GetByID(t.Context(), first.ID)
	if err != nil || !exists {
		t.Fatalf("first set missing: exists=%t err=%v", exists, err)
	}
	if previous.IsActive {
		t.Fatal("first set should be deactivated by the second activation")
	}

	active, err := env.gameSetSvc.Active(t.Context())
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("active set = %s, want %s", active.ID, second.ID)
	}
}

func TestGameSetService_CreateRejectsBadConfiguration(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)

	cases := []struct {
		name  string
		input CreateGameSetInput
	}{
		{name: "players per team too small", input: CreateGameSetInput{PlayersPerTeam: 0, NumberOfCourts: 1, MaxConsecutiveGames: 1}},
		{name: "players per team too large", input: CreateGameSetInput{PlayersPerTeam: 6, NumberOfCourts: 1, MaxConsecutiveGames: 1}},
		{name: "no courts", input: CreateGameSetInput{PlayersPerTeam: 3, NumberOfCourts: 0, MaxConsecutiveGames: 1}},
		{name: "zero streak cap", input: CreateGameSetInput{PlayersPerTeam: 3, NumberOfCourts: 1, MaxConsecutiveGames: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.gameSetSvc.Create(t.Context(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestGameSetService_EndDeactivatesActiveSet(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)

	ended, err := env.gameSetSvc.End(t.Context())
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.ID != env.set.ID || ended.IsActive {
		t.Fatalf("ended set should be the deactivated active set, got %+v", ended)
	}

	if _, err := env.gameSetSvc.Active(t.Context()); !errors.Is(err, ErrNoActiveGameSet) {
		t.Fatalf("expected ErrNoActiveGameSet after end, got %v", err)
	}
}

func TestGameSetService_EndWithoutActiveSet(t *testing.T) {
	env := newTestEnv(t, 2, 1, 2)

	if _, err := env.gameSetSvc.End(t.Context()); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := env.gameSetSvc.End(t.Context()); !errors.Is(err, ErrNoActiveGameSet) {
		t.Fatalf("expected ErrNoActiveGameSet, got %v", err)
	}
}
