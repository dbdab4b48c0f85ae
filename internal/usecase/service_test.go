package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/courtside/pickup-queue/internal/domain/checkin"
	"github.com/courtside/pickup-queue/internal/domain/gameset"
	"github.com/courtside/pickup-queue/internal/domain/user"
	"github.com/courtside/pickup-queue/internal/infrastructure/repository/memory"
	"github.com/courtside/pickup-queue/internal/infrastructure/storage"
	"github.com/courtside/pickup-queue/internal/platform/cache"
	"github.com/courtside/pickup-queue/internal/platform/locking"
	"github.com/courtside/pickup-queue/internal/platform/logging"
)

type sequenceIDGenerator struct {
	prefix string
	n      int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n), nil
}

// testEnv wires every service against the in-memory repositories with a
// controllable clock.
type testEnv struct {
	sets     *memory.GameSetRepository
	checkins *memory.CheckinRepository
	games    *memory.GameRepository
	users    *memory.UserRepository

	gameSetSvc  *GameSetService
	queueSvc    *QueueService
	checkoutSvc *CheckoutService
	gameSvc     *GameService
	recordsSvc  *RecordsService

	clock time.Time
	set   gameset.GameSet
}

func (e *testEnv) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

func newTestEnv(t *testing.T, playersPerTeam, numberOfCourts, maxConsecutiveGames int) *testEnv {
	t.Helper()

	env := &testEnv{
		sets:     memory.NewGameSetRepository(nil),
		checkins: memory.NewCheckinRepository(nil),
		games:    memory.NewGameRepository(nil),
		users:    memory.NewUserRepository(nil),
		clock:    time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC),
	}

	logger := logging.NewNop()
	runner := storage.DirectRunner{}
	locks := locking.NewKeyedMutex()
	snapshots := cache.NewStore(time.Minute)
	now := func() time.Time { return env.clock }

	env.gameSetSvc = NewGameSetService(env.sets, runner, locks, &sequenceIDGenerator{prefix: "set"}, logger)
	env.gameSetSvc.now = now

	env.queueSvc = NewQueueService(env.sets, env.checkins, env.users, runner, locks, snapshots, &sequenceIDGenerator{prefix: "ci"}, logger)
	env.queueSvc.now = now

	env.checkoutSvc = NewCheckoutService(env.sets, env.checkins, env.games, runner, locks, snapshots, DefaultReplacementPolicy(), logger)
	env.checkoutSvc.now = now

	env.gameSvc = NewGameService(
		env.sets, env.checkins, env.games, env.users,
		NewPromotionCalculator(env.games), runner, locks, snapshots,
		&sequenceIDGenerator{prefix: "game"}, logger,
	)
	env.gameSvc.now = now

	env.recordsSvc = NewRecordsService(env.sets, env.games, 2, logger)

	set, err := env.gameSetSvc.Create(t.Context(), CreateGameSetInput{
		PlayersPerTeam:      playersPerTeam,
		NumberOfCourts:      numberOfCourts,
		MaxConsecutiveGames: maxConsecutiveGames,
	})
	if err != nil {
		t.Fatalf("create game set: %v", err)
	}
	env.set = set

	return env
}

// seedPlayers registers and checks in count users named u1..uN, all with
// auto-up enabled.
func (e *testEnv) seedPlayers(t *testing.T, count int) {
	t.Helper()

	for i := 1; i <= count; i++ {
		userID := fmt.Sprintf("u%d", i)
		e.addUser(t, userID, true)
		if _, err := e.queueSvc.CheckIn(t.Context(), userID); err != nil {
			t.Fatalf("check in %s: %v", userID, err)
		}
	}
}

func (e *testEnv) addUser(t *testing.T, userID string, autoUp bool) {
	t.Helper()

	err := e.users.Upsert(t.Context(), user.User{
		ID:        userID,
		Name:      userID,
		AutoUp:    autoUp,
		CreatedAt: e.clock,
	})
	if err != nil {
		t.Fatalf("upsert user %s: %v", userID, err)
	}
}

func (e *testEnv) activeSet(t *testing.T) gameset.GameSet {
	t.Helper()

	set, exists, err := e.sets.GetActive(t.Context())
	if err != nil || !exists {
		t.Fatalf("active set missing: exists=%t err=%v", exists, err)
	}
	return set
}

func (e *testEnv) activeCheckins(t *testing.T) []checkin.Checkin {
	t.Helper()

	rows, err := e.checkins.ListActiveBySet(t.Context(), e.set.ID)
	if err != nil {
		t.Fatalf("list active checkins: %v", err)
	}
	return rows
}

// assertDense verifies the core ledger invariant: active positions form a
// dense run of distinct integers starting at the earliest active position.
func (e *testEnv) assertDense(t *testing.T) {
	t.Helper()

	rows := e.activeCheckins(t)
	for i := 1; i < len(rows); i++ {
		if rows[i].QueuePosition != rows[i-1].QueuePosition+1 {
			t.Fatalf("positions not dense: %d follows %d (rows %+v)",
				rows[i].QueuePosition, rows[i-1].QueuePosition, positionsOf(rows))
		}
	}
}

func (e *testEnv) userAt(t *testing.T, position int) checkin.Checkin {
	t.Helper()

	for _, row := range e.activeCheckins(t) {
		if row.QueuePosition == position {
			return row
		}
	}
	t.Fatalf("no active checkin at position %d", position)
	return checkin.Checkin{}
}

func positionsOf(rows []checkin.Checkin) []int {
	out := make([]int, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.QueuePosition)
	}
	return out
}
