package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtside/pickup-queue/internal/domain/checkin"
	"github.com/courtside/pickup-queue/internal/domain/gameset"
	"github.com/courtside/pickup-queue/internal/domain/queue"
	"github.com/courtside/pickup-queue/internal/domain/user"
	"github.com/courtside/pickup-queue/internal/infrastructure/storage"
	"github.com/courtside/pickup-queue/internal/platform/cache"
	idgen "github.com/courtside/pickup-queue/internal/platform/id"
	"github.com/courtside/pickup-queue/internal/platform/locking"
	"github.com/courtside/pickup-queue/internal/platform/logging"
	"github.com/courtside/pickup-queue/internal/platform/resilience"
)

// QueueEntry is one row of the role-classified queue snapshot.
type QueueEntry struct {
	UserID   string
	Position int
	Role     queue.Role
	Team     *int
	Type     checkin.Type
}

type QueueSnapshot struct {
	GameSetID            string
	PlayersPerTeam       int
	CurrentQueuePosition int
	QueueNextUp          int
	Entries              []QueueEntry
}

// QueueService owns the append side of the ledger: manual check-ins and the
// read-only snapshot.
type QueueService struct {
	sets      gameset.Repository
	checkins  checkin.Repository
	users     user.Repository
	runner    storage.Runner
	locks     *locking.KeyedMutex
	snapshots *cache.Store
	rebuilds  resilience.SingleFlight
	ids       idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewQueueService(
	sets gameset.Repository,
	checkins checkin.Repository,
	users user.Repository,
	runner storage.Runner,
	locks *locking.KeyedMutex,
	snapshots *cache.Store,
	ids idgen.Generator,
	logger *logging.Logger,
) *QueueService {
	if logger == nil {
		logger = logging.Default()
	}

	return &QueueService{
		sets:      sets,
		checkins:  checkins,
		users:     users,
		runner:    runner,
		locks:     locks,
		snapshots: snapshots,
		ids:       ids,
		logger:    logger,
		now:       time.Now,
	}
}

// CheckIn appends the player at the tail of the queue. It is idempotent per
// set: a player with an active check-in gets the existing row back.
func (s *QueueService) CheckIn(ctx context.Context, userID string) (checkin.Checkin, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.CheckIn")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return checkin.Checkin{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	if _, exists, err := s.users.GetByID(ctx, userID); err != nil {
		return checkin.Checkin{}, fmt.Errorf("get user %s: %w", userID, err)
	} else if !exists {
		return checkin.Checkin{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	set, unlock, err := lockActiveSet(ctx, s.sets, s.locks)
	if err != nil {
		return checkin.Checkin{}, err
	}
	defer unlock()

	existing, exists, err := s.checkins.GetActiveByUser(ctx, set.ID, userID)
	if err != nil {
		return checkin.Checkin{}, fmt.Errorf("get active checkin for user %s: %w", userID, err)
	}
	if exists {
		return existing, nil
	}

	checkinID, err := s.ids.NewID()
	if err != nil {
		return checkin.Checkin{}, fmt.Errorf("generate checkin id: %w", err)
	}

	item := checkin.Checkin{
		ID:            checkinID,
		UserID:        userID,
		GameSetID:     set.ID,
		QueuePosition: set.QueueNextUp,
		IsActive:      true,
		Type:          checkin.TypeManual,
		CreatedAt:     s.now().UTC(),
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.checkins.Insert(ctx, item); err != nil {
			return fmt.Errorf("insert checkin: %w", err)
		}
		if err := s.sets.SetPointers(ctx, set.ID, set.CurrentQueuePosition, set.QueueNextUp+1); err != nil {
			return fmt.Errorf("advance queue tail pointer: %w", err)
		}
		return nil
	})
	if err != nil {
		return checkin.Checkin{}, err
	}

	s.snapshots.Delete(ctx, queueCacheKey(set.ID))
	s.logger.InfoContext(ctx, "player checked in",
		"user_id", userID,
		"game_set_id", set.ID,
		"queue_position", item.QueuePosition,
	)

	return item, nil
}

// Snapshot returns the role-classified queue. It takes no lock; readers may
// observe a point-in-time view concurrent with mutations.
func (s *QueueService) Snapshot(ctx context.Context) (QueueSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.Snapshot")
	defer span.End()

	set, exists, err := s.sets.GetActive(ctx)
	if err != nil {
		return QueueSnapshot{}, fmt.Errorf("get active game set: %w", err)
	}
	if !exists {
		return QueueSnapshot{}, ErrNoActiveGameSet
	}

	if cached, ok := s.snapshots.Get(ctx, queueCacheKey(set.ID)); ok {
		if snapshot, ok := cached.(QueueSnapshot); ok {
			return snapshot, nil
		}
	}

	// Concurrent readers after an invalidation collapse into one rebuild.
	rebuilt, err, _ := s.rebuilds.Do(queueCacheKey(set.ID), func() (any, error) {
		return s.buildSnapshot(ctx, set)
	})
	if err != nil {
		return QueueSnapshot{}, err
	}

	snapshot, ok := rebuilt.(QueueSnapshot)
	if !ok {
		return QueueSnapshot{}, fmt.Errorf("unexpected snapshot type %T", rebuilt)
	}
	return snapshot, nil
}

func (s *QueueService) buildSnapshot(ctx context.Context, set gameset.GameSet) (QueueSnapshot, error) {
	actives, err := s.checkins.ListActiveBySet(ctx, set.ID)
	if err != nil {
		return QueueSnapshot{}, fmt.Errorf("list active checkins: %w", err)
	}

	entries := make([]QueueEntry, 0, len(actives))
	for _, item := range actives {
		entries = append(entries, QueueEntry{
			UserID:   item.UserID,
			Position: item.QueuePosition,
			Role:     queue.Classify(item.QueuePosition, set.CurrentQueuePosition, set.PlayersPerTeam),
			Team:     item.Team,
			Type:     item.Type,
		})
	}

	snapshot := QueueSnapshot{
		GameSetID:            set.ID,
		PlayersPerTeam:       set.PlayersPerTeam,
		CurrentQueuePosition: set.CurrentQueuePosition,
		QueueNextUp:          set.QueueNextUp,
		Entries:              entries,
	}
	s.snapshots.Set(ctx, queueCacheKey(set.ID), snapshot)

	return snapshot, nil
}

func queueCacheKey(gameSetID string) string {
	return "queue::" + gameSetID
}

// lockActiveSet resolves the active set, locks its key and re-reads the
// pointers under the lock so no operation works from a stale pair.
func lockActiveSet(ctx context.Context, sets gameset.Repository, locks *locking.KeyedMutex) (gameset.GameSet, func(), error) {
	active, exists, err := sets.GetActive(ctx)
	if err != nil {
		return gameset.GameSet{}, nil, fmt.Errorf("get active game set: %w", err)
	}
	if !exists {
		return gameset.GameSet{}, nil, ErrNoActiveGameSet
	}

	unlock := locks.Lock(active.ID)

	fresh, exists, err := sets.GetByID(ctx, active.ID)
	if err != nil || !exists || !fresh.IsActive {
		unlock()
		if err != nil {
			return gameset.GameSet{}, nil, fmt.Errorf("reload game set %s: %w", active.ID, err)
		}
		return gameset.GameSet{}, nil, ErrNoActiveGameSet
	}

	return fresh, unlock, nil
}
