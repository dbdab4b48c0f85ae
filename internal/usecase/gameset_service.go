package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/pickup-queue/internal/domain/gameset"
	"github.com/courtside/pickup-queue/internal/infrastructure/storage"
	idgen "github.com/courtside/pickup-queue/internal/platform/id"
	"github.com/courtside/pickup-queue/internal/platform/locking"
	"github.com/courtside/pickup-queue/internal/platform/logging"
)

// registryLockKey serializes activation changes; ledger operations lock on
// the individual set id instead.
const registryLockKey = "gameset-registry"

type CreateGameSetInput struct {
	PlayersPerTeam      int
	NumberOfCourts      int
	MaxConsecutiveGames int
}

// GameSetService manages the registry: which set is active and its window
// configuration. Exactly one set may be active at a time.
type GameSetService struct {
	sets   gameset.Repository
	runner storage.Runner
	locks  *locking.KeyedMutex
	ids    idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewGameSetService(
	sets gameset.Repository,
	runner storage.Runner,
	locks *locking.KeyedMutex,
	ids idgen.Generator,
	logger *logging.Logger,
) *GameSetService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameSetService{
		sets:   sets,
		runner: runner,
		locks:  locks,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}
}

func (s *GameSetService) Create(ctx context.Context, input CreateGameSetInput) (gameset.GameSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameSetService.Create")
	defer span.End()

	if input.PlayersPerTeam < gameset.MinPlayersPerTeam || input.PlayersPerTeam > gameset.MaxPlayersPerTeam {
		return gameset.GameSet{}, fmt.Errorf("%w: players_per_team must be between %d and %d",
			ErrInvalidInput, gameset.MinPlayersPerTeam, gameset.MaxPlayersPerTeam)
	}
	if input.NumberOfCourts < 1 {
		return gameset.GameSet{}, fmt.Errorf("%w: number_of_courts must be at least 1", ErrInvalidInput)
	}
	if input.MaxConsecutiveGames < 1 {
		return gameset.GameSet{}, fmt.Errorf("%w: max_consecutive_games must be at least 1", ErrInvalidInput)
	}

	unlock := s.locks.Lock(registryLockKey)
	defer unlock()

	setID, err := s.ids.NewID()
	if err != nil {
		return gameset.GameSet{}, fmt.Errorf("generate game set id: %w", err)
	}

	item := gameset.GameSet{
		ID:                   setID,
		PlayersPerTeam:       input.PlayersPerTeam,
		NumberOfCourts:       input.NumberOfCourts,
		MaxConsecutiveGames:  input.MaxConsecutiveGames,
		CurrentQueuePosition: 1,
		QueueNextUp:          1,
		IsActive:             true,
		CreatedAt:            s.now().UTC(),
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		active, exists, err := s.sets.GetActive(ctx)
		if err != nil {
			return fmt.Errorf("get active game set: %w", err)
		}
		if exists {
			if err := s.sets.Deactivate(ctx, active.ID); err != nil {
				return fmt.Errorf("deactivate game set %s: %w", active.ID, err)
			}
			s.logger.InfoContext(ctx, "previous game set deactivated", "game_set_id", active.ID)
		}

		if err := s.sets.Create(ctx, item); err != nil {
			return fmt.Errorf("create game set: %w", err)
		}
		return nil
	})
	if err != nil {
		return gameset.GameSet{}, err
	}

	s.logger.InfoContext(ctx, "game set activated",
		"game_set_id", item.ID,
		"players_per_team", item.PlayersPerTeam,
		"number_of_courts", item.NumberOfCourts,
	)

	return item, nil
}

func (s *GameSetService) End(ctx context.Context) (gameset.GameSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameSetService.End")
	defer span.End()

	unlock := s.locks.Lock(registryLockKey)
	defer unlock()

	active, exists, err := s.sets.GetActive(ctx)
	if err != nil {
		return gameset.GameSet{}, fmt.Errorf("get active game set: %w", err)
	}
	if !exists {
		return gameset.GameSet{}, fmt.Errorf("%w: nothing to end", ErrNoActiveGameSet)
	}

	unlockSet := s.locks.Lock(active.ID)
	defer unlockSet()

	if err := s.sets.Deactivate(ctx, active.ID); err != nil {
		return gameset.GameSet{}, fmt.Errorf("deactivate game set %s: %w", active.ID, err)
	}

	s.logger.InfoContext(ctx, "game set ended", "game_set_id", active.ID)

	ended := active
	ended.IsActive = false
	return ended, nil
}

func (s *GameSetService) Active(ctx context.Context) (gameset.GameSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameSetService.Active")
	defer span.End()

	active, exists, err := s.sets.GetActive(ctx)
	if err != nil {
		return gameset.GameSet{}, fmt.Errorf("get active game set: %w", err)
	}
	if !exists {
		return gameset.GameSet{}, ErrNoActiveGameSet
	}

	return active, nil
}
