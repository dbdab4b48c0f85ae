package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/pickup-queue/internal/domain/checkin"
	"github.com/courtside/pickup-queue/internal/domain/game"
	"github.com/courtside/pickup-queue/internal/domain/gameset"
	"github.com/courtside/pickup-queue/internal/domain/queue"
	"github.com/courtside/pickup-queue/internal/domain/user"
	"github.com/courtside/pickup-queue/internal/infrastructure/storage"
	"github.com/courtside/pickup-queue/internal/platform/cache"
	idgen "github.com/courtside/pickup-queue/internal/platform/id"
	"github.com/courtside/pickup-queue/internal/platform/locking"
	"github.com/courtside/pickup-queue/internal/platform/logging"
)

// FinalScore is the payload pushed to the scoreboard after finalization.
type FinalScore struct {
	GameID     string
	GameSetID  string
	Court      string
	Team1Score int
	Team2Score int
	FinishedAt time.Time
}

// ScorePublisher pushes final scores to an external scoreboard. Publishing
// is best-effort and never affects the finalization outcome.
type ScorePublisher interface {
	PublishFinalScore(ctx context.Context, score FinalScore) error
}

// GameService orchestrates the game lifecycle: assembling the active window
// into a started game and finalizing it into the promotion/auto-up pipeline.
type GameService struct {
	sets       gameset.Repository
	checkins   checkin.Repository
	games      game.Repository
	users      user.Repository
	promotions *PromotionCalculator
	runner     storage.Runner
	locks      *locking.KeyedMutex
	snapshots  *cache.Store
	ids        idgen.Generator
	publisher  ScorePublisher
	logger     *logging.Logger
	now        func() time.Time
}

func NewGameService(
	sets gameset.Repository,
	checkins checkin.Repository,
	games game.Repository,
	users user.Repository,
	promotions *PromotionCalculator,
	runner storage.Runner,
	locks *locking.KeyedMutex,
	snapshots *cache.Store,
	ids idgen.Generator,
	logger *logging.Logger,
) *GameService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameService{
		sets:       sets,
		checkins:   checkins,
		games:      games,
		users:      users,
		promotions: promotions,
		runner:     runner,
		locks:      locks,
		snapshots:  snapshots,
		ids:        ids,
		logger:     logger,
		now:        time.Now,
	}
}

// SetScorePublisher attaches an optional scoreboard sink.
func (s *GameService) SetScorePublisher(publisher ScorePublisher) {
	s.publisher = publisher
}

// CreateGame assembles the active window into a started game on the given
// court: the first playersPerTeam positions become team 1, the next
// playersPerTeam team 2, and durable roster records are written.
func (s *GameService) CreateGame(ctx context.Context, court string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreateGame")
	defer span.End()

	court = strings.TrimSpace(court)
	if court == "" {
		return game.Game{}, fmt.Errorf("%w: court is required", ErrInvalidInput)
	}

	set, unlock, err := lockActiveSet(ctx, s.sets, s.locks)
	if err != nil {
		return game.Game{}, err
	}
	defer unlock()

	if courtNumber, convErr := strconv.Atoi(court); convErr != nil || courtNumber < 1 || courtNumber > set.NumberOfCourts {
		return game.Game{}, fmt.Errorf("%w: court must be a number between 1 and %d", ErrInvalidInput, set.NumberOfCourts)
	}

	existing, err := s.games.ListBySet(ctx, set.ID)
	if err != nil {
		return game.Game{}, fmt.Errorf("list games for set %s: %w", set.ID, err)
	}
	for _, g := range existing {
		if g.State == game.StateStarted && g.Court == court {
			return game.Game{}, fmt.Errorf("%w: court %s already has a game in progress", ErrInvalidInput, court)
		}
	}

	gameID, err := s.ids.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	now := s.now().UTC()
	item := game.Game{
		ID:        gameID,
		SetID:     set.ID,
		Court:     court,
		State:     game.StateStarted,
		CreatedAt: now,
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		window, err := s.activeWindow(ctx, set)
		if err != nil {
			return err
		}

		if err := s.games.Insert(ctx, item); err != nil {
			return fmt.Errorf("insert game: %w", err)
		}

		players := make([]game.Player, 0, len(window))
		for i, row := range window {
			team := game.TeamHome
			if i >= set.PlayersPerTeam {
				team = game.TeamAway
			}
			if err := s.checkins.AssignGame(ctx, row.ID, item.ID, team); err != nil {
				return fmt.Errorf("assign checkin %s to game: %w", row.ID, err)
			}
			players = append(players, game.Player{
				GameID:    item.ID,
				UserID:    row.UserID,
				Team:      team,
				Slot:      i % set.PlayersPerTeam,
				CreatedAt: now,
			})
		}

		if err := s.games.InsertPlayers(ctx, players); err != nil {
			return fmt.Errorf("insert game players: %w", err)
		}
		return nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.snapshots.Delete(ctx, queueCacheKey(set.ID))
	s.logger.InfoContext(ctx, "game started",
		"game_id", item.ID,
		"game_set_id", set.ID,
		"court", court,
	)

	return item, nil
}

// activeWindow loads the 2*playersPerTeam rows spanning the live window and
// requires it to be fully populated and unassigned.
func (s *GameService) activeWindow(ctx context.Context, set gameset.GameSet) ([]checkin.Checkin, error) {
	actives, err := s.checkins.ListActiveBySet(ctx, set.ID)
	if err != nil {
		return nil, fmt.Errorf("list active checkins: %w", err)
	}

	windowEnd := queue.NextUpStart(set.CurrentQueuePosition, set.PlayersPerTeam)
	window := make([]checkin.Checkin, 0, queue.WindowSize(set.PlayersPerTeam))
	for _, row := range actives {
		if row.QueuePosition < set.CurrentQueuePosition || row.QueuePosition >= windowEnd {
			continue
		}
		if row.Assigned() {
			return nil, fmt.Errorf("%w: position %d is already assigned to a game", ErrInvalidInput, row.QueuePosition)
		}
		window = append(window, row)
	}

	if len(window) != queue.WindowSize(set.PlayersPerTeam) {
		return nil, fmt.Errorf("%w: active window has %d of %d players",
			ErrInvalidInput, len(window), queue.WindowSize(set.PlayersPerTeam))
	}

	return window, nil
}

// FinalizeGame persists the scores, retires both rosters from the queue,
// advances the window past them and runs the promotion and auto-up pipeline.
func (s *GameService) FinalizeGame(ctx context.Context, gameID string, team1Score, team2Score int) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.FinalizeGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game_id is required", ErrInvalidInput)
	}
	if team1Score < 0 || team2Score < 0 {
		return game.Game{}, fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
	}

	located, exists, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game %s: %w", gameID, err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrGameNotFound, gameID)
	}

	unlock := s.locks.Lock(located.SetID)
	defer unlock()

	set, exists, err := s.sets.GetByID(ctx, located.SetID)
	if err != nil {
		return game.Game{}, fmt.Errorf("reload game set %s: %w", located.SetID, err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game_set=%s", ErrNotFound, located.SetID)
	}

	g, exists, err := s.games.GetByID(ctx, gameID)
	if err != nil || !exists {
		if err != nil {
			return game.Game{}, fmt.Errorf("reload game %s: %w", gameID, err)
		}
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrGameNotFound, gameID)
	}
	if g.State == game.StateFinal {
		return game.Game{}, fmt.Errorf("%w: game %s is already finalized", ErrInvalidInput, gameID)
	}

	now := s.now().UTC()
	finalized := g
	finalized.State = game.StateFinal
	finalized.Team1Score = &team1Score
	finalized.Team2Score = &team2Score
	finalized.FinishedAt = &now

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		players, err := s.games.ListPlayers(ctx, gameID)
		if err != nil {
			return fmt.Errorf("list game players: %w", err)
		}

		roster, err := s.checkins.ListActiveByGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("list roster checkins: %w", err)
		}
		for _, row := range roster {
			if err := s.checkins.Deactivate(ctx, row.ID); err != nil {
				return fmt.Errorf("deactivate checkin %s: %w", row.ID, err)
			}
		}

		if err := s.games.Finalize(ctx, gameID, team1Score, team2Score, now); err != nil {
			return fmt.Errorf("finalize game: %w", err)
		}

		// The retired rosters sat at the head of the window; once they are
		// gone the live queue starts a full window later.
		head := queue.NextUpStart(set.CurrentQueuePosition, set.PlayersPerTeam)
		queueNextUp := set.QueueNextUp

		promotion, err := s.promotions.Calculate(ctx, finalized, set.MaxConsecutiveGames)
		if err != nil {
			return err
		}

		// A promoted player can already hold a live row: a short-handed
		// checkout keeps their roster seat while a later manual check-in
		// re-queues them. They keep that row instead of getting a second one.
		promoted := make([]game.Player, 0, set.PlayersPerTeam)
		for _, p := range players {
			if p.Team != promotion.Team {
				continue
			}
			if _, active, err := s.checkins.GetActiveByUser(ctx, set.ID, p.UserID); err != nil {
				return fmt.Errorf("get active checkin for user %s: %w", p.UserID, err)
			} else if active {
				continue
			}
			promoted = append(promoted, p)
		}

		if len(promoted) > 0 {
			if err := s.checkins.ShiftPositionsAfter(ctx, set.ID, head-1, len(promoted), 0); err != nil {
				return fmt.Errorf("make room for promoted team: %w", err)
			}
		}

		for offset, p := range promoted {
			checkinID, err := s.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate checkin id: %w", err)
			}
			if err := s.checkins.Insert(ctx, checkin.Checkin{
				ID:            checkinID,
				UserID:        p.UserID,
				GameSetID:     set.ID,
				QueuePosition: head + offset,
				IsActive:      true,
				Type:          promotion.Type,
				CreatedAt:     now,
			}); err != nil {
				return fmt.Errorf("insert promoted checkin for user %s: %w", p.UserID, err)
			}
		}
		queueNextUp += len(promoted)

		// Sequential on purpose: each auto-up insertion must see the pointer
		// advanced by the previous one, and one player failing must not keep
		// the rest out of the queue.
		for _, p := range players {
			if p.Team == promotion.Team {
				continue
			}
			inserted, err := s.autoUp(ctx, set, p.UserID, queueNextUp, now)
			if err != nil {
				s.logger.ErrorContext(ctx, "auto-up insertion failed",
					"user_id", p.UserID,
					"game_id", gameID,
					"error", err,
				)
				continue
			}
			if inserted {
				queueNextUp++
			}
		}

		if err := s.sets.SetPointers(ctx, set.ID, head, queueNextUp); err != nil {
			return fmt.Errorf("advance window pointers: %w", err)
		}
		return nil
	})
	if err != nil {
		return game.Game{}, err
	}

	s.snapshots.Delete(ctx, queueCacheKey(set.ID))
	s.logger.InfoContext(ctx, "game finalized",
		"game_id", gameID,
		"game_set_id", set.ID,
		"team1_score", team1Score,
		"team2_score", team2Score,
	)

	s.publishFinalScore(finalized)

	return finalized, nil
}

// autoUp appends one re-queue row for a player whose auto-up preference is
// set, unless the player is already back in the queue.
func (s *GameService) autoUp(ctx context.Context, set gameset.GameSet, userID string, position int, now time.Time) (bool, error) {
	u, exists, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get user %s: %w", userID, err)
	}
	if !exists || !u.AutoUp {
		return false, nil
	}

	if _, active, err := s.checkins.GetActiveByUser(ctx, set.ID, userID); err != nil {
		return false, fmt.Errorf("get active checkin for user %s: %w", userID, err)
	} else if active {
		return false, nil
	}

	checkinID, err := s.ids.NewID()
	if err != nil {
		return false, fmt.Errorf("generate checkin id: %w", err)
	}

	if err := s.checkins.Insert(ctx, checkin.Checkin{
		ID:            checkinID,
		UserID:        userID,
		GameSetID:     set.ID,
		QueuePosition: position,
		IsActive:      true,
		Type:          checkin.TypeAutoUp,
		CreatedAt:     now,
	}); err != nil {
		return false, fmt.Errorf("insert auto-up checkin: %w", err)
	}

	return true, nil
}

// ListGames returns every game of the active set, newest first.
func (s *GameService) ListGames(ctx context.Context) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListGames")
	defer span.End()

	set, exists, err := s.sets.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active game set: %w", err)
	}
	if !exists {
		return nil, ErrNoActiveGameSet
	}

	games, err := s.games.ListBySet(ctx, set.ID)
	if err != nil {
		return nil, fmt.Errorf("list games for set %s: %w", set.ID, err)
	}
	return games, nil
}

func (s *GameService) publishFinalScore(g game.Game) {
	if s.publisher == nil || g.Team1Score == nil || g.Team2Score == nil || g.FinishedAt == nil {
		return
	}

	score := FinalScore{
		GameID:     g.ID,
		GameSetID:  g.SetID,
		Court:      g.Court,
		Team1Score: *g.Team1Score,
		Team2Score: *g.Team2Score,
		FinishedAt: *g.FinishedAt,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.publisher.PublishFinalScore(ctx, score); err != nil {
			s.logger.Error("publish final score failed",
				"game_id", score.GameID,
				"error", err,
			)
		}
	}()
}
