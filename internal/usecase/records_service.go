package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/courtside/pickup-queue/internal/domain/game"
	"github.com/courtside/pickup-queue/internal/domain/gameset"
	"github.com/courtside/pickup-queue/internal/platform/logging"
)

const defaultRecordWorkers = 4

// PlayerRecord is one player's win/loss tally across a set's finalized games.
type PlayerRecord struct {
	UserID string `json:"user_id"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// RecordsService aggregates win/loss records from finalized games. Roster
// lookups fan out over a worker pool because each game needs its own player
// list.
type RecordsService struct {
	sets       gameset.Repository
	games      game.Repository
	maxWorkers int
	logger     *logging.Logger
}

func NewRecordsService(sets gameset.Repository, games game.Repository, maxWorkers int, logger *logging.Logger) *RecordsService {
	if maxWorkers < 1 {
		maxWorkers = defaultRecordWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RecordsService{
		sets:       sets,
		games:      games,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

type gameOutcome struct {
	winners []string
	losers  []string
	err     error
}

// Records tallies wins and losses per player over every finalized game of
// the active set. Ties count as a team 2 win, matching game.Winner.
func (s *RecordsService) Records(ctx context.Context) ([]PlayerRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecordsService.Records")
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

	finalized := games[:0:0]
	for _, g := range games {
		if g.State == game.StateFinal {
			finalized = append(finalized, g)
		}
	}
	if len(finalized) == 0 {
		return []PlayerRecord{}, nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(finalized) {
		workerCount = len(finalized)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	outcomes := make(chan gameOutcome, len(finalized))

	var workers sync.WaitGroup
	for _, g := range finalized {
		g := g
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			outcomes <- s.resolveOutcome(ctx, g)
		}); err != nil {
			workers.Done()
			outcomes <- gameOutcome{err: fmt.Errorf("submit record task for game %s: %w", g.ID, err)}
		}
	}
	workers.Wait()
	close(outcomes)

	tallies := make(map[string]*PlayerRecord)
	tally := func(userID string) *PlayerRecord {
		record, ok := tallies[userID]
		if !ok {
			record = &PlayerRecord{UserID: userID}
			tallies[userID] = record
		}
		return record
	}

	for outcome := range outcomes {
		if outcome.err != nil {
			return nil, outcome.err
		}
		for _, userID := range outcome.winners {
			tally(userID).Wins++
		}
		for _, userID := range outcome.losers {
			tally(userID).Losses++
		}
	}

	records := make([]PlayerRecord, 0, len(tallies))
	for _, record := range tallies {
		records = append(records, *record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Wins != records[j].Wins {
			return records[i].Wins > records[j].Wins
		}
		return records[i].UserID < records[j].UserID
	})

	return records, nil
}

func (s *RecordsService) resolveOutcome(ctx context.Context, g game.Game) gameOutcome {
	players, err := s.games.ListPlayers(ctx, g.ID)
	if err != nil {
		return gameOutcome{err: fmt.Errorf("list players for game %s: %w", g.ID, err)}
	}

	winner := g.Winner()
	outcome := gameOutcome{}
	for _, p := range players {
		if p.Team == winner {
			outcome.winners = append(outcome.winners, p.UserID)
		} else {
			outcome.losers = append(outcome.losers, p.UserID)
		}
	}
	return outcome
}
