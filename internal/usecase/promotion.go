package usecase

import (
	"context"
	"fmt"

	"github.com/courtside/pickup-queue/internal/domain/checkin"
	"github.com/courtside/pickup-queue/internal/domain/game"
)

// Promotion is the outcome of the win/loss-streak rule for one finalized
// game: the named team is re-inserted at the head of the queue.
type Promotion struct {
	Type checkin.Type
	Team int
}

// PromotionCalculator walks a court's finalized games, most recent first,
// and decides whether the winner keeps playing or the streak cap forces
// rotation.
type PromotionCalculator struct {
	games game.Repository
}

func NewPromotionCalculator(games game.Repository) *PromotionCalculator {
	return &PromotionCalculator{games: games}
}

// Calculate expects g to be finalized already; it counts as the most recent
// game of the streak. Equal scores resolve to team 2 via Game.Winner.
func (c *PromotionCalculator) Calculate(ctx context.Context, g game.Game, maxConsecutiveGames int) (Promotion, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PromotionCalculator.Calculate")
	defer span.End()

	if g.Team1Score == nil || g.Team2Score == nil {
		return Promotion{}, fmt.Errorf("%w: game %s has no scores to promote from", ErrInvalidInput, g.ID)
	}

	winner := g.Winner()

	history, err := c.games.ListFinalizedByCourt(ctx, g.SetID, g.Court)
	if err != nil {
		return Promotion{}, fmt.Errorf("list finalized games on court %s: %w", g.Court, err)
	}

	// The just-finished game counts as 1; earlier games on the court extend
	// the streak until a different winner shows up.
	streak := 1
	for _, h := range history {
		if h.ID == g.ID {
			continue
		}
		if h.Winner() != winner {
			break
		}
		streak++
	}

	if streak < maxConsecutiveGames {
		return Promotion{Type: checkin.TypeWinPromoted, Team: winner}, nil
	}

	return Promotion{Type: checkin.TypeLossPromoted, Team: otherTeam(winner)}, nil
}

func otherTeam(team int) int {
	if team == game.TeamHome {
		return game.TeamAway
	}
	return game.TeamHome
}
