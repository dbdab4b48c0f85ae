package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtside/pickup-queue/internal/domain/checkin"
	"github.com/courtside/pickup-queue/internal/domain/game"
	"github.com/courtside/pickup-queue/internal/domain/gameset"
	"github.com/courtside/pickup-queue/internal/domain/queue"
	"github.com/courtside/pickup-queue/internal/infrastructure/storage"
	"github.com/courtside/pickup-queue/internal/platform/cache"
	"github.com/courtside/pickup-queue/internal/platform/locking"
	"github.com/courtside/pickup-queue/internal/platform/logging"
)

// ReplacementPolicy names what happens when a checkout vacates a team slot
// and no NEXT_UP player can backfill it. The defaults preserve the
// historical asymmetry: a HOME checkout fails hard, an AWAY checkout lets
// the game continue short-handed.
type ReplacementPolicy struct {
	HomeRequiresReplacement bool
	AwayRequiresReplacement bool
}

func DefaultReplacementPolicy() ReplacementPolicy {
	return ReplacementPolicy{HomeRequiresReplacement: true}
}

// CheckoutService removes a player from the queue and rebalances the ledger.
// The algorithm depends on the player's role at the moment of checkout.
type CheckoutService struct {
	sets      gameset.Repository
	checkins  checkin.Repository
	games     game.Repository
	runner    storage.Runner
	locks     *locking.KeyedMutex
	snapshots *cache.Store
	policy    ReplacementPolicy
	logger    *logging.Logger
	now       func() time.Time
}

func NewCheckoutService(
	sets gameset.Repository,
	checkins checkin.Repository,
	games game.Repository,
	runner storage.Runner,
	locks *locking.KeyedMutex,
	snapshots *cache.Store,
	policy ReplacementPolicy,
	logger *logging.Logger,
) *CheckoutService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CheckoutService{
		sets:      sets,
		checkins:  checkins,
		games:     games,
		runner:    runner,
		locks:     locks,
		snapshots: snapshots,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CheckoutService.Checkout")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	set, unlock, err := lockActiveSet(ctx, s.sets, s.locks)
	if err != nil {
		return err
	}
	defer unlock()

	out, exists, err := s.checkins.GetActiveByUser(ctx, set.ID, userID)
	if err != nil {
		return fmt.Errorf("get active checkin for user %s: %w", userID, err)
	}
	if !exists {
		return fmt.Errorf("%w: user=%s", ErrCheckinNotFound, userID)
	}

	role := queue.Classify(out.QueuePosition, set.CurrentQueuePosition, set.PlayersPerTeam)

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		switch role {
		case queue.RoleNextUp:
			if err := s.removeFromTail(ctx, set, out); err != nil {
				return err
			}
		case queue.RoleAway:
			if err := s.vacateSlot(ctx, set, out, 0, s.policy.AwayRequiresReplacement); err != nil {
				return err
			}
		case queue.RoleHome:
			// HOME is backfilled only from the waiting line, never by
			// poaching an AWAY player.
			minPosition := queue.NextUpStart(set.CurrentQueuePosition, set.PlayersPerTeam)
			if err := s.vacateSlot(ctx, set, out, minPosition, s.policy.HomeRequiresReplacement); err != nil {
				return err
			}
		}

		// One occupied slot left the ledger for good in every branch.
		if err := s.sets.SetPointers(ctx, set.ID, set.CurrentQueuePosition, set.QueueNextUp-1); err != nil {
			return fmt.Errorf("retreat queue tail pointer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.snapshots.Delete(ctx, queueCacheKey(set.ID))
	s.logger.InfoContext(ctx, "player checked out",
		"user_id", userID,
		"game_set_id", set.ID,
		"queue_position", out.QueuePosition,
		"role", string(role),
	)

	return nil
}

// removeFromTail handles a NEXT_UP checkout: a pure removal behind the
// active window. The shift is scoped so in-game rows cannot be touched.
func (s *CheckoutService) removeFromTail(ctx context.Context, set gameset.GameSet, out checkin.Checkin) error {
	if err := s.checkins.Deactivate(ctx, out.ID); err != nil {
		return fmt.Errorf("deactivate checkin %s: %w", out.ID, err)
	}

	scope := queue.NextUpStart(set.CurrentQueuePosition, set.PlayersPerTeam)
	if err := s.checkins.ShiftPositionsAfter(ctx, set.ID, out.QueuePosition, -1, scope); err != nil {
		return fmt.Errorf("close queue gap at %d: %w", out.QueuePosition, err)
	}
	return nil
}

// vacateSlot handles a HOME or AWAY checkout. The earliest active unassigned
// row at or beyond minPosition inherits the vacated position and game slot;
// without one the slot is removed and the game runs short-handed, unless the
// policy demands a replacement.
func (s *CheckoutService) vacateSlot(ctx context.Context, set gameset.GameSet, out checkin.Checkin, minPosition int, mustReplace bool) error {
	actives, err := s.checkins.ListActiveBySet(ctx, set.ID)
	if err != nil {
		return fmt.Errorf("list active checkins: %w", err)
	}

	var replacement *checkin.Checkin
	for i := range actives {
		candidate := actives[i]
		if candidate.ID == out.ID || candidate.Assigned() {
			continue
		}
		if candidate.QueuePosition < minPosition {
			continue
		}
		replacement = &actives[i]
		break
	}

	if replacement == nil {
		if mustReplace {
			return fmt.Errorf("%w: position %d has no unassigned player to inherit it",
				ErrNoReplacementAvailable, out.QueuePosition)
		}

		if err := s.checkins.Retire(ctx, out.ID); err != nil {
			return fmt.Errorf("retire checkin %s: %w", out.ID, err)
		}
		if err := s.checkins.ShiftPositionsAfter(ctx, set.ID, out.QueuePosition, -1, 0); err != nil {
			return fmt.Errorf("close queue gap at %d: %w", out.QueuePosition, err)
		}
		return nil
	}

	vacatedPosition := replacement.QueuePosition

	if err := s.checkins.Retire(ctx, out.ID); err != nil {
		return fmt.Errorf("retire checkin %s: %w", out.ID, err)
	}
	if err := s.checkins.AssignSlot(ctx, replacement.ID, out.QueuePosition, out.GameID, out.Team); err != nil {
		return fmt.Errorf("move checkin %s into vacated slot %d: %w", replacement.ID, out.QueuePosition, err)
	}
	if out.GameID != nil {
		if err := s.games.ReplacePlayer(ctx, *out.GameID, out.UserID, replacement.UserID); err != nil {
			return fmt.Errorf("replace roster seat in game %s: %w", *out.GameID, err)
		}
	}
	if err := s.checkins.ShiftPositionsAfter(ctx, set.ID, vacatedPosition, -1, 0); err != nil {
		return fmt.Errorf("close queue gap at %d: %w", vacatedPosition, err)
	}

	return nil
}
