package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtside/pickup-queue/internal/usecase"
)

type checkInRequest struct {
	UserID string `json:"user_id" validate:"required,max=100"`
}

type checkoutRequest struct {
	UserID string `json:"user_id" validate:"required,max=100"`
}

type checkinDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	GameSetID     string    `json:"game_set_id"`
	QueuePosition int       `json:"queue_position"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"created_at"`
}

type queueEntryDTO struct {
	UserID   string `json:"user_id"`
	Position int    `json:"position"`
	Role     string `json:"role"`
	Team     *int   `json:"team,omitempty"`
	Type     string `json:"type"`
}

type queueSnapshotDTO struct {
	GameSetID            string          `json:"game_set_id"`
	PlayersPerTeam       int             `json:"players_per_team"`
	CurrentQueuePosition int             `json:"current_queue_position"`
	QueueNextUp          int             `json:"queue_next_up"`
	Entries              []queueEntryDTO `json:"entries"`
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckIn")
	defer span.End()

	var req checkInRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.queueService.CheckIn(ctx, req.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "check-in failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, checkinDTO{
		ID:            item.ID,
		UserID:        item.UserID,
		GameSetID:     item.GameSetID,
		QueuePosition: item.QueuePosition,
		Type:          string(item.Type),
		CreatedAt:     item.CreatedAt,
	})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Checkout")
	defer span.End()

	var req checkoutRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.checkoutService.Checkout(ctx, req.UserID); err != nil {
		h.logger.WarnContext(ctx, "checkout failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "checked_out"})
}

func (h *Handler) GetQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetQueue")
	defer span.End()

	snapshot, err := h.queueService.Snapshot(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]queueEntryDTO, 0, len(snapshot.Entries))
	for _, entry := range snapshot.Entries {
		entries = append(entries, queueEntryDTO{
			UserID:   entry.UserID,
			Position: entry.Position,
			Role:     string(entry.Role),
			Team:     entry.Team,
			Type:     string(entry.Type),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, queueSnapshotDTO{
		GameSetID:            snapshot.GameSetID,
		PlayersPerTeam:       snapshot.PlayersPerTeam,
		CurrentQueuePosition: snapshot.CurrentQueuePosition,
		QueueNextUp:          snapshot.QueueNextUp,
		Entries:              entries,
	})
}
