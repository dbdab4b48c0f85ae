package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtside/pickup-queue/internal/domain/gameset"
	"github.com/courtside/pickup-queue/internal/usecase"
)

type createGameSetRequest struct {
	PlayersPerTeam      int `json:"players_per_team" validate:"required,min=1,max=5"`
	NumberOfCourts      int `json:"number_of_courts" validate:"required,min=1"`
	MaxConsecutiveGames int `json:"max_consecutive_games" validate:"required,min=1"`
}

type gameSetDTO struct {
	ID                   string     `json:"id"`
	PlayersPerTeam       int        `json:"players_per_team"`
	NumberOfCourts       int        `json:"number_of_courts"`
	MaxConsecutiveGames  int        `json:"max_consecutive_games"`
	CurrentQueuePosition int        `json:"current_queue_position"`
	QueueNextUp          int        `json:"queue_next_up"`
	IsActive             bool       `json:"is_active"`
	CreatedAt            time.Time  `json:"created_at"`
	EndedAt              *time.Time `json:"ended_at,omitempty"`
}

func (h *Handler) CreateGameSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGameSet")
	defer span.End()

	var req createGameSetRequest
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

	set, err := h.gameSetService.Create(ctx, usecase.CreateGameSetInput{
		PlayersPerTeam:      req.PlayersPerTeam,
		NumberOfCourts:      req.NumberOfCourts,
		MaxConsecutiveGames: req.MaxConsecutiveGames,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game set failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameSetToDTO(set))
}

func (h *Handler) EndGameSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EndGameSet")
	defer span.End()

	set, err := h.gameSetService.End(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "end game set failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameSetToDTO(set))
}

func (h *Handler) GetActiveGameSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetActiveGameSet")
	defer span.End()

	set, err := h.gameSetService.Active(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameSetToDTO(set))
}

func gameSetToDTO(set gameset.GameSet) gameSetDTO {
	return gameSetDTO{
		ID:                   set.ID,
		PlayersPerTeam:       set.PlayersPerTeam,
		NumberOfCourts:       set.NumberOfCourts,
		MaxConsecutiveGames:  set.MaxConsecutiveGames,
		CurrentQueuePosition: set.CurrentQueuePosition,
		QueueNextUp:          set.QueueNextUp,
		IsActive:             set.IsActive,
		CreatedAt:            set.CreatedAt,
		EndedAt:              set.EndedAt,
	}
}
