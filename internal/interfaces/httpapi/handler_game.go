package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtside/pickup-queue/internal/domain/game"
	"github.com/courtside/pickup-queue/internal/usecase"
)

type createGameRequest struct {
	Court string `json:"court" validate:"required,max=10"`
}

type finalizeGameRequest struct {
	GameID     string `json:"game_id" validate:"required,max=100"`
	Team1Score *int   `json:"team_1_score" validate:"required,min=0"`
	Team2Score *int   `json:"team_2_score" validate:"required,min=0"`
}

type gameDTO struct {
	ID         string     `json:"id"`
	GameSetID  string     `json:"game_set_id"`
	Court      string     `json:"court"`
	State      string     `json:"state"`
	Team1Score *int       `json:"team_1_score,omitempty"`
	Team2Score *int       `json:"team_2_score,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
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

	item, err := h.gameService.CreateGame(ctx, req.Court)
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "court", req.Court, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(item))
}

func (h *Handler) FinalizeGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeGame")
	defer span.End()

	var req finalizeGameRequest
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

	item, err := h.gameService.FinalizeGame(ctx, req.GameID, *req.Team1Score, *req.Team2Score)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize game failed", "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	games, err := h.gameService.ListGames(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func gameToDTO(g game.Game) gameDTO {
	return gameDTO{
		ID:         g.ID,
		GameSetID:  g.SetID,
		Court:      g.Court,
		State:      g.State,
		Team1Score: g.Team1Score,
		Team2Score: g.Team2Score,
		CreatedAt:  g.CreatedAt,
		FinishedAt: g.FinishedAt,
	}
}
