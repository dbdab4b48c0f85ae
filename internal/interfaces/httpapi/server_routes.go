package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/gamesets", handler.CreateGameSet)
	mux.HandleFunc("POST /v1/gamesets/end", handler.EndGameSet)
	mux.HandleFunc("GET /v1/gamesets/active", handler.GetActiveGameSet)

	mux.HandleFunc("POST /v1/checkins", handler.CheckIn)
	mux.HandleFunc("POST /v1/checkins/checkout", handler.Checkout)
	mux.HandleFunc("GET /v1/queue", handler.GetQueue)

	mux.HandleFunc("POST /v1/games", handler.CreateGame)
	mux.HandleFunc("POST /v1/games/finalize", handler.FinalizeGame)
	mux.HandleFunc("GET /v1/games", handler.ListGames)

	mux.HandleFunc("GET /v1/players/records", handler.ListPlayerRecords)
}
