package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /v1/notifications", handler.DrainNotifications)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/search", handler.SearchPlayers)
	mux.HandleFunc("GET /v1/players/{username}", handler.GetPlayerDetails)
	mux.HandleFunc("POST /v1/players/{username}", handler.TrackPlayer)
	mux.HandleFunc("GET /v1/players/{username}/gained", handler.GetPlayerGained)
	mux.HandleFunc("GET /v1/players/{username}/achievements", handler.ListPlayerAchievements)
}

func registerCompetitionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("POST /v1/competitions", handler.CreateCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("PUT /v1/competitions/{competitionID}", handler.EditCompetition)
	mux.HandleFunc("DELETE /v1/competitions/{competitionID}", handler.DeleteCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/teams", handler.GetCompetitionTeams)
}

func registerGroupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/groups", handler.ListGroups)
	mux.HandleFunc("GET /v1/groups/{groupID}", handler.GetGroup)
	mux.HandleFunc("DELETE /v1/groups/{groupID}", handler.DeleteGroup)
	mux.HandleFunc("GET /v1/groups/{groupID}/gained", handler.GetGroupLeaderboard)
	mux.HandleFunc("GET /v1/groups/{groupID}/outdated", handler.ListOutdatedMembers)
	mux.HandleFunc("POST /v1/groups/{groupID}/update-all", handler.UpdateAllMembers)
}
