package controllers

import (
	"net/http"

	"study_server_go/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// NewRouter registers every route. /api/status and /api/auth/{register,login}
// are public; everything else needs a bearer token.
func NewRouter(h *Handler, tokens middleware.TokenValidator, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log))

	router.HandleFunc("/api/status", h.HealthCheck).Methods(http.MethodGet)

	authRouter := router.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.JWT(tokens, log))

	apiRouter.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet)

	apiRouter.HandleFunc("/lists", h.GetLists).Methods(http.MethodGet)
	apiRouter.HandleFunc("/lists", h.CreateList).Methods(http.MethodPost)
	apiRouter.HandleFunc("/lists/{list_id}", h.GetList).Methods(http.MethodGet)
	apiRouter.HandleFunc("/lists/{list_id}", h.DeleteList).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/lists/{list_id}/items", h.CreateItem).Methods(http.MethodPost)
	apiRouter.HandleFunc("/lists/{list_id}/cycles", h.GetCycles).Methods(http.MethodGet)
	apiRouter.HandleFunc("/lists/{list_id}/cycles/export", h.ExportCycles).Methods(http.MethodGet)
	apiRouter.HandleFunc("/lists/{list_id}/cycles/resume", h.ResumeCycles).Methods(http.MethodPost)

	apiRouter.HandleFunc("/items/{item_id}/completion", h.ToggleItemCompletion).Methods(http.MethodPut)

	apiRouter.HandleFunc("/export", h.ExportUserData).Methods(http.MethodGet)

	return router
}
