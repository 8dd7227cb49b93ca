package ui

import (
	"encoding/json"
	"log"
	"net/http"

	"tribodash/internal/errors"
	"tribodash/ui/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App is the lightweight chi front end: JSON API and chart page, no HTML dashboard
type App struct {
	router    *chi.Mux
	dashboard *services.DashboardService
}

// NewApp creates the chi application around dashboard
func NewApp(dashboard *services.DashboardService) *App {
	app := &App{
		router:    chi.NewRouter(),
		dashboard: dashboard,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// Handler exposes the router for an http.Server
func (a *App) Handler() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/charts", a.handleCharts)
	a.router.Get("/charts/{name}", a.handleChart)
	a.router.Get("/api/view", a.handleView)
	a.router.Get("/api/groups", a.handleGroups)
}

func (a *App) handleView(w http.ResponseWriter, r *http.Request) {
	params, err := services.ParseFilterParams(r.URL.Query(), a.dashboard.Config())
	if err != nil {
		writeJSONError(w, err)
		return
	}
	view, err := a.dashboard.View(r.Context(), params)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services.NewViewResponse(view))
}

func (a *App) handleGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.dashboard.Groups(r.Context())
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": services.NewGroupResponses(groups)})
}

func (a *App) handleCharts(w http.ResponseWriter, r *http.Request) {
	params, err := services.ParseFilterParams(r.URL.Query(), a.dashboard.Config())
	if err != nil {
		writeJSONError(w, err)
		return
	}
	if _, _, err := a.dashboard.Data().Dataset(r.Context()); err != nil {
		writeJSONError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.dashboard.WriteChartsPage(r.Context(), w, params); err != nil {
		log.Printf("[App] Chart page failed: %v", err)
	}
}

func (a *App) handleChart(w http.ResponseWriter, r *http.Request) {
	params, err := services.ParseFilterParams(r.URL.Query(), a.dashboard.Config())
	if err != nil {
		writeJSONError(w, err)
		return
	}
	name := chi.URLParam(r, "name")
	if _, _, err := a.dashboard.Data().Dataset(r.Context()); err != nil {
		writeJSONError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.dashboard.WriteChart(r.Context(), w, name, params); err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			writeJSONError(w, err)
			return
		}
		log.Printf("[App] Chart %s failed: %v", name, err)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if _, _, err := a.dashboard.Data().Dataset(r.Context()); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{"status": status, "dataset": a.dashboard.Data().Path()})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[App] Error encoding response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]interface{}{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
