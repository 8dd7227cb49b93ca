package ui

import (
	"html/template"
	"io/fs"
	"net/http"

	"tribodash/internal"
	"tribodash/ui/middleware"
	"tribodash/ui/services"

	"github.com/gin-gonic/gin"
)

// Server is the full dashboard: HTML page, chart pages, JSON API and export
type Server struct {
	router    *gin.Engine
	templates *template.Template
	logger    *internal.Logger

	dashboard *services.DashboardService
	renderer  *services.RenderService
}

// NewServer creates the gin server around dashboard
func NewServer(dashboard *services.DashboardService, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		templates: templates,
		logger:    logger.WithComponent("Server"),
		dashboard: dashboard,
		renderer:  services.NewRenderService(templates),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router for an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.logger))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Error("Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	data := s.router.Group("/", middleware.EnsureDataset(s.dashboard.Data()))
	data.GET("/", s.handleIndex)
	data.GET("/charts", s.handleCharts)
	data.GET("/charts/:name", s.handleChart)

	api := s.router.Group("/api")
	api.GET("/loads", s.handleLoads)
	api.POST("/dataset/reload", s.handleReload)

	apiData := api.Group("", middleware.EnsureDataset(s.dashboard.Data()))
	apiData.GET("/view", s.handleView)
	apiData.GET("/groups", s.handleGroups)
	apiData.GET("/export.xlsx", s.handleExport)
}
