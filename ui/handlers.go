package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"tribodash/domain/tribology"
	"tribodash/ui/services"
	"tribodash/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// shapeOption is one entry of the shape multiselect
type shapeOption struct {
	Shape    string
	Selected bool
}

// filterParams parses the widget values of the current request
func (s *Server) filterParams(c *gin.Context) (tribology.FilterParams, bool) {
	params, err := services.ParseFilterParams(c.Request.URL.Query(), s.dashboard.Config())
	if err != nil {
		writeError(c, err)
		return params, false
	}
	return params, true
}

// handleIndex serves the dashboard page
func (s *Server) handleIndex(c *gin.Context) {
	params, ok := s.filterParams(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	view, err := s.dashboard.View(ctx, params)
	if err != nil {
		writeError(c, err)
		return
	}
	_, info, err := s.dashboard.Data().Dataset(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	selected := services.NewShapeLookup(view.Selected)
	options := make([]shapeOption, len(view.TopShapes))
	for i, shape := range view.TopShapes {
		options[i] = shapeOption{Shape: shape, Selected: selected[shape]}
	}

	cfg := s.dashboard.Config()
	data := gin.H{
		"Title":         cfg.Title,
		"TopN":          view.TopN,
		"MinTopN":       cfg.MinTopN,
		"MaxTopN":       cfg.MaxTopN,
		"TopShapes":     view.TopShapes,
		"Options":       options,
		"Query":         template.URL(services.EncodeFilterParams(params)),
		"Header":        services.RenderMarkdown(services.HeaderMarkdown(view)),
		"KPICards":      s.renderer.RenderKPICards(view.Summary),
		"Notices":       s.renderer.RenderNotices(view.Notices),
		"LedgerEnabled": s.dashboard.Data().LedgerEnabled(),
		"Source":        info.Source,
		"Hash":          info.Hash.Short(),
	}
	if s.dashboard.Data().LedgerEnabled() {
		entries, err := s.dashboard.Data().Loads(ctx, 10)
		if err != nil {
			s.logger.Warn("Loading ledger history failed: %v", err)
		}
		data["Loads"] = s.renderer.RenderLoads(entries)
	}

	s.renderTemplate(c, fragments.Index, data)
}

// handleCharts serves all four charts as one page
func (s *Server) handleCharts(c *gin.Context) {
	params, ok := s.filterParams(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.dashboard.WriteChartsPage(c.Request.Context(), &buf, params); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// handleChart serves a single chart by name
func (s *Server) handleChart(c *gin.Context) {
	params, ok := s.filterParams(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.dashboard.WriteChart(c.Request.Context(), &buf, c.Param("name"), params); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// handleView returns the rendered view as JSON
func (s *Server) handleView(c *gin.Context) {
	params, ok := s.filterParams(c)
	if !ok {
		return
	}

	view, err := s.dashboard.View(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.NewViewResponse(view))
}

// handleGroups returns every shape ranked by mean COF
func (s *Server) handleGroups(c *gin.Context) {
	groups, err := s.dashboard.Groups(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": services.NewGroupResponses(groups)})
}

// handleExport streams the filtered data as an xlsx workbook
func (s *Server) handleExport(c *gin.Context) {
	params, ok := s.filterParams(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.dashboard.WriteExport(c.Request.Context(), &buf, params); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="tribology_export.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleLoads returns the ledger history
func (s *Server) handleLoads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := s.dashboard.Data().Loads(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled": s.dashboard.Data().LedgerEnabled(),
		"loads":   entries,
	})
}

// handleReload re-reads the dataset source
func (s *Server) handleReload(c *gin.Context) {
	entry, err := s.dashboard.Data().Reload(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"load": entry})
}

// handleHealth reports liveness and whether the dataset is loadable
func (s *Server) handleHealth(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if _, _, err := s.dashboard.Data().Dataset(c.Request.Context()); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "dataset": s.dashboard.Data().Path()})
}
