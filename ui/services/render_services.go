package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"

	"tribodash/domain/tribology"
	"tribodash/internal/ledger"
	"tribodash/ui/templates/fragments"

	"github.com/gomarkdown/markdown"
)

// RenderService turns dashboard state into HTML fragments
type RenderService struct {
	templates *template.Template
}

func NewRenderService(templates *template.Template) *RenderService {
	return &RenderService{
		templates: templates,
	}
}

// RenderMarkdown converts trusted markdown from configuration into HTML
func RenderMarkdown(md string) template.HTML {
	return template.HTML(markdown.ToHTML([]byte(md), nil, nil))
}

// HeaderMarkdown is the caption shown above the KPI cards
func HeaderMarkdown(view tribology.View) string {
	return fmt.Sprintf("Showing the **top %d shapes** with the lowest mean coefficient of friction.", view.TopN)
}

// RenderKPICards renders the four summary metrics
func (s *RenderService) RenderKPICards(summary tribology.Summary) template.HTML {
	return s.render(fragments.KPICards, summary, `<div class="error">Error rendering metrics</div>`)
}

// RenderNotices renders the non-fatal notices of a view
func (s *RenderService) RenderNotices(notices []tribology.Notice) template.HTML {
	if len(notices) == 0 {
		return ""
	}
	return s.render(fragments.Notices, notices, `<div class="error">Error rendering notices</div>`)
}

// RenderLoads renders the ledger history table
func (s *RenderService) RenderLoads(entries []ledger.Entry) template.HTML {
	return s.render(fragments.Loads, entries, `<div class="error">Error rendering load history</div>`)
}

func (s *RenderService) render(name string, data interface{}, fallback string) template.HTML {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[ERROR] Failed to render %s template: %v", name, err)
		return template.HTML(fallback)
	}
	return template.HTML(strings.TrimSpace(buf.String()))
}
