// Package fragments provides template path constants for the dashboard templates
package fragments

import "strings"

// Template path constants, relative to ui/templates
const (
	// Page templates
	Index = "index.html"

	// Dashboard fragments
	KPICards = "fragments/kpi_cards.html"
	Notices  = "fragments/notices.html"
	Loads    = "fragments/loads.html"
)

// GetAllTemplatePaths returns all template paths for registration
func GetAllTemplatePaths() []string {
	return []string{
		Index,
		KPICards,
		Notices,
		Loads,
	}
}

// GetTemplateCategory returns the category for a given template path
func GetTemplateCategory(templatePath string) string {
	switch {
	case strings.HasPrefix(templatePath, "fragments/"):
		return "fragment"
	case strings.HasSuffix(templatePath, ".html"):
		return "page"
	default:
		return "unknown"
	}
}
