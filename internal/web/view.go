package web

import (
	"embed"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"marquee/internal/recommend"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	Form    recommendForm
	Genres  []string
	Decades []string
	Outcome *recommend.Outcome
	Error   string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"runtime":  formatRuntime,
		"rating":   formatRating,
		"selected": selected,
		"join":     strings.Join,
	}
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func formatRating(value float64) string {
	return fmt.Sprintf("%.1f", value)
}

func selected(options []string, value string) bool {
	return slices.ContainsFunc(options, func(option string) bool {
		return strings.EqualFold(option, value)
	})
}
