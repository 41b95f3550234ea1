package filters

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var genreAliases = map[string]string{
	"sci-fi":          "Science Fiction",
	"scifi":           "Science Fiction",
	"sci fi":          "Science Fiction",
	"science-fiction": "Science Fiction",
	"romantic":        "Romance",
	"romcom":          "Romance",
	"rom-com":         "Romance",
	"scary":           "Horror",
	"funny":           "Comedy",
	"animated":        "Animation",
	"cartoon":         "Animation",
	"kids":            "Family",
	"thrillers":       "Thriller",
	"tv movie":        "TV Movie",
	"historical":      "History",
	"musical":         "Music",
	"war film":        "War",
	"westerns":        "Western",
	"cowboy":          "Western",
	"documentaries":   "Documentary",
	"docs":            "Documentary",
	"comedies":        "Comedy",
	"dramas":          "Drama",
	"romances":        "Romance",
	"mysteries":       "Mystery",
	"fantasies":       "Fantasy",
	"horrors":         "Horror",
	"war films":       "War",
	"musicals":        "Music",
	"action movies":   "Action",
	"cartoons":        "Animation",
}

// NormalizeGenre title-cases a genre name and maps common colloquial forms
// to catalog genre names. Blank input yields "".
func NormalizeGenre(name string) string {
	trimmed := strings.Join(strings.Fields(name), " ")
	if trimmed == "" {
		return ""
	}
	if alias, ok := genreAliases[strings.ToLower(trimmed)]; ok {
		return alias
	}
	return cases.Title(language.English).String(trimmed)
}

// NormalizeGenres normalizes each name, dropping blanks and duplicates while
// preserving order.
func NormalizeGenres(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		normalized := NormalizeGenre(name)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
