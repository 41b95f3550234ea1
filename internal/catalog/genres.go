package catalog

import (
	"strings"

	"marquee/internal/catalog/tmdb"
)

type genreIndex struct {
	byName map[string]int64
	byID   map[int64]string
}

func newGenreIndex(genres []tmdb.Genre) genreIndex {
	index := genreIndex{
		byName: make(map[string]int64, len(genres)),
		byID:   make(map[int64]string, len(genres)),
	}
	for _, g := range genres {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			continue
		}
		index.byName[strings.ToLower(name)] = g.ID
		index.byID[g.ID] = name
	}
	return index
}

// resolve splits names into TMDB's spelling of the ones it knows and the
// ones it does not. Matching ignores case.
func (g genreIndex) resolve(names []string) (known, unknown []string) {
	for _, name := range names {
		id, ok := g.byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		known = append(known, g.byID[id])
	}
	return known, unknown
}

func (g genreIndex) ids(names []string) []int64 {
	if len(names) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		if id, ok := g.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (g genreIndex) names(ids []int64) []string {
	if len(ids) == 0 {
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := g.byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
