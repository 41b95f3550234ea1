package testsupport

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"marquee/internal/catalog/tmdb"
)

// FakeTMDBKey is the API key the fake TMDB server accepts.
const FakeTMDBKey = "tmdb-test-key"

const fakePageSize = 20

// Genre ids match TMDB's movie genre list.
const (
	GenreAction         int64 = 28
	GenreComedy         int64 = 35
	GenreDrama          int64 = 18
	GenreHorror         int64 = 27
	GenreRomance        int64 = 10749
	GenreScienceFiction int64 = 878
	GenreThriller       int64 = 53
)

// DefaultGenres is the genre list served by the fake.
var DefaultGenres = []tmdb.Genre{
	{ID: GenreAction, Name: "Action"},
	{ID: GenreComedy, Name: "Comedy"},
	{ID: GenreDrama, Name: "Drama"},
	{ID: GenreHorror, Name: "Horror"},
	{ID: GenreRomance, Name: "Romance"},
	{ID: GenreScienceFiction, Name: "Science Fiction"},
	{ID: GenreThriller, Name: "Thriller"},
}

// FakeMovie is one title in the fake catalog.
// Certification is the US rating; certification filters skip titles without one.
type FakeMovie struct {
	ID            int64
	Title         string
	Year          int
	GenreIDs      []int64
	Runtime       int
	Rating        float64
	Popularity    float64
	Poster        string
	Adult         bool
	Certification string
}

// FakeTMDB is an httptest server that answers discover, genre list and movie
// detail requests from an in-memory catalog, applying TMDB's filter semantics.
type FakeTMDB struct {
	server *httptest.Server
	movies []FakeMovie

	mu          sync.Mutex
	discover    []url.Values
	detailCalls int
	failStatus  int
}

// NewFakeTMDB starts a fake TMDB server over movies.
func NewFakeTMDB(t testing.TB, movies []FakeMovie) *FakeTMDB {
	t.Helper()
	fake := &FakeTMDB{movies: append([]FakeMovie(nil), movies...)}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.server.Close)
	return fake
}

// URL is the base URL to configure as tmdb.base_url.
func (f *FakeTMDB) URL() string {
	return f.server.URL
}

// FailWith makes every subsequent request answer with status.
func (f *FakeTMDB) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = status
}

// DiscoverQueries returns the query parameters of each discover call, in order.
func (f *FakeTMDB) DiscoverQueries() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]url.Values, len(f.discover))
	copy(out, f.discover)
	return out
}

// DetailCalls counts /movie/{id} requests.
func (f *FakeTMDB) DetailCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailCalls
}

func (f *FakeTMDB) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	failStatus := f.failStatus
	f.mu.Unlock()
	if failStatus != 0 {
		writeFakeJSON(w, failStatus, map[string]any{"status_code": 0, "status_message": http.StatusText(failStatus)})
		return
	}

	query := r.URL.Query()
	if query.Get("api_key") != FakeTMDBKey {
		writeFakeJSON(w, http.StatusUnauthorized, map[string]any{"status_code": 7, "status_message": "Invalid API key"})
		return
	}

	switch {
	case r.URL.Path == "/genre/movie/list":
		writeFakeJSON(w, http.StatusOK, map[string]any{"genres": DefaultGenres})
	case r.URL.Path == "/discover/movie":
		f.mu.Lock()
		f.discover = append(f.discover, query)
		f.mu.Unlock()
		f.handleDiscover(w, query)
	case strings.HasPrefix(r.URL.Path, "/movie/"):
		f.mu.Lock()
		f.detailCalls++
		f.mu.Unlock()
		f.handleDetails(w, strings.TrimPrefix(r.URL.Path, "/movie/"))
	default:
		writeFakeJSON(w, http.StatusNotFound, map[string]any{"status_code": 34, "status_message": "not found"})
	}
}

func (f *FakeTMDB) handleDiscover(w http.ResponseWriter, query url.Values) {
	matches := make([]FakeMovie, 0, len(f.movies))
	for _, m := range f.movies {
		if discoverMatches(m, query) {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Popularity > matches[j].Popularity
	})

	page, _ := strconv.Atoi(query.Get("page"))
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(len(matches)) / fakePageSize))
	start := (page - 1) * fakePageSize
	results := make([]tmdb.Movie, 0, fakePageSize)
	for i := start; i < len(matches) && i < start+fakePageSize; i++ {
		results = append(results, matches[i].discoverEntry())
	}
	writeFakeJSON(w, http.StatusOK, tmdb.DiscoverResponse{
		Page:         page,
		Results:      results,
		TotalPages:   totalPages,
		TotalResults: len(matches),
	})
}

func (f *FakeTMDB) handleDetails(w http.ResponseWriter, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err == nil {
		for _, m := range f.movies {
			if m.ID == id {
				entry := m.discoverEntry()
				entry.Runtime = m.Runtime
				entry.GenreIDs = nil
				for _, gid := range m.GenreIDs {
					for _, g := range DefaultGenres {
						if g.ID == gid {
							entry.Genres = append(entry.Genres, g)
						}
					}
				}
				writeFakeJSON(w, http.StatusOK, entry)
				return
			}
		}
	}
	writeFakeJSON(w, http.StatusNotFound, map[string]any{"status_code": 34, "status_message": "The resource you requested could not be found."})
}

func (m FakeMovie) discoverEntry() tmdb.Movie {
	entry := tmdb.Movie{
		ID:          m.ID,
		Title:       m.Title,
		GenreIDs:    append([]int64(nil), m.GenreIDs...),
		Popularity:  m.Popularity,
		VoteAverage: m.Rating,
		VoteCount:   100,
		PosterPath:  m.Poster,
		Adult:       m.Adult,
		Overview:    m.Title + " overview",
	}
	if m.Year > 0 {
		entry.ReleaseDate = strconv.Itoa(m.Year) + "-06-15"
	}
	return entry
}

func discoverMatches(m FakeMovie, query url.Values) bool {
	if query.Get("include_adult") != "true" && m.Adult {
		return false
	}
	if raw := query.Get("with_genres"); raw != "" {
		sep := ","
		if strings.Contains(raw, "|") {
			sep = "|"
		}
		wanted := strings.Split(raw, sep)
		hits := 0
		for _, w := range wanted {
			id, _ := strconv.ParseInt(strings.TrimSpace(w), 10, 64)
			for _, gid := range m.GenreIDs {
				if gid == id {
					hits++
					break
				}
			}
		}
		if sep == "," && hits != len(wanted) {
			return false
		}
		if sep == "|" && hits == 0 {
			return false
		}
	}
	if gte := yearParam(query.Get("primary_release_date.gte")); gte > 0 && m.Year < gte {
		return false
	}
	if lte := yearParam(query.Get("primary_release_date.lte")); lte > 0 && m.Year > lte {
		return false
	}
	if gte, err := strconv.Atoi(query.Get("with_runtime.gte")); err == nil && m.Runtime < gte {
		return false
	}
	if lte, err := strconv.Atoi(query.Get("with_runtime.lte")); err == nil && m.Runtime > lte {
		return false
	}
	if gte, err := strconv.ParseFloat(query.Get("vote_average.gte"), 64); err == nil && m.Rating < gte {
		return false
	}
	if lte := query.Get("certification.lte"); lte != "" && query.Get("certification_country") == "US" {
		have, ok := certificationRank[m.Certification]
		if !ok || have > certificationRank[lte] {
			return false
		}
	}
	return true
}

var certificationRank = map[string]int{"G": 1, "PG": 2, "PG-13": 3, "R": 4, "NC-17": 5}

func yearParam(value string) int {
	if len(value) < 4 {
		return 0
	}
	year, err := strconv.Atoi(value[:4])
	if err != nil {
		return 0
	}
	return year
}

func writeFakeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
