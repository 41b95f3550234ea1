package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"marquee/internal/catalog/tmdb"
	"marquee/internal/filters"
	"marquee/internal/logging"
	"marquee/internal/services"
)

const (
	defaultPages       = 5
	defaultMaxResults  = 24
	detailsConcurrency = 4

	defaultCertificationCountry = "US"
)

// Movie is a recommendation ready for display.
type Movie struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Year       int      `json:"year,omitempty"`
	PosterURL  string   `json:"poster_url,omitempty"`
	Rating     float64  `json:"rating"`
	VoteCount  int64    `json:"vote_count"`
	Runtime    int      `json:"runtime,omitempty"`
	Overview   string   `json:"overview,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Popularity float64  `json:"popularity"`
}

// Options tunes how much of TMDB a search reads. CertificationCountry is the
// country whose ratings a certification filter refers to.
type Options struct {
	ImageBaseURL         string
	Pages                int
	MaxResults           int
	FetchRuntime         bool
	CertificationCountry string
}

// Result is the outcome of Search: the movies, the spec that was asked for,
// the spec that produced the movies, and the constraints dropped on the way.
//
// Unresolved lists requested genres TMDB does not know. They never reach the
// query; when none of the requested genres resolve, genre is the first entry
// of Dropped.
type Result struct {
	Movies     []Movie              `json:"movies"`
	Requested  filters.FilterSpec   `json:"requested"`
	Applied    filters.FilterSpec   `json:"applied"`
	Dropped    []filters.Constraint `json:"dropped,omitempty"`
	Unresolved []string             `json:"unresolved_genres,omitempty"`

	genreUnresolved bool
}

// Broadened reports whether any constraint had to be dropped.
func (r Result) Broadened() bool {
	return len(r.Dropped) > 0
}

// Broadening returns the constraints dropped because a query came back empty,
// leaving out a genre constraint that was removed for being unknown.
func (r Result) Broadening() []filters.Constraint {
	if r.genreUnresolved && len(r.Dropped) > 0 {
		return r.Dropped[1:]
	}
	return r.Dropped
}

// QueryError reports a failed TMDB call.
type QueryError struct {
	Operation string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Operation, e.Err)
}

func (e *QueryError) Unwrap() []error {
	return []error{services.ErrQuery, e.Err}
}

// Client answers FilterSpec searches against TMDB.
type Client struct {
	api    tmdb.API
	opts   Options
	logger *slog.Logger
}

// New builds a catalog client over the TMDB API.
func New(api tmdb.API, opts Options, logger *slog.Logger) *Client {
	if opts.Pages <= 0 {
		opts.Pages = defaultPages
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	opts.CertificationCountry = strings.ToUpper(strings.TrimSpace(opts.CertificationCountry))
	if opts.CertificationCountry == "" {
		opts.CertificationCountry = defaultCertificationCountry
	}
	opts.ImageBaseURL = strings.TrimRight(strings.TrimSpace(opts.ImageBaseURL), "/")
	return &Client{
		api:    api,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
}

// GenreNames lists TMDB's movie genres in catalog order.
func (c *Client) GenreNames(ctx context.Context) ([]string, error) {
	genres, err := c.api.Genres(ctx)
	if err != nil {
		return nil, queryError("genres", err)
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Search runs spec against TMDB. When it matches nothing, constraints are
// dropped in filters.BroadeningOrder until something matches or none are left;
// an empty Result is not an error.
func (c *Client) Search(ctx context.Context, spec filters.FilterSpec) (Result, error) {
	logger := logging.WithContext(ctx, c.logger)
	result := Result{Requested: spec.Clone(), Applied: spec.Clone()}

	genres, err := c.api.Genres(ctx)
	if err != nil {
		return result, queryError("genres", err)
	}
	index := newGenreIndex(genres)

	if len(spec.Genres) > 0 {
		known, unknown := index.resolve(spec.Genres)
		if len(unknown) > 0 {
			result.Unresolved = unknown
			result.Applied.Genres = known
			outcome := "removed"
			if len(known) == 0 {
				result.Dropped = append(result.Dropped, filters.ConstraintGenre)
				result.genreUnresolved = true
				outcome = "dropped"
			}
			attrs := logging.DecisionAttrs("genre_match", outcome, "genre not in tmdb list")
			attrs = append(attrs, logging.String("unknown", strings.Join(unknown, ",")))
			logger.Info("unknown genres ignored", logging.Args(attrs...)...)
		}
	}
	spec = result.Applied

	movies, err := c.fetch(ctx, logger, index, spec)
	if err != nil {
		return result, err
	}
	if len(movies) == 0 {
		for _, step := range spec.Broaden() {
			attrs := logging.DecisionAttrs("broaden", constraintList(step.Dropped), "zero results")
			attrs = append(attrs, logging.String("filters", step.Spec.Summary()))
			logger.Info("no results, broadening search", logging.Args(attrs...)...)
			result.Dropped = append(result.Dropped, step.Dropped...)
			result.Applied = step.Spec
			movies, err = c.fetch(ctx, logger, index, step.Spec)
			if err != nil {
				return result, err
			}
			if len(movies) > 0 {
				break
			}
		}
	}

	if c.opts.FetchRuntime && len(movies) > 0 {
		c.enrichRuntime(ctx, logger, movies)
	}
	result.Movies = movies
	logger.Info("search complete",
		logging.Int("results", len(movies)),
		logging.String("filters", result.Applied.Summary()),
		logging.Int("dropped", len(result.Dropped)),
	)
	return result, nil
}

func (c *Client) fetch(ctx context.Context, logger *slog.Logger, index genreIndex, spec filters.FilterSpec) ([]Movie, error) {
	opts := discoverOptions(spec, index.ids(spec.Genres))
	if spec.Certification != "" {
		opts.CertificationCountry = c.opts.CertificationCountry
		opts.CertificationLTE = spec.Certification
	}

	var raw []tmdb.Movie
	for page := 1; page <= c.opts.Pages; page++ {
		opts.Page = page
		resp, err := c.api.Discover(ctx, opts)
		if err != nil {
			return nil, queryError("discover page "+strconv.Itoa(page), err)
		}
		raw = append(raw, resp.Results...)
		logger.Debug("discover page fetched",
			logging.Int("page", page),
			logging.Int("results", len(resp.Results)),
			logging.Int("total_pages", resp.TotalPages),
		)
		if page >= resp.TotalPages {
			break
		}
	}

	seen := make(map[int64]struct{}, len(raw))
	movies := make([]Movie, 0, len(raw))
	for _, m := range raw {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		movies = append(movies, c.toMovie(m, index))
	}
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].Popularity > movies[j].Popularity
	})
	if len(movies) > c.opts.MaxResults {
		movies = movies[:c.opts.MaxResults]
	}
	return movies, nil
}

func (c *Client) enrichRuntime(ctx context.Context, logger *slog.Logger, movies []Movie) {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(detailsConcurrency)
	for i := range movies {
		group.Go(func() error {
			details, err := c.api.MovieDetails(gctx, movies[i].ID)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				logger.Debug("runtime lookup failed",
					logging.Int64("movie_id", movies[i].ID),
					logging.Error(err),
				)
				return nil
			}
			movies[i].Runtime = details.Runtime
			return nil
		})
	}
	_ = group.Wait()
}

func (c *Client) toMovie(m tmdb.Movie, index genreIndex) Movie {
	movie := Movie{
		ID:         m.ID,
		Title:      strings.TrimSpace(m.Title),
		Year:       releaseYear(m.ReleaseDate),
		Rating:     m.VoteAverage,
		VoteCount:  m.VoteCount,
		Runtime:    m.Runtime,
		Overview:   strings.TrimSpace(m.Overview),
		Popularity: m.Popularity,
		Genres:     index.names(m.GenreIDs),
	}
	if path := strings.TrimSpace(m.PosterPath); path != "" && c.opts.ImageBaseURL != "" {
		movie.PosterURL = c.opts.ImageBaseURL + "/" + strings.TrimLeft(path, "/")
	}
	return movie
}

func discoverOptions(spec filters.FilterSpec, genreIDs []int64) tmdb.DiscoverOptions {
	opts := tmdb.DiscoverOptions{
		GenreIDs:       genreIDs,
		VoteAverageGTE: spec.MinRating,
		IncludeAdult:   spec.IncludeAdult,
	}
	if spec.Decade != nil {
		if spec.Decade.Start > 0 {
			opts.ReleaseDateGTE = fmt.Sprintf("%04d-01-01", spec.Decade.Start)
		}
		if spec.Decade.End > 0 {
			opts.ReleaseDateLTE = fmt.Sprintf("%04d-12-31", spec.Decade.End)
		}
	}
	if spec.MinRuntime != nil {
		opts.RuntimeGTE = *spec.MinRuntime
	}
	if spec.MaxRuntime != nil {
		opts.RuntimeLTE = *spec.MaxRuntime
	}
	return opts
}

func constraintList(cs []filters.Constraint) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ",")
}

func releaseYear(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func queryError(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &QueryError{Operation: operation, Err: err}
}
