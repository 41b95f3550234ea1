package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Movie is a single discover or detail entry.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	GenreIDs    []int64 `json:"genre_ids"`
	Genres      []Genre `json:"genres"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
	Runtime     int     `json:"runtime"`
	Adult       bool    `json:"adult"`
}

// Genre is one entry of the movie genre list.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DiscoverResponse models a paginated /discover/movie page.
type DiscoverResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

// DiscoverOptions are the /discover/movie filters. Zero values are omitted.
// CertificationLTE only applies together with CertificationCountry.
type DiscoverOptions struct {
	GenreIDs             []int64
	ReleaseDateGTE       string
	ReleaseDateLTE       string
	RuntimeGTE           int
	RuntimeLTE           int
	VoteAverageGTE       *float64
	CertificationCountry string
	CertificationLTE     string
	IncludeAdult         bool
	Page                 int
}

// Values renders the options as query parameters. Results are always sorted
// by descending popularity; genre ids are ANDed.
func (o DiscoverOptions) Values() url.Values {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", strconv.FormatBool(o.IncludeAdult))
	if len(o.GenreIDs) > 0 {
		ids := make([]string, 0, len(o.GenreIDs))
		for _, id := range o.GenreIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if o.ReleaseDateGTE != "" {
		params.Set("primary_release_date.gte", o.ReleaseDateGTE)
	}
	if o.ReleaseDateLTE != "" {
		params.Set("primary_release_date.lte", o.ReleaseDateLTE)
	}
	if o.RuntimeGTE > 0 {
		params.Set("with_runtime.gte", strconv.Itoa(o.RuntimeGTE))
	}
	if o.RuntimeLTE > 0 {
		params.Set("with_runtime.lte", strconv.Itoa(o.RuntimeLTE))
	}
	if o.VoteAverageGTE != nil {
		params.Set("vote_average.gte", strconv.FormatFloat(*o.VoteAverageGTE, 'f', -1, 64))
	}
	if o.CertificationLTE != "" && o.CertificationCountry != "" {
		params.Set("certification_country", o.CertificationCountry)
		params.Set("certification.lte", o.CertificationLTE)
	}
	page := o.Page
	if page <= 0 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	return params
}

// StatusError is returned when TMDB answers with a non-200 status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb %s returned %d: %s (latency=%v)", e.Endpoint, e.StatusCode, e.Message, e.Latency)
	}
	return fmt.Sprintf("tmdb %s returned %d (latency=%v)", e.Endpoint, e.StatusCode, e.Latency)
}

// API defines the TMDB operations used by the catalog.
type API interface {
	Discover(ctx context.Context, opts DiscoverOptions) (*DiscoverResponse, error)
	Genres(ctx context.Context) ([]Genre, error)
	MovieDetails(ctx context.Context, movieID int64) (*Movie, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Discover runs a single /discover/movie page query.
func (c *Client) Discover(ctx context.Context, opts DiscoverOptions) (*DiscoverResponse, error) {
	var payload DiscoverResponse
	if err := c.getJSON(ctx, "/discover/movie", opts.Values(), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Genres fetches the movie genre list.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var payload genreListResponse
	if err := c.getJSON(ctx, "/genre/movie/list", url.Values{}, &payload); err != nil {
		return nil, err
	}
	return payload.Genres, nil
}

// MovieDetails fetches /movie/{id}, which carries the runtime discover omits.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*Movie, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload Movie
	if err := c.getJSON(ctx, "/movie/"+strconv.FormatInt(movieID, 10), url.Values{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, target any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Message:    statusMessage(body),
			Latency:    latency,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode tmdb %s response: %w", path, err)
	}
	return nil
}

func statusMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.StatusMessage)
}
