package recommend

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"marquee/internal/catalog"
	"marquee/internal/filters"
	"marquee/internal/logging"
	"marquee/internal/services"
)

// User-facing messages.
const (
	MessageEmptyPrompt = "Please describe the movie you are looking for."
	MessageQueryFailed = "We couldn't reach the movie catalog. Please try again."
	MessageNoMatches   = "No matches found. Try a more general query."
	MessageInvalid     = "The request could not be read. Please check the fields and try again."
)

// CriticsMinRating is the rating floor applied by the "critically acclaimed" control.
const CriticsMinRating = 7.0

// Interpreter extracts filters from a prompt.
type Interpreter interface {
	Interpret(ctx context.Context, prompt string) (filters.FilterSpec, error)
}

// Searcher runs filter searches against the catalog.
type Searcher interface {
	Search(ctx context.Context, spec filters.FilterSpec) (catalog.Result, error)
	GenreNames(ctx context.Context) ([]string, error)
}

// Request is one recommendation request from any surface.
type Request struct {
	Prompt string
	// Manual holds filters chosen with explicit controls; they override the model.
	Manual filters.FilterSpec
}

// Outcome is everything a surface needs to render a response.
type Outcome struct {
	Prompt       string               `json:"prompt"`
	ModelFilters filters.FilterSpec   `json:"model_filters"`
	Filters      filters.FilterSpec   `json:"filters"`
	Applied      filters.FilterSpec   `json:"applied"`
	Dropped      []filters.Constraint `json:"dropped,omitempty"`
	Movies       []catalog.Movie      `json:"movies"`
	ParseFailed  bool                 `json:"parse_failed,omitempty"`
	Notices      []string             `json:"notices,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// Options are service-wide defaults.
type Options struct {
	IncludeAdult bool
}

// Service runs prompt interpretation and catalog search for a request.
type Service struct {
	interpreter Interpreter
	catalog     Searcher
	opts        Options
	logger      *slog.Logger
}

// NewService wires an interpreter and a catalog searcher.
func NewService(interp Interpreter, searcher Searcher, opts Options, logger *slog.Logger) *Service {
	return &Service{
		interpreter: interp,
		catalog:     searcher,
		opts:        opts,
		logger:      logging.NewComponentLogger(logger, "recommend"),
	}
}

// Genres lists catalog genre names for the manual genre control.
func (s *Service) Genres(ctx context.Context) ([]string, error) {
	return s.catalog.GenreNames(ctx)
}

// Recommend interprets the prompt, merges manual filters over the model's,
// and searches the catalog. A blank prompt with no manual filters fails with
// services.ErrEmptyPrompt before any outbound call. Interpreter failures are
// absorbed: the search runs without model filters and ParseFailed is set.
// Catalog failures are returned as *catalog.QueryError.
func (s *Service) Recommend(ctx context.Context, req Request) (Outcome, error) {
	logger := logging.WithContext(ctx, s.logger)
	prompt := strings.TrimSpace(req.Prompt)
	outcome := Outcome{Prompt: prompt}

	if prompt == "" && req.Manual.IsUnconstrained() {
		return outcome, services.Wrap(services.ErrEmptyPrompt, "recommend", "validate", "prompt is blank and no filters were chosen", nil)
	}

	var model filters.FilterSpec
	if prompt != "" {
		spec, err := s.interpreter.Interpret(ctx, prompt)
		switch {
		case err == nil:
			model = spec
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return outcome, err
		case services.Recoverable(err):
			outcome.ParseFailed = true
			logging.WarnWithContext(logger, "model reply unusable, searching without model filters", "interpret_parse_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "results are not filtered by the prompt"),
				logging.String(logging.FieldErrorHint, "rephrase the request or try another model"),
			)
		default:
			// Provider outages degrade the same way; only the hint differs.
			outcome.ParseFailed = true
			logging.WarnWithContext(logger, "prompt interpretation failed, searching without model filters", "interpret_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "results are not filtered by the prompt"),
				logging.String(logging.FieldErrorHint, "check llm provider credentials and connectivity"),
			)
		}
	}
	outcome.ModelFilters = model

	manual := req.Manual
	manual.IncludeAdult = manual.IncludeAdult || s.opts.IncludeAdult
	merged, issues := filters.Sanitize(filters.Merge(model, manual))
	for _, issue := range issues {
		err := services.Wrap(services.ErrValidation, "recommend", "merge", issue.Field+" failed "+issue.Rule, nil)
		logger.Debug("filter value dropped", logging.Error(err))
	}
	outcome.Filters = merged
	attrs := logging.DecisionAttrs("filter_merge", merged.Summary(), "manual overrides model")
	attrs = append(attrs, logging.Bool("parse_failed", outcome.ParseFailed))
	logger.Info("filters resolved", logging.Args(attrs...)...)

	result, err := s.catalog.Search(ctx, merged)
	if err != nil {
		return outcome, err
	}
	outcome.Applied = result.Applied
	outcome.Dropped = result.Dropped
	outcome.Movies = result.Movies
	if len(result.Unresolved) > 0 {
		outcome.Notices = append(outcome.Notices, UnknownGenreNotice(result.Unresolved))
	}
	if broadening := result.Broadening(); len(broadening) > 0 {
		outcome.Notices = append(outcome.Notices, BroadeningNotice(broadening))
	}
	if len(result.Movies) == 0 {
		outcome.Message = MessageNoMatches
	}
	return outcome, nil
}

// BroadeningNotice tells the user which constraints were dropped.
func BroadeningNotice(dropped []filters.Constraint) string {
	labels := make([]string, 0, len(dropped))
	for _, c := range dropped {
		labels = append(labels, c.Label())
	}
	return "No results with all filters. Dropped: " + strings.Join(labels, ", ") + "."
}

// UnknownGenreNotice tells the user which genres the catalog does not have.
func UnknownGenreNotice(genres []string) string {
	noun := "genre"
	if len(genres) > 1 {
		noun = "genres"
	}
	return "Unknown " + noun + ": " + strings.Join(genres, ", ") + ". Showing results without it."
}

// UserMessage maps an error from Recommend to text safe to show users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, services.ErrEmptyPrompt):
		return MessageEmptyPrompt
	case errors.Is(err, services.ErrValidation):
		return MessageInvalid
	case errors.Is(err, services.ErrQuery):
		return MessageQueryFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was cancelled before it finished."
	default:
		return "Something went wrong. Please try again."
	}
}

// ManualFilters builds the manual FilterSpec from the UI controls.
// An unrecognized decade is ignored.
func ManualFilters(genres []string, decade string, criticsOnly, includeAdult bool) filters.FilterSpec {
	spec := filters.FilterSpec{
		Genres:       filters.NormalizeGenres(genres),
		IncludeAdult: includeAdult,
	}
	if r, ok := filters.ParseDecade(decade); ok {
		spec.Decade = &r
	}
	if criticsOnly {
		spec.MinRating = filters.FloatPtr(CriticsMinRating)
	}
	return spec
}
