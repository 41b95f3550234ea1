package interpreter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"marquee/internal/filters"
	"marquee/internal/logging"
	"marquee/internal/services"
)

// Completer sends a system and user prompt to a language model and returns
// its raw reply.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Interpreter extracts a FilterSpec from free-text prompts.
type Interpreter struct {
	completer Completer
	logger    *slog.Logger
}

// New builds an interpreter over the given model client.
func New(completer Completer, logger *slog.Logger) *Interpreter {
	return &Interpreter{
		completer: completer,
		logger:    logging.NewComponentLogger(logger, "interpreter"),
	}
}

// Interpret asks the model for filters matching prompt. Blank prompts fail
// with services.ErrEmptyPrompt before the model is contacted. Unparseable
// replies return a *ParseError; invalid individual fields are cleared.
func (i *Interpreter) Interpret(ctx context.Context, prompt string) (filters.FilterSpec, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return filters.FilterSpec{}, services.Wrap(services.ErrEmptyPrompt, "interpreter", "interpret", "prompt is blank", nil)
	}
	if i == nil || i.completer == nil {
		return filters.FilterSpec{}, services.Wrap(services.ErrConfiguration, "interpreter", "interpret", "no model client configured", nil)
	}
	logger := logging.WithContext(ctx, i.logger)

	content, err := i.completer.CompleteJSON(ctx, InstructionTemplate, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return filters.FilterSpec{}, err
		}
		return filters.FilterSpec{}, fmt.Errorf("interpreter: model request: %w", err)
	}

	spec, err := Parse(content)
	if err != nil {
		return filters.FilterSpec{}, err
	}

	spec, issues := filters.Sanitize(spec)
	for _, issue := range issues {
		logging.WarnWithContext(logger, "model filter rejected", "filter_invalid",
			logging.String("field", issue.Field),
			logging.String("rule", issue.Rule),
			logging.Any("value", issue.Value),
			logging.String(logging.FieldImpact, "field left unconstrained"),
			logging.String(logging.FieldErrorHint, "rephrase the request if the filter mattered"),
		)
	}
	logger.Debug("prompt interpreted", logging.String("filters", spec.Summary()))
	return spec, nil
}
