package interpreter

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"marquee/internal/filters"
	"marquee/internal/logging"
	"marquee/internal/services"
)

type stubCompleter struct {
	reply  string
	err    error
	calls  int
	system string
	user   string
}

func (s *stubCompleter) CompleteJSON(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.system = system
	s.user = user
	return s.reply, s.err
}

func TestInterpretRomanticUnder90(t *testing.T) {
	stub := &stubCompleter{reply: "```json\n{\"genres\": [\"romance\"], \"max_runtime\": 90, \"year_start\": null, \"certification\": null}\n```"}
	interp := New(stub, logging.NewNop())

	spec, err := interp.Interpret(context.Background(), "  romantic movie under 90 minutes ")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if !reflect.DeepEqual(spec.Genres, []string{"Romance"}) {
		t.Fatalf("unexpected genres %v", spec.Genres)
	}
	if spec.MaxRuntime == nil || *spec.MaxRuntime != 90 {
		t.Fatalf("unexpected max runtime %v", spec.MaxRuntime)
	}
	if spec.Decade != nil || spec.MinRating != nil || spec.MinRuntime != nil || spec.Certification != "" {
		t.Fatalf("unexpected extra constraints %s", spec.Summary())
	}
	if stub.system != InstructionTemplate || stub.user != "romantic movie under 90 minutes" {
		t.Fatalf("unexpected prompts sent: %q / %q", stub.system, stub.user)
	}
}

func TestInterpretEmptyPromptSkipsModel(t *testing.T) {
	stub := &stubCompleter{reply: "{}"}
	interp := New(stub, logging.NewNop())

	_, err := interp.Interpret(context.Background(), " \t\n")
	if !errors.Is(err, services.ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("model should not be called, got %d calls", stub.calls)
	}
}

func TestInterpretMalformedOutputIsParseError(t *testing.T) {
	stub := &stubCompleter{reply: "I'm sorry, I can't help with that."}
	interp := New(stub, logging.NewNop())

	spec, err := interp.Interpret(context.Background(), "something good")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if !errors.Is(err, services.ErrParse) || !services.Recoverable(err) {
		t.Fatalf("parse errors should carry ErrParse: %v", err)
	}
	if parseErr.Raw != stub.reply {
		t.Fatalf("raw output not preserved: %q", parseErr.Raw)
	}
	if !spec.IsUnconstrained() {
		t.Fatalf("expected empty spec on failure, got %s", spec.Summary())
	}
}

func TestInterpretTransportError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}
	_, err := New(stub, logging.NewNop()).Interpret(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error")
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		t.Fatal("transport errors are not parse errors")
	}
}

func TestInterpretClearsInvalidFields(t *testing.T) {
	stub := &stubCompleter{reply: `{"genres":["Horror"],"min_rating":15,"min_runtime":120,"max_runtime":60}`}
	spec, err := New(stub, logging.NewNop()).Interpret(context.Background(), "scary")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if spec.MinRating != nil || spec.MinRuntime != nil || spec.MaxRuntime != nil {
		t.Fatalf("invalid fields should be cleared: %s", spec.Summary())
	}
	if len(spec.Genres) != 1 {
		t.Fatalf("valid genre should survive: %v", spec.Genres)
	}
}

func TestInterpretCertification(t *testing.T) {
	stub := &stubCompleter{reply: `{"genres":["Comedy"],"certification":"PG"}`}
	spec, err := New(stub, logging.NewNop()).Interpret(context.Background(), "a comedy for kids")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if spec.Certification != "PG" {
		t.Fatalf("certification = %q, want PG", spec.Certification)
	}

	stub.reply = `{"genres":["Comedy"],"certification":"TV-MA"}`
	spec, err = New(stub, logging.NewNop()).Interpret(context.Background(), "a comedy")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if spec.Certification != "" {
		t.Fatalf("unknown certification should be cleared, got %q", spec.Certification)
	}
}

func TestInterpretWithoutCompleter(t *testing.T) {
	_, err := New(nil, nil).Interpret(context.Background(), "prompt")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestParseTolerantShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want filters.FilterSpec
	}{
		{
			name: "single genre string and decade string",
			in:   `{"genre":"horror","decade":"1990s"}`,
			want: filters.FilterSpec{Genres: []string{"Horror"}, Decade: &filters.YearRange{Start: 1990, End: 1999}},
		},
		{
			name: "numeric strings and min_score alias",
			in:   `{"min_score":"7.5","max_runtime":"95"}`,
			want: filters.FilterSpec{MinRating: filters.FloatPtr(7.5), MaxRuntime: filters.IntPtr(95)},
		},
		{
			name: "one sided year range",
			in:   `{"year_start":2010}`,
			want: filters.FilterSpec{Decade: &filters.YearRange{Start: 2010}},
		},
		{
			name: "explicit range beats decade",
			in:   `{"year_start":1985,"year_end":1992,"decade":"1970s"}`,
			want: filters.FilterSpec{Decade: &filters.YearRange{Start: 1985, End: 1992}},
		},
		{
			name: "wrong value shapes ignored",
			in:   `{"genres":[1,"Drama",null],"min_rating":true,"max_runtime":{"x":1},"unknown":"key"}`,
			want: filters.FilterSpec{Genres: []string{"Drama"}},
		},
		{
			name: "prose around object",
			in:   `Sure! Here are the filters: {"genres":["Comedy"]}`,
			want: filters.FilterSpec{Genres: []string{"Comedy"}},
		},
		{
			name: "certification spelled loosely",
			in:   `{"genre":"comedy","certification":"rated pg13"}`,
			want: filters.FilterSpec{Genres: []string{"Comedy"}, Certification: "PG-13"},
		},
		{
			name: "all null",
			in:   `{"genres":null,"year_start":null,"min_rating":null}`,
			want: filters.FilterSpec{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Parse(%s) = %s, want %s", tc.in, got.Summary(), tc.want.Summary())
			}
		})
	}
}

func TestParseRejectsNonObjects(t *testing.T) {
	for _, in := range []string{"", "[1,2,3]", `"just a string"`, "42", "{not json", "null", "```json\nnull\n```"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) should fail", in)
		}
	}
}
