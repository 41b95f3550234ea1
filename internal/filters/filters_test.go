package filters

import (
	"reflect"
	"testing"
)

func TestBroadenOrderSkipsAbsentConstraints(t *testing.T) {
	spec := FilterSpec{
		Genres:    []string{"Horror"},
		MinRating: FloatPtr(9.5),
	}
	steps := spec.Broaden()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if !reflect.DeepEqual(steps[0].Dropped, []Constraint{ConstraintRating}) || !reflect.DeepEqual(steps[1].Dropped, []Constraint{ConstraintGenre}) {
		t.Fatalf("unexpected order: %v, %v", steps[0].Dropped, steps[1].Dropped)
	}
	if steps[0].Spec.MinRating != nil || len(steps[0].Spec.Genres) != 1 {
		t.Fatalf("first step should only drop rating: %+v", steps[0].Spec)
	}
	if !steps[1].Spec.IsUnconstrained() {
		t.Fatalf("last step should be unconstrained: %+v", steps[1].Spec)
	}
	if spec.MinRating == nil || len(spec.Genres) != 1 {
		t.Fatal("Broaden must not mutate the receiver")
	}
}

func TestBroadenFullSpecTerminatesInFourSteps(t *testing.T) {
	spec := FilterSpec{
		Genres:        []string{"Comedy", "Romance"},
		Decade:        &YearRange{Start: 1990, End: 1999},
		MinRuntime:    IntPtr(80),
		MaxRuntime:    IntPtr(120),
		MinRating:     FloatPtr(7),
		Certification: "PG-13",
		IncludeAdult:  true,
	}
	steps := spec.Broaden()
	want := [][]Constraint{
		{ConstraintRating},
		{ConstraintRuntime, ConstraintCertification},
		{ConstraintDecade},
		{ConstraintGenre},
	}
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(steps))
	}
	for i, step := range steps {
		if !reflect.DeepEqual(step.Dropped, want[i]) {
			t.Fatalf("step %d dropped %v, want %v", i, step.Dropped, want[i])
		}
	}
	last := steps[len(steps)-1].Spec
	if !last.IsUnconstrained() {
		t.Fatalf("expected unconstrained final spec, got %s", last.Summary())
	}
	if !last.IncludeAdult {
		t.Fatal("include_adult is not a droppable constraint")
	}
}

func TestBroadenCertificationAloneIsOneStep(t *testing.T) {
	spec := FilterSpec{Genres: []string{"Action"}, Certification: "G"}
	steps := spec.Broaden()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if !reflect.DeepEqual(steps[0].Dropped, []Constraint{ConstraintCertification}) {
		t.Fatalf("unexpected first step %v", steps[0].Dropped)
	}
	if steps[0].Spec.Certification != "" || len(steps[0].Spec.Genres) != 1 {
		t.Fatalf("first step should only drop certification: %+v", steps[0].Spec)
	}
}

func TestSanitizeCertification(t *testing.T) {
	cases := map[string]string{
		"pg13":    "PG-13",
		" g ":     "G",
		"Rated R": "R",
		"nc17":    "NC-17",
		"TV-MA":   "",
	}
	for input, want := range cases {
		got, issues := Sanitize(FilterSpec{Certification: input})
		if got.Certification != want {
			t.Errorf("Sanitize(%q).Certification = %q, want %q", input, got.Certification, want)
		}
		if want == "" && (len(issues) != 1 || issues[0].Field != "certification") {
			t.Errorf("expected certification issue for %q, got %+v", input, issues)
		}
	}
}

func TestBroadenUnconstrainedHasNoSteps(t *testing.T) {
	if steps := (FilterSpec{}).Broaden(); len(steps) != 0 {
		t.Fatalf("expected no steps, got %d", len(steps))
	}
}

func TestMergeManualWins(t *testing.T) {
	model := FilterSpec{
		Genres:        []string{"Horror"},
		Decade:        &YearRange{Start: 1980, End: 1989},
		MaxRuntime:    IntPtr(100),
		MinRating:     FloatPtr(6),
		Certification: "PG",
	}
	manual := FilterSpec{
		Genres:    []string{"Comedy"},
		MinRating: FloatPtr(7),
	}
	merged := Merge(model, manual)
	if !reflect.DeepEqual(merged.Genres, []string{"Comedy"}) {
		t.Fatalf("manual genres should replace model genres: %v", merged.Genres)
	}
	if merged.Decade == nil || merged.Decade.Start != 1980 {
		t.Fatalf("model decade should survive: %+v", merged.Decade)
	}
	if merged.MaxRuntime == nil || *merged.MaxRuntime != 100 {
		t.Fatalf("model runtime should survive: %v", merged.MaxRuntime)
	}
	if *merged.MinRating != 7 {
		t.Fatalf("manual rating should win: %v", *merged.MinRating)
	}
	if merged.Certification != "PG" {
		t.Fatalf("model certification should survive: %q", merged.Certification)
	}

	*manual.MinRating = 1
	if *merged.MinRating != 7 {
		t.Fatal("merge must copy pointer fields")
	}
}

func TestSanitizeClearsInvalidFields(t *testing.T) {
	spec := FilterSpec{
		Genres:     []string{" sci-fi ", "Sci-Fi", ""},
		Decade:     &YearRange{Start: 2000, End: 1990},
		MinRuntime: IntPtr(0),
		MaxRuntime: IntPtr(90),
		MinRating:  FloatPtr(42),
	}
	got, issues := Sanitize(spec)
	if !reflect.DeepEqual(got.Genres, []string{"Science Fiction"}) {
		t.Fatalf("unexpected genres %v", got.Genres)
	}
	if got.Decade != nil {
		t.Fatalf("inverted decade should be cleared: %+v", got.Decade)
	}
	if got.MinRuntime != nil {
		t.Fatal("zero min runtime should be cleared")
	}
	if got.MaxRuntime == nil || *got.MaxRuntime != 90 {
		t.Fatalf("valid max runtime should survive: %v", got.MaxRuntime)
	}
	if got.MinRating != nil {
		t.Fatal("out of range rating should be cleared")
	}
	fields := map[string]bool{}
	for _, issue := range issues {
		fields[issue.Field] = true
	}
	for _, want := range []string{"decade", "min_runtime", "min_rating"} {
		if !fields[want] {
			t.Fatalf("expected issue for %s, got %+v", want, issues)
		}
	}
}

func TestSanitizeRuntimeOrder(t *testing.T) {
	got, issues := Sanitize(FilterSpec{MinRuntime: IntPtr(150), MaxRuntime: IntPtr(90)})
	if got.MinRuntime != nil || got.MaxRuntime != nil {
		t.Fatalf("inverted runtime should clear both bounds: %+v", got)
	}
	if len(issues) != 1 || issues[0].Rule != "runtime_order" {
		t.Fatalf("unexpected issues %+v", issues)
	}
}

func TestSanitizeValidSpecUntouched(t *testing.T) {
	spec := FilterSpec{
		Genres:     []string{"Romance"},
		Decade:     &YearRange{Start: 1990},
		MaxRuntime: IntPtr(90),
		MinRating:  FloatPtr(7),
	}
	got, issues := Sanitize(spec)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues %+v", issues)
	}
	if !reflect.DeepEqual(got, spec) {
		t.Fatalf("expected spec unchanged, got %+v", got)
	}
}

func TestParseDecade(t *testing.T) {
	cases := []struct {
		in    string
		start int
		ok    bool
	}{
		{"1990s", 1990, true},
		{"90s", 1990, true},
		{"'80s", 1980, true},
		{"2020s", 2020, true},
		{"20s", 2020, true},
		{"1990", 1990, true},
		{"1995", 0, false},
		{"Any", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseDecade(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseDecade(%q) ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if ok && (got.Start != tc.start || got.End != tc.start+9) {
			t.Fatalf("ParseDecade(%q) = %+v", tc.in, got)
		}
	}
}

func TestYearRangeString(t *testing.T) {
	cases := map[YearRange]string{
		{Start: 1990, End: 1999}: "1990s",
		{Start: 1985, End: 1992}: "1985-1992",
		{Start: 2001}:            "from 2001",
		{End: 1960}:              "until 1960",
	}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Fatalf("%+v.String() = %q, want %q", r, got, want)
		}
	}
}

func TestNormalizeGenre(t *testing.T) {
	cases := map[string]string{
		"romantic":        "Romance",
		"science fiction": "Science Fiction",
		"HORROR":          "Horror",
		"  war  ":         "War",
		"Westerns":        "Western",
		"documentaries":   "Documentary",
		"":                "",
	}
	for in, want := range cases {
		if got := NormalizeGenre(in); got != want {
			t.Fatalf("NormalizeGenre(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummary(t *testing.T) {
	spec := FilterSpec{Genres: []string{"Horror"}, Decade: &YearRange{Start: 1990, End: 1999}, MinRating: FloatPtr(7.5)}
	if got := spec.Summary(); got != "genre=Horror decade=1990s min_rating=7.5" {
		t.Fatalf("unexpected summary %q", got)
	}
	spec.Certification = "PG"
	if got := spec.Summary(); got != "genre=Horror decade=1990s min_rating=7.5 certification=PG" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := (FilterSpec{}).Summary(); got != "unconstrained" {
		t.Fatalf("unexpected summary %q", got)
	}
}
