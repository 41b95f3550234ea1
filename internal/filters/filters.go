package filters

import (
	"fmt"
	"strconv"
	"strings"
)

// YearRange is an inclusive release-year window. A zero bound is open.
type YearRange struct {
	Start int `json:"year_start,omitempty" validate:"omitempty,gte=1870,lte=2100"`
	End   int `json:"year_end,omitempty" validate:"omitempty,gte=1870,lte=2100"`
}

// IsZero reports whether both bounds are open.
func (r YearRange) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// String renders the range the way it is shown to users ("1990s", "1985-1992", "from 2001").
func (r YearRange) String() string {
	switch {
	case r.Start > 0 && r.End == r.Start+9 && r.Start%10 == 0:
		return strconv.Itoa(r.Start) + "s"
	case r.Start > 0 && r.End > 0:
		return fmt.Sprintf("%d-%d", r.Start, r.End)
	case r.Start > 0:
		return fmt.Sprintf("from %d", r.Start)
	case r.End > 0:
		return fmt.Sprintf("until %d", r.End)
	default:
		return "any"
	}
}

// FilterSpec is the structured search request distilled from a prompt and
// the manual controls. Nil or empty fields are unconstrained.
type FilterSpec struct {
	Genres     []string   `json:"genres,omitempty" validate:"omitempty,max=8,dive,required,max=64"`
	Decade     *YearRange `json:"decade,omitempty"`
	MinRuntime *int       `json:"min_runtime,omitempty" validate:"omitempty,gte=1,lte=600"`
	MaxRuntime *int       `json:"max_runtime,omitempty" validate:"omitempty,gte=1,lte=600"`
	MinRating  *float64   `json:"min_rating,omitempty" validate:"omitempty,gte=0,lte=10"`

	// Certification is the highest acceptable US-style rating, e.g. "PG-13".
	Certification string `json:"certification,omitempty" validate:"omitempty,oneof=G PG PG-13 R NC-17"`

	// IncludeAdult is a display preference, never dropped while broadening.
	IncludeAdult bool `json:"include_adult,omitempty"`
}

// Has reports whether the constraint is populated.
func (f FilterSpec) Has(c Constraint) bool {
	switch c {
	case ConstraintRating:
		return f.MinRating != nil
	case ConstraintRuntime:
		return f.MinRuntime != nil || f.MaxRuntime != nil
	case ConstraintCertification:
		return f.Certification != ""
	case ConstraintDecade:
		return f.Decade != nil && !f.Decade.IsZero()
	case ConstraintGenre:
		return len(f.Genres) > 0
	default:
		return false
	}
}

// Without returns a copy of f with the constraint cleared.
func (f FilterSpec) Without(c Constraint) FilterSpec {
	out := f.Clone()
	switch c {
	case ConstraintRating:
		out.MinRating = nil
	case ConstraintRuntime:
		out.MinRuntime = nil
		out.MaxRuntime = nil
	case ConstraintCertification:
		out.Certification = ""
	case ConstraintDecade:
		out.Decade = nil
	case ConstraintGenre:
		out.Genres = nil
	}
	return out
}

// IsUnconstrained reports whether no droppable constraint is populated.
func (f FilterSpec) IsUnconstrained() bool {
	for _, c := range BroadeningOrder {
		if f.Has(c) {
			return false
		}
	}
	return true
}

// Constraints lists the populated constraints in broadening order.
func (f FilterSpec) Constraints() []Constraint {
	var out []Constraint
	for _, c := range BroadeningOrder {
		if f.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a deep copy so callers never share pointer fields.
func (f FilterSpec) Clone() FilterSpec {
	out := FilterSpec{Certification: f.Certification, IncludeAdult: f.IncludeAdult}
	if len(f.Genres) > 0 {
		out.Genres = append([]string(nil), f.Genres...)
	}
	if f.Decade != nil {
		d := *f.Decade
		out.Decade = &d
	}
	if f.MinRuntime != nil {
		v := *f.MinRuntime
		out.MinRuntime = &v
	}
	if f.MaxRuntime != nil {
		v := *f.MaxRuntime
		out.MaxRuntime = &v
	}
	if f.MinRating != nil {
		v := *f.MinRating
		out.MinRating = &v
	}
	return out
}

// Summary renders the populated constraints for logs and notices.
func (f FilterSpec) Summary() string {
	parts := make([]string, 0, 6)
	if len(f.Genres) > 0 {
		parts = append(parts, "genre="+strings.Join(f.Genres, ","))
	}
	if f.Decade != nil && !f.Decade.IsZero() {
		parts = append(parts, "decade="+f.Decade.String())
	}
	if f.MinRuntime != nil {
		parts = append(parts, fmt.Sprintf("min_runtime=%d", *f.MinRuntime))
	}
	if f.MaxRuntime != nil {
		parts = append(parts, fmt.Sprintf("max_runtime=%d", *f.MaxRuntime))
	}
	if f.MinRating != nil {
		parts = append(parts, "min_rating="+strconv.FormatFloat(*f.MinRating, 'f', -1, 64))
	}
	if f.Certification != "" {
		parts = append(parts, "certification="+f.Certification)
	}
	if len(parts) == 0 {
		return "unconstrained"
	}
	return strings.Join(parts, " ")
}

// Merge overlays manual UI choices on model-extracted filters. Any manual
// field that is set wins; the rest come from the model.
func Merge(model, manual FilterSpec) FilterSpec {
	out := model.Clone()
	m := manual.Clone()
	if len(m.Genres) > 0 {
		out.Genres = m.Genres
	}
	if m.Decade != nil && !m.Decade.IsZero() {
		out.Decade = m.Decade
	}
	if m.MinRuntime != nil {
		out.MinRuntime = m.MinRuntime
	}
	if m.MaxRuntime != nil {
		out.MaxRuntime = m.MaxRuntime
	}
	if m.MinRating != nil {
		out.MinRating = m.MinRating
	}
	if m.Certification != "" {
		out.Certification = m.Certification
	}
	out.IncludeAdult = model.IncludeAdult || manual.IncludeAdult
	return out
}

// IntPtr and FloatPtr are small helpers for building specs.
func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }
