package interpreter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"marquee/internal/filters"
	"marquee/internal/services"
	"marquee/internal/services/llm"
)

// ParseError reports model output that could not be read as a filter object.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("interpreter: parse model output: %v", e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{services.ErrParse, e.Err}
}

// Parse decodes model output into a FilterSpec. Unknown keys are ignored and
// individual values of the wrong shape are skipped; only output that is not a
// JSON object at all, including a bare null, is an error.
func Parse(content string) (filters.FilterSpec, error) {
	var raw *modelFilters
	if err := llm.DecodeLLMJSON(content, &raw); err != nil {
		return filters.FilterSpec{}, &ParseError{Raw: content, Err: err}
	}
	if raw == nil {
		return filters.FilterSpec{}, &ParseError{Raw: content, Err: errors.New("null payload")}
	}
	return raw.spec(), nil
}

type modelFilters struct {
	Genres        genreList  `json:"genres"`
	Genre         genreList  `json:"genre"`
	YearStart     flexNumber `json:"year_start"`
	YearEnd       flexNumber `json:"year_end"`
	Decade        flexString `json:"decade"`
	MinRating     flexNumber `json:"min_rating"`
	MinScore      flexNumber `json:"min_score"`
	MinRuntime    flexNumber `json:"min_runtime"`
	MaxRuntime    flexNumber `json:"max_runtime"`
	Certification flexString `json:"certification"`
}

func (m modelFilters) spec() filters.FilterSpec {
	var spec filters.FilterSpec

	genres := append([]string(nil), m.Genres...)
	genres = append(genres, m.Genre...)
	spec.Genres = filters.NormalizeGenres(genres)

	start, hasStart := m.YearStart.asInt()
	end, hasEnd := m.YearEnd.asInt()
	switch {
	case hasStart || hasEnd:
		r := filters.YearRange{}
		if hasStart {
			r.Start = start
		}
		if hasEnd {
			r.End = end
		}
		spec.Decade = &r
	case m.Decade.set:
		if r, ok := filters.ParseDecade(m.Decade.value); ok {
			spec.Decade = &r
		}
	}

	if v, ok := m.MinRating.asFloat(); ok {
		spec.MinRating = &v
	} else if v, ok := m.MinScore.asFloat(); ok {
		spec.MinRating = &v
	}
	if v, ok := m.MinRuntime.asInt(); ok {
		spec.MinRuntime = &v
	}
	if v, ok := m.MaxRuntime.asInt(); ok {
		spec.MaxRuntime = &v
	}
	if m.Certification.set {
		spec.Certification = filters.NormalizeCertification(m.Certification.value)
	}
	return spec
}

// flexNumber accepts a JSON number, a numeric string, or null. Anything else
// leaves it unset without failing the whole decode.
type flexNumber struct {
	value float64
	set   bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	*n = flexNumber{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		n.value, n.set = f, true
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n.value, n.set = f, true
		}
	}
	return nil
}

func (n flexNumber) asFloat() (float64, bool) {
	if !n.set || math.IsNaN(n.value) || math.IsInf(n.value, 0) {
		return 0, false
	}
	return n.value, true
}

func (n flexNumber) asInt() (int, bool) {
	f, ok := n.asFloat()
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}

// flexString accepts a JSON string or number.
type flexString struct {
	value string
	set   bool
}

func (s *flexString) UnmarshalJSON(data []byte) error {
	*s = flexString{}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str = strings.TrimSpace(str); str != "" {
			s.value, s.set = str, true
		}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		s.value, s.set = num.String(), true
	}
	return nil
}

// genreList accepts a single genre string or a list of them.
type genreList []string

func (g *genreList) UnmarshalJSON(data []byte) error {
	*g = nil
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		for _, item := range list {
			if name, ok := item.(string); ok {
				*g = append(*g, name)
			}
		}
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil && strings.TrimSpace(single) != "" {
		*g = genreList{single}
	}
	return nil
}
