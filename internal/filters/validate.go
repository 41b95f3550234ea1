package filters

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Invalid describes a field that failed validation and was cleared.
type Invalid struct {
	Field string
	Rule  string
	Value any
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterStructValidation(filterSpecStructLevel, FilterSpec{})
		validate.RegisterStructValidation(yearRangeStructLevel, YearRange{})
	})
	return validate
}

func filterSpecStructLevel(sl validator.StructLevel) {
	spec, ok := sl.Current().Interface().(FilterSpec)
	if !ok {
		return
	}
	if spec.MinRuntime != nil && spec.MaxRuntime != nil && *spec.MinRuntime > *spec.MaxRuntime {
		sl.ReportError(*spec.MaxRuntime, "MaxRuntime", "MaxRuntime", "runtime_order", "")
	}
}

func yearRangeStructLevel(sl validator.StructLevel) {
	r, ok := sl.Current().Interface().(YearRange)
	if !ok {
		return
	}
	if r.Start > 0 && r.End > 0 && r.Start > r.End {
		sl.ReportError(r.End, "End", "End", "year_order", "")
	}
}

// Sanitize normalizes genre names and validates the spec. Fields that fail
// validation are cleared (left unconstrained) and reported; it never fails.
func Sanitize(spec FilterSpec) (FilterSpec, []Invalid) {
	out := spec.Clone()
	out.Genres = NormalizeGenres(out.Genres)
	out.Certification = NormalizeCertification(out.Certification)

	err := validatorInstance().Struct(out)
	if err == nil {
		return out, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out, nil
	}

	var issues []Invalid
	for _, fe := range verrs {
		field := topLevelField(fe.StructNamespace())
		issues = append(issues, Invalid{Field: jsonFieldName(field), Rule: fe.Tag(), Value: fe.Value()})
		switch field {
		case "Genres":
			out.Genres = nil
		case "Decade":
			out.Decade = nil
		case "MinRuntime":
			out.MinRuntime = nil
		case "MaxRuntime":
			out.MaxRuntime = nil
			if fe.Tag() == "runtime_order" {
				out.MinRuntime = nil
			}
		case "MinRating":
			out.MinRating = nil
		case "Certification":
			out.Certification = ""
		}
	}
	return out, issues
}

// NormalizeCertification upper-cases a rating and folds common spellings
// ("PG13", "nc17", "rated R") onto the TMDB US certification names.
func NormalizeCertification(value string) string {
	v := strings.ToUpper(strings.Join(strings.Fields(value), " "))
	v = strings.TrimPrefix(v, "RATED ")
	switch v {
	case "PG13":
		return "PG-13"
	case "NC17":
		return "NC-17"
	}
	return v
}

// topLevelField maps "FilterSpec.Decade.End" or "FilterSpec.Genres[3]" to
// the FilterSpec field name.
func topLevelField(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return namespace
	}
	field := parts[1]
	if idx := strings.IndexByte(field, '['); idx >= 0 {
		field = field[:idx]
	}
	return field
}

func jsonFieldName(field string) string {
	switch field {
	case "Genres":
		return "genres"
	case "Decade":
		return "decade"
	case "MinRuntime":
		return "min_runtime"
	case "MaxRuntime":
		return "max_runtime"
	case "MinRating":
		return "min_rating"
	case "Certification":
		return "certification"
	default:
		return strings.ToLower(field)
	}
}
