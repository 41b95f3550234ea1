package filters

// Constraint names one droppable part of a FilterSpec.
type Constraint string

const (
	ConstraintRating        Constraint = "rating"
	ConstraintRuntime       Constraint = "runtime"
	ConstraintCertification Constraint = "certification"
	ConstraintDecade        Constraint = "decade"
	ConstraintGenre         Constraint = "genre"
)

// BroadeningOrder is the sequence in which constraints are relaxed when a
// search comes back empty.
var BroadeningOrder = []Constraint{
	ConstraintRating,
	ConstraintRuntime,
	ConstraintCertification,
	ConstraintDecade,
	ConstraintGenre,
}

// broadeningStages groups BroadeningOrder into the steps Broaden takes.
// Runtime and certification go together, so there are never more than four.
var broadeningStages = [][]Constraint{
	{ConstraintRating},
	{ConstraintRuntime, ConstraintCertification},
	{ConstraintDecade},
	{ConstraintGenre},
}

// Label is the user-facing name of the constraint.
func (c Constraint) Label() string {
	switch c {
	case ConstraintRating:
		return "minimum rating"
	case ConstraintRuntime:
		return "runtime limit"
	case ConstraintCertification:
		return "certification"
	case ConstraintDecade:
		return "decade"
	case ConstraintGenre:
		return "genre"
	default:
		return string(c)
	}
}

// Step is one broadening attempt: the constraints that were just dropped and
// the spec left after dropping them (and everything dropped before).
type Step struct {
	Dropped []Constraint
	Spec    FilterSpec
}

// Broaden lists the successively looser specs to try after f returns nothing.
// Absent constraints are skipped, so the list has at most four entries and
// always ends with an unconstrained spec when f had any constraint.
func (f FilterSpec) Broaden() []Step {
	steps := make([]Step, 0, len(broadeningStages))
	current := f.Clone()
	for _, stage := range broadeningStages {
		var dropped []Constraint
		for _, c := range stage {
			if current.Has(c) {
				current = current.Without(c)
				dropped = append(dropped, c)
			}
		}
		if len(dropped) > 0 {
			steps = append(steps, Step{Dropped: dropped, Spec: current})
		}
	}
	return steps
}
