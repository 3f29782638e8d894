package form

import "sort"

// Stage orders rules inside the Gate. Lower stages run first.
type Stage int

const (
	StageRequired Stage = iota
	StageLength
	StageCardinality
	StageBudget
	StageEquality
	StageFormat
)

func (s Stage) String() string {
	switch s {
	case StageRequired:
		return "required"
	case StageLength:
		return "length"
	case StageCardinality:
		return "cardinality"
	case StageBudget:
		return "budget"
	case StageEquality:
		return "equality"
	case StageFormat:
		return "format"
	}
	return "unknown"
}

// Violation is one failed rule.
type Violation struct {
	Field   string
	Stage   Stage
	Message string
}

// Rule checks a draft snapshot and returns nil when it passes.
type Rule interface {
	Stage() Stage
	Check(d *Draft) *Violation
}

// Gate runs rules in stage order. Rules of the same stage keep declaration order.
type Gate struct {
	store *Store
	rules []Rule
}

func NewGate(s *Store, rules ...Rule) *Gate {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Stage() < sorted[j].Stage() })
	return &Gate{store: s, rules: sorted}
}

// Check returns the first violation as a validation *Error, or nil.
func (g *Gate) Check() error {
	d := g.store.Snapshot()
	for _, r := range g.rules {
		if v := r.Check(d); v != nil {
			return &Error{Kind: KindValidation, Message: v.Message, Field: v.Field}
		}
	}
	return nil
}

// Violations returns every failing rule, for inline hints. Submission uses Check.
func (g *Gate) Violations() []Violation {
	d := g.store.Snapshot()
	var out []Violation
	for _, r := range g.rules {
		if v := r.Check(d); v != nil {
			out = append(out, *v)
		}
	}
	return out
}
