package queryir

import (
	"fmt"
	"regexp"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks that a query is well formed: identifiers are simple
// lower-case names, literals are strings or integers, and no node is nil.
// Returns all problems found (does not fail-fast).
//
// Validate is a pure function with no side effects.
func Validate(q Query) []string {
	v := &validator{problems: []string{}}
	v.validateQuery(q)
	return v.problems
}

type validator struct {
	problems []string
}

func (v *validator) add(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.add("nil query")
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.add("nil query")
			return
		}
		v.validateSelect(*query)
	default:
		v.add("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(s Select) {
	if !identPattern.MatchString(s.From) {
		v.add("invalid source name %q", s.From)
	}
	if s.Limit < 0 {
		v.add("limit must be non-negative, got %d", s.Limit)
	}
	if s.Filter != nil {
		v.validatePredicate(s.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		v.add("nil predicate")
	case Equals:
		v.validateField(pred.Field)
		switch pred.Value.(type) {
		case string, int, int64:
		default:
			v.add("field %q: unsupported literal type %T (string or integer required)", pred.Field, pred.Value)
		}
	case *Equals:
		v.validatePredicate(*pred)
	case AtLeast:
		v.validateField(pred.Field)
	case *AtLeast:
		v.validatePredicate(*pred)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case *And:
		v.validatePredicate(*pred)
	default:
		v.add("unknown predicate type %T", p)
	}
}

func (v *validator) validateField(field string) {
	if !identPattern.MatchString(field) {
		v.add("invalid field name %q", field)
	}
}
