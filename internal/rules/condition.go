// Package rules evaluates assessment conditional logic and validates
// candidate answers. Everything here is a pure function of its arguments.
package rules

import "talentflow/internal/model"

// IsVisible reports whether q should be shown given the current responses.
//
// A question whose dependency has not been answered is hidden for every
// operator, not_equals included. A dependsOn that names no existing question
// therefore keeps the question hidden instead of failing.
func IsVisible(q *model.Question, responses model.Responses) bool {
	if q == nil || q.Conditional == nil {
		return true
	}
	rule := q.Conditional

	dep, ok := responses[rule.DependsOn]
	if !ok {
		return false
	}

	switch rule.ShowWhen {
	case model.ShowWhenEquals:
		return equalsAny(dep, rule.Value)
	case model.ShowWhenNotEquals:
		return !equalsAny(dep, rule.Value)
	case model.ShowWhenContains:
		if dep.Kind != model.ValueChoices {
			return false
		}
		for _, c := range dep.Choices {
			if rule.Value.Has(c) {
				return true
			}
		}
		return false
	default:
		// unknown operators fail open
		return true
	}
}

// equalsAny is true when dep has a scalar form listed in values.
// Multi-select and file answers never equal anything.
func equalsAny(dep model.Value, values model.ConditionValue) bool {
	s, ok := dep.Scalar()
	if !ok {
		return false
	}
	return values.Has(s)
}
