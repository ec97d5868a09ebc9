package rules

import (
	"fmt"
	"strings"

	"talentflow/internal/model"
)

// AuthoringReport lists problems with an assessment's conditional rules
type AuthoringReport struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors,omitempty"`
}

// CheckAssessment verifies the conditional rules of a before it is saved.
//
// Per question with a rule it reports, in order: a dependency that does not
// exist (nothing else is checked for that rule), a self dependency, a
// dependency that is not strictly earlier in the flattened order, condition
// values that are not options of a choice dependency, and membership in a
// dependency cycle.
func CheckAssessment(a *model.Assessment) AuthoringReport {
	flat := Flatten(a)

	position := make(map[string]int, len(flat))
	byID := make(map[string]*model.Question, len(flat))
	for i := range flat {
		position[flat[i].ID] = i
		byID[flat[i].ID] = &flat[i]
	}

	var errs []string
	for i := range flat {
		q := &flat[i]
		rule := q.Conditional
		if rule == nil {
			continue
		}

		dep, ok := byID[rule.DependsOn]
		if !ok {
			errs = append(errs, fmt.Sprintf("Question \"%s\" depends on non-existent question", q.Title))
			continue
		}
		if dep.ID == q.ID {
			errs = append(errs, fmt.Sprintf("Question \"%s\" cannot depend on itself", q.Title))
			continue
		}
		if position[dep.ID] > i {
			errs = append(errs, fmt.Sprintf("Question \"%s\" must come after the question it depends on", q.Title))
		}
		if dep.Type.HasOptions() {
			var invalid []string
			for _, v := range rule.Value {
				if !dep.HasOption(v) {
					invalid = append(invalid, v)
				}
			}
			if len(invalid) > 0 {
				errs = append(errs, fmt.Sprintf("Question \"%s\" has invalid condition values: %s", q.Title, strings.Join(invalid, ", ")))
			}
		}
	}

	for _, id := range cycleMembers(flat) {
		errs = append(errs, fmt.Sprintf("Question \"%s\" is part of a circular dependency", byID[id].Title))
	}

	return AuthoringReport{OK: len(errs) == 0, Errors: errs}
}

// cycleMembers returns, in flattened order, the questions that sit on a
// dependency cycle of length two or more. Self references are reported
// separately and skipped here.
func cycleMembers(flat []model.Question) []string {
	next := make(map[string]string, len(flat))
	for _, q := range flat {
		if q.Conditional != nil && q.Conditional.DependsOn != q.ID {
			next[q.ID] = q.Conditional.DependsOn
		}
	}

	// each question has at most one outgoing edge, so following it from any
	// start either ends or loops
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(flat))
	onCycle := make(map[string]bool)

	for _, q := range flat {
		if state[q.ID] != unvisited {
			continue
		}
		var path []string
		cur := q.ID
		for {
			if state[cur] == inProgress {
				for i := len(path) - 1; i >= 0; i-- {
					onCycle[path[i]] = true
					if path[i] == cur {
						break
					}
				}
				break
			}
			if state[cur] == done {
				break
			}
			state[cur] = inProgress
			path = append(path, cur)
			n, ok := next[cur]
			if !ok {
				break
			}
			cur = n
		}
		for _, id := range path {
			state[id] = done
		}
	}

	var out []string
	for _, q := range flat {
		if onCycle[q.ID] {
			out = append(out, q.ID)
		}
	}
	return out
}
