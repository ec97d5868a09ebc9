package rules

import (
	"math"
	"sort"

	"talentflow/internal/model"
)

// Progress summarises how much of the visible assessment is answered
type Progress struct {
	Answered int `json:"answered"`
	Visible  int `json:"visible"`
	Percent  int `json:"percent"`
}

// QuestionError is a visible question blocking submission
type QuestionError struct {
	QuestionID string `json:"questionId"`
	Reason     string `json:"reason"`
}

// SubmissionCheck is the result of validating every visible question
type SubmissionCheck struct {
	Ready  bool            `json:"ready"`
	Errors []QuestionError `json:"errors"`
}

// SectionCheck gates moving past one section of the form
type SectionCheck struct {
	Errors     []QuestionError `json:"errors"`
	CanProceed bool            `json:"canProceed"`
}

// Lookup returns the answer for id, or nil when it was never answered
func Lookup(responses model.Responses, id string) *model.Value {
	v, ok := responses[id]
	if !ok {
		return nil
	}
	return &v
}

func answered(responses model.Responses, id string) bool {
	v, ok := responses[id]
	return ok && !v.IsEmpty()
}

// orderedSections returns section indexes sorted by Order, ties kept in
// insertion order.
func orderedSections(a *model.Assessment) []int {
	idx := make([]int, len(a.Sections))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return a.Sections[idx[i]].Order < a.Sections[idx[j]].Order
	})
	return idx
}

func orderedQuestions(s *model.Section) []model.Question {
	qs := make([]model.Question, len(s.Questions))
	copy(qs, s.Questions)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	return qs
}

// Flatten concatenates sections by order, each section's questions by order.
// This sequence is the dependency order of the assessment.
func Flatten(a *model.Assessment) []model.Question {
	if a == nil {
		return nil
	}
	var out []model.Question
	for _, i := range orderedSections(a) {
		out = append(out, orderedQuestions(&a.Sections[i])...)
	}
	return out
}

// VisibleQuestions walks the flattened assessment once. Dependencies precede
// their dependents, so no fixed-point iteration is needed.
func VisibleQuestions(a *model.Assessment, responses model.Responses) []model.Question {
	out := []model.Question{}
	for _, q := range Flatten(a) {
		if IsVisible(&q, responses) {
			out = append(out, q)
		}
	}
	return out
}

// ComputeProgress counts answered questions among the visible ones.
// Answers to hidden questions are ignored.
func ComputeProgress(a *model.Assessment, responses model.Responses) Progress {
	visible := VisibleQuestions(a, responses)
	p := Progress{Visible: len(visible)}
	for _, q := range visible {
		if answered(responses, q.ID) {
			p.Answered++
		}
	}
	if p.Visible > 0 {
		p.Percent = int(math.Round(100 * float64(p.Answered) / float64(p.Visible)))
	}
	return p
}

// CheckSubmission validates every visible question. Hidden questions are
// never validated, even when they hold a stale answer.
func CheckSubmission(a *model.Assessment, responses model.Responses) SubmissionCheck {
	check := SubmissionCheck{Errors: []QuestionError{}}
	for _, q := range VisibleQuestions(a, responses) {
		if res := Validate(&q, Lookup(responses, q.ID)); !res.OK {
			check.Errors = append(check.Errors, QuestionError{QuestionID: q.ID, Reason: res.Reason})
		}
	}
	check.Ready = len(check.Errors) == 0
	return check
}

// CheckSection validates the visible questions of one section and reports
// whether every required visible question in it has an answer.
func CheckSection(a *model.Assessment, sectionID string, responses model.Responses) (SectionCheck, error) {
	s, ok := a.Section(sectionID)
	if !ok {
		return SectionCheck{}, model.ErrSectionNotFound
	}

	check := SectionCheck{Errors: []QuestionError{}, CanProceed: true}
	for _, q := range orderedQuestions(s) {
		if !IsVisible(&q, responses) {
			continue
		}
		if q.Required && !answered(responses, q.ID) {
			check.CanProceed = false
		}
		if res := Validate(&q, Lookup(responses, q.ID)); !res.OK {
			check.Errors = append(check.Errors, QuestionError{QuestionID: q.ID, Reason: res.Reason})
		}
	}
	return check, nil
}

// BuildSubmission freezes the response map into an ordered list with one
// entry per answered, currently visible question.
func BuildSubmission(a *model.Assessment, responses model.Responses) []model.QuestionResponse {
	out := []model.QuestionResponse{}
	for _, q := range VisibleQuestions(a, responses) {
		if !answered(responses, q.ID) {
			continue
		}
		out = append(out, model.QuestionResponse{QuestionID: q.ID, Value: responses[q.ID]})
	}
	return out
}

// AvailableDependencies lists the questions a rule on questionID may depend
// on: everything strictly before it in the flattened order.
func AvailableDependencies(a *model.Assessment, questionID string) []model.Question {
	out := []model.Question{}
	for _, q := range Flatten(a) {
		if q.ID == questionID {
			break
		}
		out = append(out, q)
	}
	return out
}
