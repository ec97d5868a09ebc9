package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"talentflow/internal/model"
)

func oneSection(qs ...model.Question) *model.Assessment {
	for i := range qs {
		qs[i].Order = i
	}
	return &model.Assessment{ID: "a", Sections: []model.Section{{ID: "s", Questions: qs}}}
}

func rule(dependsOn string, op model.ShowWhen, values ...string) *model.ConditionalRule {
	return &model.ConditionalRule{DependsOn: dependsOn, ShowWhen: op, Value: model.ConditionValue(values)}
}

func TestCheckAssessment_Valid(t *testing.T) {
	report := CheckAssessment(screeningAssessment())

	assert.True(t, report.OK)
	assert.Empty(t, report.Errors)
}

func TestCheckAssessment_MissingDependency(t *testing.T) {
	a := oneSection(
		model.Question{ID: "q1", Title: "Intro", Type: model.QuestionTypeText},
		model.Question{ID: "q2", Title: "Follow up", Type: model.QuestionTypeText, Conditional: rule("missing-id", model.ShowWhenEquals, "x")},
	)

	report := CheckAssessment(a)

	assert.False(t, report.OK)
	assert.Equal(t, []string{`Question "Follow up" depends on non-existent question`}, report.Errors)
}

func TestCheckAssessment_SelfDependency(t *testing.T) {
	a := oneSection(
		model.Question{ID: "q1", Title: "Loop", Type: model.QuestionTypeText, Conditional: rule("q1", model.ShowWhenEquals, "x")},
	)

	assert.Equal(t, []string{`Question "Loop" cannot depend on itself`}, CheckAssessment(a).Errors)
}

func TestCheckAssessment_InvalidOptionValues(t *testing.T) {
	a := oneSection(
		model.Question{ID: "q1", Title: "Stack", Type: model.QuestionTypeMultiple, Options: []string{"Go", "Rust"}},
		model.Question{ID: "q2", Title: "Why", Type: model.QuestionTypeText, Conditional: rule("q1", model.ShowWhenContains, "Go", "Cobol", "Perl")},
	)

	assert.Equal(t, []string{`Question "Why" has invalid condition values: Cobol, Perl`}, CheckAssessment(a).Errors)
}

func TestCheckAssessment_TextDependencyValuesNotCrossChecked(t *testing.T) {
	a := oneSection(
		model.Question{ID: "q1", Title: "Name", Type: model.QuestionTypeText},
		model.Question{ID: "q2", Title: "Greeting", Type: model.QuestionTypeText, Conditional: rule("q1", model.ShowWhenEquals, "anything")},
	)

	assert.True(t, CheckAssessment(a).OK)
}

func TestCheckAssessment_ForwardDependency(t *testing.T) {
	a := oneSection(
		model.Question{ID: "q1", Title: "Early", Type: model.QuestionTypeText, Conditional: rule("q2", model.ShowWhenEquals, "x")},
		model.Question{ID: "q2", Title: "Late", Type: model.QuestionTypeText},
	)

	assert.Equal(t, []string{`Question "Early" must come after the question it depends on`}, CheckAssessment(a).Errors)
}

func TestCheckAssessment_ForwardAcrossSections(t *testing.T) {
	a := &model.Assessment{Sections: []model.Section{
		{ID: "late", Order: 1, Questions: []model.Question{{ID: "q2", Title: "Late", Type: model.QuestionTypeText}}},
		{ID: "early", Order: 0, Questions: []model.Question{
			{ID: "q1", Title: "Early", Type: model.QuestionTypeText, Conditional: rule("q2", model.ShowWhenEquals, "x")},
		}},
	}}

	assert.Equal(t, []string{`Question "Early" must come after the question it depends on`}, CheckAssessment(a).Errors)
}

func TestCheckAssessment_MultiHopCycle(t *testing.T) {
	a := oneSection(
		model.Question{ID: "a", Title: "A", Type: model.QuestionTypeText, Conditional: rule("c", model.ShowWhenEquals, "x")},
		model.Question{ID: "b", Title: "B", Type: model.QuestionTypeText, Conditional: rule("a", model.ShowWhenEquals, "x")},
		model.Question{ID: "c", Title: "C", Type: model.QuestionTypeText, Conditional: rule("b", model.ShowWhenEquals, "x")},
		model.Question{ID: "d", Title: "D", Type: model.QuestionTypeText, Conditional: rule("c", model.ShowWhenEquals, "x")},
	)

	report := CheckAssessment(a)

	assert.False(t, report.OK)
	assert.Equal(t, []string{
		`Question "A" must come after the question it depends on`,
		`Question "A" is part of a circular dependency`,
		`Question "B" is part of a circular dependency`,
		`Question "C" is part of a circular dependency`,
	}, report.Errors)
}

func TestCheckAssessment_Empty(t *testing.T) {
	assert.True(t, CheckAssessment(&model.Assessment{}).OK)
}
