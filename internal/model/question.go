package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"     // Single-line free text
	QuestionTypeLongText QuestionType = "longtext" // Multi-line free text
	QuestionTypeSingle   QuestionType = "single"   // One option out of Options
	QuestionTypeMultiple QuestionType = "multiple" // Any number of Options
	QuestionTypeNumeric  QuestionType = "numeric"
	QuestionTypeFile     QuestionType = "file"
)

// Valid reports whether t is one of the known question types
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeLongText, QuestionTypeSingle,
		QuestionTypeMultiple, QuestionTypeNumeric, QuestionTypeFile:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry an option list
func (t QuestionType) HasOptions() bool {
	return t == QuestionTypeSingle || t == QuestionTypeMultiple
}

// ShowWhen is the comparison operator of a conditional rule
type ShowWhen string

const (
	ShowWhenEquals    ShowWhen = "equals"
	ShowWhenNotEquals ShowWhen = "not_equals"
	ShowWhenContains  ShowWhen = "contains" // for multiple choice answers
)

// ValidationRule bundles the optional constraints of a question.
// Nil pointers mean "not set"; zero is a meaningful bound for values.
type ValidationRule struct {
	MinLength *int     `json:"minLength,omitempty" bson:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" bson:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinValue  *float64 `json:"minValue,omitempty" bson:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue  *float64 `json:"maxValue,omitempty" bson:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	Pattern   string   `json:"pattern,omitempty" bson:"pattern,omitempty" yaml:"pattern,omitempty"` // Regex, matched against the whole value

	MinSelections *int `json:"minSelections,omitempty" bson:"minSelections,omitempty" yaml:"minSelections,omitempty"`
	MaxSelections *int `json:"maxSelections,omitempty" bson:"maxSelections,omitempty" yaml:"maxSelections,omitempty"`

	AllowedExtensions []string `json:"allowedExtensions,omitempty" bson:"allowedExtensions,omitempty" yaml:"allowedExtensions,omitempty"`
	MaxFileSize       *int64   `json:"maxFileSize,omitempty" bson:"maxFileSize,omitempty" yaml:"maxFileSize,omitempty"` // Bytes
}

// ConditionValue holds the value(s) a conditional rule compares against.
// On the wire it is either a single string or an array of strings.
type ConditionValue []string

// UnmarshalJSON accepts "yes" as well as ["yes", "maybe"]
func (v *ConditionValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = ConditionValue{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("condition value must be a string or a list of strings: %w", err)
	}
	*v = ConditionValue(many)
	return nil
}

// MarshalJSON writes a single value back as a plain string
func (v ConditionValue) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	return json.Marshal([]string(v))
}

// UnmarshalYAML mirrors UnmarshalJSON for seed files
func (v *ConditionValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = ConditionValue{node.Value}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return fmt.Errorf("condition value must be a string or a list of strings: %w", err)
	}
	*v = ConditionValue(many)
	return nil
}

// Has reports whether s is one of the listed values
func (v ConditionValue) Has(s string) bool {
	for _, c := range v {
		if c == s {
			return true
		}
	}
	return false
}

// ConditionalRule makes a question visible only when an earlier answer matches
type ConditionalRule struct {
	DependsOn string         `json:"dependsOn" bson:"dependsOn" yaml:"dependsOn"` // Question ID
	ShowWhen  ShowWhen       `json:"showWhen" bson:"showWhen" yaml:"showWhen"`
	Value     ConditionValue `json:"value" bson:"value" yaml:"value"`
}

// Question is a single item of an assessment section
type Question struct {
	ID          string           `json:"id" bson:"id" yaml:"id"`
	Type        QuestionType     `json:"type" bson:"type" yaml:"type"`
	Title       string           `json:"title" bson:"title" yaml:"title"`
	Description string           `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	Options     []string         `json:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"` // single/multiple only
	Required    bool             `json:"required" bson:"required" yaml:"required"`
	Validation  *ValidationRule  `json:"validation,omitempty" bson:"validation,omitempty" yaml:"validation,omitempty"`
	Conditional *ConditionalRule `json:"conditional,omitempty" bson:"conditional,omitempty" yaml:"conditional,omitempty"`
	Order       int              `json:"order" bson:"order" yaml:"order"`
}

// HasOption reports whether s is one of the question's configured options
func (q *Question) HasOption(s string) bool {
	for _, o := range q.Options {
		if o == s {
			return true
		}
	}
	return false
}
