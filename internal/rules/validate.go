package rules

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"talentflow/internal/model"
)

// Result is the outcome of validating a single answer
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

var pass = Result{OK: true}

func fail(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

const bytesPerMB = 1024 * 1024

// Validate checks a single answer against its question. A nil value means
// the question was never answered. Checks short-circuit on the first failure.
//
// An empty selection counts as missing for a required question, but an
// optional one is still held to its selection bounds.
func Validate(q *model.Question, value *model.Value) Result {
	absent := value == nil || value.IsEmpty()

	if q.Required && absent {
		return fail("This field is required")
	}
	if q.Type == model.QuestionTypeSingle && !absent && value.Kind != model.ValueText {
		return fail("Please select one option")
	}

	emptySelection := q.Type == model.QuestionTypeMultiple && value != nil && value.Kind == model.ValueChoices && len(value.Choices) == 0
	if q.Validation == nil || (absent && !emptySelection) {
		return pass
	}

	v := q.Validation
	switch q.Type {
	case model.QuestionTypeText, model.QuestionTypeLongText:
		return validateText(v, *value)
	case model.QuestionTypeNumeric:
		return validateNumeric(v, *value)
	case model.QuestionTypeFile:
		return validateFile(v, *value)
	case model.QuestionTypeMultiple:
		return validateMultiple(v, *value)
	}
	return pass
}

func validateText(v *model.ValidationRule, value model.Value) Result {
	text, ok := value.Scalar()
	if !ok {
		return fail("Must be text")
	}
	n := utf8.RuneCountInString(text)

	if v.MinLength != nil && n < *v.MinLength {
		return fail("Minimum length is %d characters", *v.MinLength)
	}
	if v.MaxLength != nil && n > *v.MaxLength {
		return fail("Maximum length is %d characters", *v.MaxLength)
	}
	if v.Pattern != "" && !matchWhole(v.Pattern, text) {
		return fail("Invalid format")
	}
	return pass
}

// matchWhole anchors pattern to the full text. A pattern that does not
// compile never matches.
func matchWhole(pattern, text string) bool {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

func validateNumeric(v *model.ValidationRule, value model.Value) Result {
	num, ok := toNumber(value)
	if !ok {
		return fail("Must be a valid number")
	}
	if v.MinValue != nil && num < *v.MinValue {
		return fail("Minimum value is %s", formatNumber(*v.MinValue))
	}
	if v.MaxValue != nil && num > *v.MaxValue {
		return fail("Maximum value is %s", formatNumber(*v.MaxValue))
	}
	return pass
}

func toNumber(value model.Value) (float64, bool) {
	var n float64
	switch value.Kind {
	case model.ValueNumber:
		n = value.Number
	case model.ValueText:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value.Text), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func validateFile(v *model.ValidationRule, value model.Value) Result {
	if value.Kind != model.ValueFile || value.File == nil || value.File.Name == "" {
		return fail("Please select a file")
	}
	f := value.File

	if len(v.AllowedExtensions) > 0 {
		ext := extension(f.Name)
		allowed := false
		for _, a := range v.AllowedExtensions {
			if strings.EqualFold(strings.TrimPrefix(a, "."), ext) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fail("Allowed file types: %s", strings.Join(v.AllowedExtensions, ", "))
		}
	}

	if v.MaxFileSize != nil && f.Size > *v.MaxFileSize {
		mb := math.Round(float64(*v.MaxFileSize) / bytesPerMB)
		return fail("File size must be less than %dMB", int64(mb))
	}
	return pass
}

// extension is the lower-cased text after the last dot, or "" when there is none
func extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

func validateMultiple(v *model.ValidationRule, value model.Value) Result {
	if value.Kind != model.ValueChoices {
		return fail("Please select from the listed options")
	}
	n := len(value.Choices)
	if v.MinSelections != nil && n < *v.MinSelections {
		return fail("Please select at least %d options", *v.MinSelections)
	}
	if v.MaxSelections != nil && n > *v.MaxSelections {
		return fail("Please select no more than %d options", *v.MaxSelections)
	}
	return pass
}
