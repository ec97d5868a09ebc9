package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags which field of a Value is populated
type ValueKind string

const (
	ValueNull    ValueKind = "null" // Explicitly cleared answer
	ValueText    ValueKind = "text"
	ValueChoices ValueKind = "choices"
	ValueNumber  ValueKind = "number"
	ValueFile    ValueKind = "file"
)

// FileRef describes an uploaded file answer
type FileRef struct {
	Name string `json:"name" bson:"name"`
	Size int64  `json:"size" bson:"size"` // Bytes
	Type string `json:"type,omitempty" bson:"type,omitempty"`
}

// Value is one answer in a response map
type Value struct {
	Kind    ValueKind `json:"-" bson:"kind"`
	Text    string    `json:"-" bson:"text,omitempty"`
	Choices []string  `json:"-" bson:"choices,omitempty"`
	Number  float64   `json:"-" bson:"number,omitempty"`
	File    *FileRef  `json:"-" bson:"file,omitempty"`
}

// Responses maps question ID to answer. A missing key means unanswered.
type Responses map[string]Value

func TextValue(s string) Value { return Value{Kind: ValueText, Text: s} }

func ChoicesValue(choices ...string) Value {
	if choices == nil {
		choices = []string{}
	}
	return Value{Kind: ValueChoices, Choices: choices}
}

func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Number: n} }

func FileValue(name string, size int64) Value {
	return Value{Kind: ValueFile, File: &FileRef{Name: name, Size: size}}
}

func NullValue() Value { return Value{Kind: ValueNull} }

// IsEmpty reports whether the value counts as "no answer": null, "" or no selections
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case ValueText:
		return v.Text == ""
	case ValueChoices:
		return len(v.Choices) == 0
	case ValueNumber:
		return false
	case ValueFile:
		return v.File == nil
	}
	return true
}

// Scalar returns the value as a single comparable string.
// Choices and files have no scalar form.
func (v Value) Scalar() (string, bool) {
	switch v.Kind {
	case ValueText:
		return v.Text, true
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64), true
	}
	return "", false
}

// MarshalJSON writes the untagged wire shape
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueText:
		return json.Marshal(v.Text)
	case ValueChoices:
		if v.Choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Choices)
	case ValueNumber:
		return json.Marshal(v.Number)
	case ValueFile:
		return json.Marshal(v.File)
	}
	return []byte("null"), nil
}

// UnmarshalJSON picks the kind from the JSON shape
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty answer value")
	}

	switch data[0] {
	case 'n':
		*v = NullValue()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	case '[':
		var choices []string
		if err := json.Unmarshal(data, &choices); err != nil {
			return fmt.Errorf("selections must be strings: %w", err)
		}
		*v = ChoicesValue(choices...)
		return nil
	case '{':
		var f FileRef
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Value{Kind: ValueFile, File: &f}
		return nil
	case 't', 'f':
		return fmt.Errorf("unsupported answer value %s", data)
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unsupported answer value: %w", err)
	}
	*v = NumberValue(n)
	return nil
}
