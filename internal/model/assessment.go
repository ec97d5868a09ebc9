package model

import (
	"errors"
	"time"
)

var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrIndexOutOfRange  = errors.New("index out of range")
)

// Section is an ordered group of questions
type Section struct {
	ID          string     `json:"id" bson:"id" yaml:"id"`
	Title       string     `json:"title" bson:"title" yaml:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	Questions   []Question `json:"questions" bson:"questions" yaml:"questions"`
	Order       int        `json:"order" bson:"order" yaml:"order"`
}

// Assessment is the evaluation form attached to a job
type Assessment struct {
	ID          string    `json:"id" bson:"_id" yaml:"id"`
	JobID       string    `json:"jobId" bson:"jobId" yaml:"jobId"`
	Title       string    `json:"title" bson:"title" yaml:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	Sections    []Section `json:"sections" bson:"sections" yaml:"sections"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

// Clone returns a deep copy so edits never alias a cached snapshot
func (a *Assessment) Clone() *Assessment {
	if a == nil {
		return nil
	}
	out := *a
	out.Sections = make([]Section, len(a.Sections))
	for i, s := range a.Sections {
		out.Sections[i] = s
		out.Sections[i].Questions = make([]Question, len(s.Questions))
		for j, q := range s.Questions {
			out.Sections[i].Questions[j] = q.clone()
		}
	}
	return &out
}

func (q Question) clone() Question {
	if q.Options != nil {
		q.Options = append([]string(nil), q.Options...)
	}
	if q.Validation != nil {
		v := *q.Validation
		if v.AllowedExtensions != nil {
			v.AllowedExtensions = append([]string(nil), v.AllowedExtensions...)
		}
		q.Validation = &v
	}
	if q.Conditional != nil {
		c := *q.Conditional
		c.Value = append(ConditionValue(nil), c.Value...)
		q.Conditional = &c
	}
	return q
}

// FindQuestion looks a question up by ID across all sections
func (a *Assessment) FindQuestion(id string) (*Question, bool) {
	for i := range a.Sections {
		for j := range a.Sections[i].Questions {
			if a.Sections[i].Questions[j].ID == id {
				return &a.Sections[i].Questions[j], true
			}
		}
	}
	return nil, false
}

func (a *Assessment) sectionIndex(id string) int {
	for i := range a.Sections {
		if a.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// Section returns the section with the given ID
func (a *Assessment) Section(id string) (*Section, bool) {
	i := a.sectionIndex(id)
	if i < 0 {
		return nil, false
	}
	return &a.Sections[i], true
}

// AddSection appends a section; its order is the current section count
func (a *Assessment) AddSection(s Section) *Section {
	s.Order = len(a.Sections)
	if s.Questions == nil {
		s.Questions = []Question{}
	}
	a.Sections = append(a.Sections, s)
	return &a.Sections[len(a.Sections)-1]
}

// UpdateSection replaces title and description, keeping questions and order
func (a *Assessment) UpdateSection(id, title, description string) error {
	i := a.sectionIndex(id)
	if i < 0 {
		return ErrSectionNotFound
	}
	a.Sections[i].Title = title
	a.Sections[i].Description = description
	return nil
}

// DeleteSection removes a section and every question in it
func (a *Assessment) DeleteSection(id string) error {
	i := a.sectionIndex(id)
	if i < 0 {
		return ErrSectionNotFound
	}
	a.Sections = append(a.Sections[:i], a.Sections[i+1:]...)
	return nil
}

// ReorderSections moves the section at from to position to and renumbers orders
func (a *Assessment) ReorderSections(from, to int) error {
	if from < 0 || from >= len(a.Sections) || to < 0 || to >= len(a.Sections) {
		return ErrIndexOutOfRange
	}
	a.Sections = move(a.Sections, from, to)
	for i := range a.Sections {
		a.Sections[i].Order = i
	}
	return nil
}

// AddQuestion appends q to a section; its order is the section's question count
func (a *Assessment) AddQuestion(sectionID string, q Question) (*Question, error) {
	i := a.sectionIndex(sectionID)
	if i < 0 {
		return nil, ErrSectionNotFound
	}
	s := &a.Sections[i]
	q.Order = len(s.Questions)
	s.Questions = append(s.Questions, q)
	return &s.Questions[len(s.Questions)-1], nil
}

// UpdateQuestion replaces a question's content; ID and order are preserved
func (a *Assessment) UpdateQuestion(sectionID, questionID string, q Question) error {
	i := a.sectionIndex(sectionID)
	if i < 0 {
		return ErrSectionNotFound
	}
	for j := range a.Sections[i].Questions {
		cur := &a.Sections[i].Questions[j]
		if cur.ID != questionID {
			continue
		}
		q.ID = cur.ID
		q.Order = cur.Order
		*cur = q
		return nil
	}
	return ErrQuestionNotFound
}

// DeleteQuestion removes a question from a section
func (a *Assessment) DeleteQuestion(sectionID, questionID string) error {
	i := a.sectionIndex(sectionID)
	if i < 0 {
		return ErrSectionNotFound
	}
	qs := a.Sections[i].Questions
	for j := range qs {
		if qs[j].ID == questionID {
			a.Sections[i].Questions = append(qs[:j], qs[j+1:]...)
			return nil
		}
	}
	return ErrQuestionNotFound
}

// ReorderQuestions moves a question inside one section and renumbers orders
func (a *Assessment) ReorderQuestions(sectionID string, from, to int) error {
	i := a.sectionIndex(sectionID)
	if i < 0 {
		return ErrSectionNotFound
	}
	qs := a.Sections[i].Questions
	if from < 0 || from >= len(qs) || to < 0 || to >= len(qs) {
		return ErrIndexOutOfRange
	}
	qs = move(qs, from, to)
	for j := range qs {
		qs[j].Order = j
	}
	a.Sections[i].Questions = qs
	return nil
}

func move[T any](items []T, from, to int) []T {
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]T{item}, items[to:]...)...)
	return items
}
