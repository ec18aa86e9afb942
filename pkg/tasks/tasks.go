// Package tasks defines the target store's representation of a tracked
// ticket: a task note with content, a bag of single-valued label attributes,
// and repeatable tags.
package tasks

import (
	"sort"

	"github.com/notewell/curator/pkg/errors"
)

// Recognized label attribute names on a managed task note. The bag accepts
// other names too, validated at the boundary, but these are the ones the
// reconciler reads and writes.
const (
	AttrJiraKey      = "jiraKey"
	AttrJiraStatus   = "jiraStatus"
	AttrJiraPriority = "jiraPriority"
	AttrJiraAssignee = "jiraAssignee"
	AttrJiraUpdated  = "jiraUpdated"
	AttrJiraLabels   = "jiraLabels"
	AttrTodoDate     = "todoDate"
	AttrDoneDate     = "doneDate"
	AttrLocation     = "location"
	AttrIconClass    = "iconClass"
	AttrCSSClass     = "cssClass"
	AttrArchived     = "archived"
)

// TagName is the repeatable tag attribute.
const TagName = "tag"

// recognized is the enumerated set of known attribute names.
var recognized = map[string]bool{
	AttrJiraKey:      true,
	AttrJiraStatus:   true,
	AttrJiraPriority: true,
	AttrJiraAssignee: true,
	AttrJiraUpdated:  true,
	AttrJiraLabels:   true,
	AttrTodoDate:     true,
	AttrDoneDate:     true,
	AttrLocation:     true,
	AttrIconClass:    true,
	AttrCSSClass:     true,
	AttrArchived:     true,
}

// Attributes is a bag of single-valued label attributes. Writes are
// last-write-wins; there is no history.
type Attributes struct {
	values map[string]string
}

// NewAttributes creates an attribute bag from initial values.
func NewAttributes(values map[string]string) (Attributes, error) {
	a := Attributes{values: make(map[string]string, len(values))}
	for name, value := range values {
		if err := a.Set(name, value); err != nil {
			return Attributes{}, err
		}
	}
	return a, nil
}

// Set stores an attribute value, validating the name.
func (a *Attributes) Set(name, value string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if a.values == nil {
		a.values = make(map[string]string)
	}
	a.values[name] = value
	return nil
}

// Get returns an attribute value and whether it is present.
func (a Attributes) Get(name string) (string, bool) {
	value, ok := a.values[name]
	return value, ok
}

// Has reports whether the attribute is present.
func (a Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a.values))
	for name := range a.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the attribute values.
func (a Attributes) Map() map[string]string {
	m := make(map[string]string, len(a.values))
	for name, value := range a.values {
		m[name] = value
	}
	return m
}

// ValidateName checks that an attribute name is either recognized or a
// plausible label identifier (letters and digits, starting with a letter).
func ValidateName(name string) error {
	if recognized[name] {
		return nil
	}
	if name == "" || name == TagName {
		return &errors.ValidationError{Field: "attribute", Value: name, Message: "reserved or empty attribute name"}
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return &errors.ValidationError{Field: "attribute", Value: name, Message: "attribute name must start with a letter"}
			}
		default:
			return &errors.ValidationError{Field: "attribute", Value: name, Message: "attribute name must be alphanumeric"}
		}
	}
	return nil
}

// Task is one tracked item in the notes store.
type Task struct {
	ID         string
	Title      string
	Content    string
	Attributes Attributes
	Tags       []string
}

// HasTag reports whether the task carries the given repeatable tag.
func (t *Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// Spec describes a task to be created.
type Spec struct {
	Title      string
	Content    string
	Attributes map[string]string
	Tags       []string
}

// Validate checks the creation spec at the boundary.
func (s Spec) Validate() error {
	if s.Title == "" {
		return &errors.ValidationError{Field: "title", Message: "title is required"}
	}
	for name := range s.Attributes {
		if err := ValidateName(name); err != nil {
			return err
		}
	}
	return nil
}
