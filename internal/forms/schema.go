package forms

import "regexp"

// FieldKind describes how a field's value is interpreted downstream.
type FieldKind int

const (
	// KindText is a free-text field.
	KindText FieldKind = iota
	// KindEnum is a short-code selection mapped to CRM display text.
	KindEnum
	// KindDate is a date entered as dd/mm/yyyy (converted to ISO downstream).
	KindDate
	// KindFiles is a list of uploaded file handles.
	KindFiles
)

// RuleKind identifies a validation rule category.
type RuleKind int

const (
	// RuleRequired fails when the trimmed value is empty.
	RuleRequired RuleKind = iota
	// RulePattern fails when a present value does not match the regexp.
	// Absent values pass; RuleRequired owns absence.
	RulePattern
	// RuleMinLen fails when a present value is shorter than N characters.
	RuleMinLen
	// RuleRequiredIf fails when the governing field equals the sentinel
	// code and this field is absent.
	RuleRequiredIf
	// RuleFilesRequired fails when the field has no attached files.
	RuleFilesRequired
)

// Rule is a single declarative validation rule. Rules are evaluated in
// declared order; the last failing rule's message wins for the field.
type Rule struct {
	Kind    RuleKind
	Pattern *regexp.Regexp // RulePattern
	MinLen  int            // RuleMinLen
	Field   string         // RuleRequiredIf: governing field name
	Equals  string         // RuleRequiredIf: sentinel code
	Message string
}

// Required builds a required rule.
func Required(message string) Rule {
	return Rule{Kind: RuleRequired, Message: message}
}

// Pattern builds a regexp format rule.
func Pattern(re *regexp.Regexp, message string) Rule {
	return Rule{Kind: RulePattern, Pattern: re, Message: message}
}

// MinLen builds a minimum-length rule.
func MinLen(n int, message string) Rule {
	return Rule{Kind: RuleMinLen, MinLen: n, Message: message}
}

// RequiredIf builds a conditional-required rule: the field is required only
// when the governing field equals the sentinel code.
func RequiredIf(field, equals, message string) Rule {
	return Rule{Kind: RuleRequiredIf, Field: field, Equals: equals, Message: message}
}

// FilesRequired builds a non-empty collection rule for file fields.
func FilesRequired(message string) Rule {
	return Rule{Kind: RuleFilesRequired, Message: message}
}

// Field declares one form field: its name, how its value is interpreted,
// and its validation rules. Mapping and Numeric are normalization hints
// consumed by the lead normalizer, never by validation.
type Field struct {
	Name  string
	Kind  FieldKind
	Rules []Rule
	// Mapping translates internal enum codes to CRM display text.
	// Lookups that miss pass the code through unchanged.
	Mapping map[string]string
	// Numeric marks a free-text field bound to a numeric CRM slot:
	// digit-only values are coerced to a number, anything else stays text.
	Numeric bool
	// FreeText marks a long-form field whose value is HTML-stripped
	// before it leaves the process.
	FreeText bool
}

// Condition returns the field's conditional-inclusion gate, derived from
// its RequiredIf rule: a conditional field is sent to the CRM only when its
// governing field equals the sentinel code. Returns ok=false for
// unconditional fields.
func (f Field) Condition() (field, equals string, ok bool) {
	for _, rule := range f.Rules {
		if rule.Kind == RuleRequiredIf {
			return rule.Field, rule.Equals, true
		}
	}
	return "", "", false
}

// Step is one wizard step owning a disjoint subset of fields.
type Step struct {
	Title  string
	Fields []Field
}

// Schema is the declarative description of a multi-step form: its steps,
// their fields, and the CRM tags attached to submissions.
type Schema struct {
	Name  string
	Steps []Step
	Tags  []string
}

// NumSteps returns the number of steps.
func (s *Schema) NumSteps() int {
	return len(s.Steps)
}

// FieldsInOrder returns every field in declaration order (step by step),
// which fixes the ordering of the normalized CRM payload.
func (s *Schema) FieldsInOrder() []Field {
	var fields []Field
	for _, step := range s.Steps {
		fields = append(fields, step.Fields...)
	}
	return fields
}

// FieldByName returns the declaration for a field name.
func (s *Schema) FieldByName(name string) (Field, bool) {
	for _, step := range s.Steps {
		for _, f := range step.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return Field{}, false
}

// HasField reports whether the schema declares the field.
func (s *Schema) HasField(name string) bool {
	_, ok := s.FieldByName(name)
	return ok
}
