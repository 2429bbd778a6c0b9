package forms

import "strings"

// ErrorSet maps field names to human-readable validation messages.
// An empty set means the step is valid.
type ErrorSet map[string]string

// Empty reports whether the set contains no errors.
func (e ErrorSet) Empty() bool {
	return len(e) == 0
}

// ValidateStep evaluates every rule of every field owned by the given
// 1-based step against the record. It is pure: same inputs, same result,
// no side effects. All applicable rules are evaluated (no short-circuit);
// at most one message is recorded per field, the last failing rule wins.
// A step outside the schema's range trivially validates.
func ValidateStep(schema *Schema, step int, rec *Record) ErrorSet {
	errs := make(ErrorSet)
	if schema == nil || rec == nil || step < 1 || step > len(schema.Steps) {
		return errs
	}

	for _, field := range schema.Steps[step-1].Fields {
		value := strings.TrimSpace(rec.Value(field.Name))
		for _, rule := range field.Rules {
			if ruleFails(rule, field, value, rec) {
				errs[field.Name] = rule.Message
			}
		}
	}

	return errs
}

// ValidateAll runs every step and returns the union of their error sets.
// Used by the single-shot submission path; the wizard validates one step
// at a time.
func ValidateAll(schema *Schema, rec *Record) ErrorSet {
	errs := make(ErrorSet)
	if schema == nil {
		return errs
	}
	for step := 1; step <= len(schema.Steps); step++ {
		for name, msg := range ValidateStep(schema, step, rec) {
			errs[name] = msg
		}
	}
	return errs
}

func ruleFails(rule Rule, field Field, value string, rec *Record) bool {
	switch rule.Kind {
	case RuleRequired:
		return value == ""
	case RulePattern:
		// Absence is RuleRequired's concern.
		return value != "" && !rule.Pattern.MatchString(value)
	case RuleMinLen:
		return value != "" && len([]rune(value)) < rule.MinLen
	case RuleRequiredIf:
		governing := strings.TrimSpace(rec.Value(rule.Field))
		return governing == rule.Equals && value == ""
	case RuleFilesRequired:
		return len(rec.FilesFor(field.Name)) == 0
	default:
		return false
	}
}
