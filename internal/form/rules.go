package form

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// satisfies reports whether v satisfies the validator tag.
func satisfies(v any, tag string) bool { return validate.Var(v, tag) == nil }

type rule struct {
	stage Stage
	field string
	msg   string
	ok    func(d *Draft) bool
}

func (r rule) Stage() Stage { return r.stage }

func (r rule) Check(d *Draft) *Violation {
	if r.ok(d) {
		return nil
	}
	return &Violation{Field: r.field, Stage: r.stage, Message: r.msg}
}

// Check builds a custom rule at the given stage.
func Check(stage Stage, field, msg string, ok func(d *Draft) bool) Rule {
	return rule{stage: stage, field: field, msg: msg, ok: ok}
}

// Required fails when the field is absent, a blank string, an empty list, a false
// boolean or a file reference without a key.
func Required(field, msg string) Rule {
	return rule{StageRequired, field, msg, func(d *Draft) bool {
		v, ok := d.Get(field)
		return ok && !isBlank(v)
	}}
}

// Length bounds the rune count of a string field. Max 0 means unbounded.
// Non-string and absent fields pass.
func Length(field string, min, max int, msg string) Rule {
	tag := fmt.Sprintf("min=%d", min)
	if max > 0 {
		tag += fmt.Sprintf(",max=%d", max)
	}
	return rule{StageLength, field, msg, func(d *Draft) bool {
		v, ok := d.Get(field)
		if !ok {
			return true
		}
		s, isStr := v.(string)
		if !isStr {
			return true
		}
		return satisfies(strings.TrimSpace(s), tag)
	}}
}

// Range bounds a numeric field. Absent fields pass.
func Range(field string, min, max float64, msg string) Rule {
	tag := fmt.Sprintf("gte=%g,lte=%g", min, max)
	return rule{StageLength, field, msg, func(d *Draft) bool {
		if _, ok := d.Get(field); !ok {
			return true
		}
		n, ok := d.Number(field)
		return ok && satisfies(n, tag)
	}}
}

// Count bounds the length of a list field. Max 0 means unbounded.
func Count(field string, min, max int, msg string) Rule {
	return rule{StageCardinality, field, msg, func(d *Draft) bool {
		n := listLen(d, field)
		return n >= min && (max == 0 || n <= max)
	}}
}

// ExactlyOne requires exactly one item of list to have flag set to true.
func ExactlyOne(list, flag, msg string) Rule {
	return rule{StageCardinality, list, msg, func(d *Draft) bool {
		n := 0
		for _, it := range d.Items(list) {
			if it.Fields.Bool(flag) {
				n++
			}
		}
		return n == 1
	}}
}

// WithinBudget requires the sum of field across list to stay at or under ceiling.
func WithinBudget(list, field string, ceiling int, msg string) Rule {
	return rule{StageBudget, list, msg, func(d *Draft) bool {
		return sumBudget(d.Items(list), field) <= ceiling
	}}
}

// Compare checks a cross-field comparison.
func Compare(c Comparison) Rule {
	return rule{StageEquality, c.B, c.Message, c.holds}
}

// Email checks address shape. Blank values pass; pair with Required.
func Email(field, msg string) Rule {
	return rule{StageFormat, field, msg, func(d *Draft) bool {
		s := strings.TrimSpace(d.String(field))
		return s == "" || satisfies(s, "email")
	}}
}

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// Phone accepts 10 to 13 digits after removing spaces, dashes, parentheses and a leading +.
func Phone(field, msg string) Rule {
	return rule{StageFormat, field, msg, func(d *Draft) bool {
		s := strings.TrimSpace(d.String(field))
		if s == "" {
			return true
		}
		digits := phoneSeparators.Replace(strings.TrimPrefix(s, "+"))
		return satisfies(digits, "number,min=10,max=13")
	}}
}

// OneOf restricts a string field to a fixed set. Blank values pass. Allowed values
// must not contain spaces.
func OneOf(field string, allowed []string, msg string) Rule {
	tag := "oneof=" + strings.Join(allowed, " ")
	return rule{StageFormat, field, msg, func(d *Draft) bool {
		s := d.String(field)
		return s == "" || satisfies(s, tag)
	}}
}

// FileExt restricts the extension of a file reference. Missing files pass.
func FileExt(field string, exts []string, msg string) Rule {
	return rule{StageFormat, field, msg, func(d *Draft) bool {
		f, ok := d.File(field)
		if !ok {
			return true
		}
		ext := strings.ToLower(filepath.Ext(f.Name))
		for _, e := range exts {
			if ext == e {
				return true
			}
		}
		return false
	}}
}

// Each applies inner to every item of list. The reported field is list[i].field.
func Each(list string, inner Rule) Rule {
	return eachRule{list: list, inner: inner}
}

type eachRule struct {
	list  string
	inner Rule
}

func (r eachRule) Stage() Stage { return r.inner.Stage() }

func (r eachRule) Check(d *Draft) *Violation {
	for i, it := range d.Items(r.list) {
		if v := r.inner.Check(it.Fields); v != nil {
			v.Field = fmt.Sprintf("%s[%d].%s", r.list, i, v.Field)
			return v
		}
	}
	return nil
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	case FileRef:
		return x.Key == ""
	case []Item:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case *Draft:
		return x == nil || x.Len() == 0
	}
	return false
}

func listLen(d *Draft, field string) int {
	v, _ := d.Get(field)
	switch x := v.(type) {
	case []Item:
		return len(x)
	case []string:
		return len(x)
	case []any:
		return len(x)
	}
	return 0
}
