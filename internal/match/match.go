// Package match implements query-by-example over catalog documents.
//
// A document describes itself as a list of Fields. When a partially filled
// document is used as an example, only its fields with values become
// constraints; everything left empty does not take part in matching.
package match

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type Kind int

const (
	// KindText values are compared case-insensitively when the mode asks for it.
	KindText Kind = iota
	// KindKey values (ids, dates) are always compared exactly.
	KindKey
	// KindNumber values are integers rendered in base 10.
	KindNumber
)

// Field is one matchable attribute of a document. Column names the
// relational column backing the attribute, empty when there is none.
// Derived fields are computed on read and never stored, so only a fully
// expanded document can satisfy them.
type Field struct {
	Name    string
	Column  string
	Kind    Kind
	Values  []string
	Derived bool
}

// Set reports whether the field carries at least one value.
func (f Field) Set() bool {
	return len(f.Values) > 0
}

// Mode selects how constraints combine.
type Mode struct {
	All        bool
	IgnoreCase bool
}

// AnyIgnoreCase is the mode used by catalog search: a candidate matches when
// any constraint holds, strings compared without regard to case.
var AnyIgnoreCase = Mode{IgnoreCase: true}

// AllExact requires every constraint to hold with exact comparison.
var AllExact = Mode{All: true}

func Text(name, column, value string) Field {
	return Field{Name: name, Column: column, Kind: KindText, Values: nonEmpty(value)}
}

func Key(name, column, value string) Field {
	return Field{Name: name, Column: column, Kind: KindKey, Values: nonEmpty(value)}
}

// Number treats zero as unset.
func Number(name, column string, value int) Field {
	f := Field{Name: name, Column: column, Kind: KindNumber}
	if value != 0 {
		f.Values = []string{strconv.Itoa(value)}
	}
	return f
}

// TextList and KeyList describe multi-valued attributes. They never have a
// column: list membership is evaluated in process.
func TextList(name string, values ...string) Field {
	return Field{Name: name, Kind: KindText, Values: nonEmpty(values...)}
}

func KeyList(name string, values ...string) Field {
	return Field{Name: name, Kind: KindKey, Values: nonEmpty(values...)}
}

// AsDerived marks f as computed on read.
func (f Field) AsDerived() Field {
	f.Derived = true
	f.Column = ""
	return f
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// Constraints returns the fields of example that carry values.
func Constraints(example []Field) []Field {
	out := make([]Field, 0, len(example))
	for _, f := range example {
		if f.Set() {
			out = append(out, f)
		}
	}
	return out
}

// HasDerived reports whether any set field of example is derived.
func HasDerived(example []Field) bool {
	for _, f := range Constraints(example) {
		if f.Derived {
			return true
		}
	}
	return false
}

// Matches reports whether candidate satisfies example under mode. An example
// without constraints matches every candidate.
func Matches(example, candidate []Field, mode Mode) bool {
	constraints := Constraints(example)
	if len(constraints) == 0 {
		return true
	}

	byName := make(map[string]Field, len(candidate))
	for _, f := range candidate {
		byName[f.Name] = f
	}

	for _, c := range constraints {
		ok := satisfied(c, byName[c.Name], mode.IgnoreCase)
		if ok && !mode.All {
			return true
		}
		if !ok && mode.All {
			return false
		}
	}

	return mode.All
}

func satisfied(constraint, candidate Field, ignoreCase bool) bool {
	fold := ignoreCase && constraint.Kind == KindText
	for _, want := range constraint.Values {
		for _, got := range candidate.Values {
			if fold && strings.EqualFold(want, got) {
				return true
			}
			if want == got {
				return true
			}
		}
	}
	return false
}

// Filter keeps the items matching example, preserving order.
func Filter[T any](items []T, fields func(T) []Field, example []Field, mode Mode) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(example, fields(item), mode) {
			out = append(out, item)
		}
	}
	return out
}

// Predicate is a single-column equality a relational store can evaluate.
type Predicate struct {
	Column string
	Value  any
	Fold   bool
}

// Pushdown translates the constraints of example into column predicates.
// It returns false when any constraint cannot be expressed that way, in
// which case the caller has to match in process. Folded comparisons are
// only pushed down for ASCII values: SQL LOWER does not fold other letters
// on every engine.
func Pushdown(example []Field, mode Mode) ([]Predicate, bool) {
	constraints := Constraints(example)
	preds := make([]Predicate, 0, len(constraints))

	for _, c := range constraints {
		if c.Column == "" || len(c.Values) != 1 {
			return nil, false
		}

		p := Predicate{Column: c.Column, Value: c.Values[0]}
		switch c.Kind {
		case KindNumber:
			n, err := strconv.Atoi(c.Values[0])
			if err != nil {
				return nil, false
			}
			p.Value = n
		case KindText:
			if mode.IgnoreCase {
				if !isASCII(c.Values[0]) {
					return nil, false
				}
				p.Fold = true
				p.Value = strings.ToLower(c.Values[0])
			}
		}
		preds = append(preds, p)
	}

	return preds, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
