// Package filter defines the store-neutral filter expression used to select
// records in a content collection, and the builder that derives it from a query.
package filter

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/contentdex/internal/domain/record"
)

// Kind is the node type of an Expression.
type Kind string

const (
	// KindAll matches every record.
	KindAll Kind = ""
	// KindContains is a case-insensitive substring match on a field.
	KindContains Kind = "containsi"
	// KindHasRelation requires a to-many relation to include a record with key == value.
	KindHasRelation Kind = "has"
	// KindOr is a disjunction of children.
	KindOr Kind = "or"
	// KindAnd is a conjunction of children.
	KindAnd Kind = "and"
)

// Expression is an immutable filter tree. The zero value matches everything.
type Expression struct {
	kind     Kind
	field    string
	key      string
	value    string
	children []Expression
}

// Contains matches records whose field contains value, ignoring case.
func Contains(field, value string) Expression {
	return Expression{kind: KindContains, field: field, value: value}
}

// HasRelation matches records whose relation includes an item with key == value.
func HasRelation(relation, key, value string) Expression {
	return Expression{kind: KindHasRelation, field: relation, key: key, value: value}
}

// Or joins expressions with OR. Empty operands are dropped; a single operand is returned unwrapped.
func Or(exprs ...Expression) Expression {
	return combine(KindOr, exprs)
}

// And joins expressions with AND. Empty operands are dropped; a single operand is returned unwrapped.
func And(exprs ...Expression) Expression {
	return combine(KindAnd, exprs)
}

func combine(kind Kind, exprs []Expression) Expression {
	kept := make([]Expression, 0, len(exprs))
	for _, e := range exprs {
		if !e.IsEmpty() {
			kept = append(kept, e)
		}
	}
	switch len(kept) {
	case 0:
		return Expression{}
	case 1:
		return kept[0]
	default:
		return Expression{kind: kind, children: kept}
	}
}

// Kind returns the node type.
func (e Expression) Kind() Kind { return e.kind }

// Field returns the field (KindContains) or relation name (KindHasRelation).
func (e Expression) Field() string { return e.field }

// Key returns the key matched inside the relation (KindHasRelation).
func (e Expression) Key() string { return e.key }

// Value returns the operand value.
func (e Expression) Value() string { return e.value }

// Children returns a copy of the operands of an And/Or node.
func (e Expression) Children() []Expression { return slices.Clone(e.children) }

// IsEmpty reports whether the expression matches everything.
func (e Expression) IsEmpty() bool { return e.kind == KindAll }

// Matches evaluates the expression against a record.
func (e Expression) Matches(r record.Record) bool {
	switch e.kind {
	case KindAll:
		return true
	case KindContains:
		return strings.Contains(strings.ToLower(r.Text(e.field)), strings.ToLower(e.value))
	case KindHasRelation:
		return r.HasRelation(e.field, e.key, e.value)
	case KindOr:
		for _, c := range e.children {
			if c.Matches(r) {
				return true
			}
		}
		return false
	case KindAnd:
		for _, c := range e.children {
			if !c.Matches(r) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String returns a debug representation, e.g. (title ~ "x" OR body ~ "x").
func (e Expression) String() string {
	switch e.kind {
	case KindAll:
		return "*"
	case KindContains:
		return e.field + ` ~ "` + e.value + `"`
	case KindHasRelation:
		return e.field + "." + e.key + ` = "` + e.value + `"`
	case KindOr, KindAnd:
		sep := " OR "
		if e.kind == KindAnd {
			sep = " AND "
		}
		parts := make([]string, len(e.children))
		for i, c := range e.children {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, sep) + ")"
	default:
		return "?"
	}
}
