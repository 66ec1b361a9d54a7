package pipeline

import (
	"strings"

	"covidash/domain/dataset"
)

// AllSelection is the filter value meaning "no restriction"
const AllSelection = "All"

// Predicate decides whether a record survives filtering
type Predicate func(dataset.Record) bool

// Present requires the field to be non-missing
func Present(field string) Predicate {
	return func(r dataset.Record) bool { return r.Has(field) }
}

// Finite requires a numeric value. Coercion already rejects NaN and infinities.
func Finite(field string) Predicate {
	return func(r dataset.Record) bool {
		_, ok := r.Number(field)
		return ok
	}
}

// Positive requires a numeric value > 0
func Positive(field string) Predicate {
	return func(r dataset.Record) bool {
		n, ok := r.Number(field)
		return ok && n > 0
	}
}

// NonNegative requires a numeric value >= 0
func NonNegative(field string) Predicate {
	return func(r dataset.Record) bool {
		n, ok := r.Number(field)
		return ok && n >= 0
	}
}

// Equals requires the text of a field to match exactly
func Equals(field, value string) Predicate {
	return func(r dataset.Record) bool { return r.Text(field) == value }
}

// Selected restricts a field to a UI selection; "" and "All" pass everything
func Selected(field, selection string) Predicate {
	selection = strings.TrimSpace(selection)
	if IsAll(selection) {
		return func(dataset.Record) bool { return true }
	}
	return Equals(field, selection)
}

// Not negates a predicate
func Not(p Predicate) Predicate {
	return func(r dataset.Record) bool { return !p(r) }
}

// IsAll reports whether a selection means no restriction
func IsAll(selection string) bool {
	selection = strings.TrimSpace(selection)
	return selection == "" || strings.EqualFold(selection, AllSelection)
}

// Filter returns the records satisfying every predicate, in input order.
// The input slice is never modified.
func Filter(records []dataset.Record, predicates ...Predicate) []dataset.Record {
	out := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		if matches(r, predicates) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r dataset.Record, predicates []Predicate) bool {
	for _, p := range predicates {
		if !p(r) {
			return false
		}
	}
	return true
}
