package dataset

// RawRecord represents a row of raw tabular data as header -> cell text
type RawRecord map[string]string

// Record is a cleaned row keyed by schema field name
type Record map[string]Value

// Get returns the value of a field, missing when the field is absent
func (r Record) Get(field string) Value {
	v, ok := r[field]
	if !ok {
		return NewMissingValue()
	}
	return v
}

// Number returns a numeric field and whether it is present
func (r Record) Number(field string) (float64, bool) {
	return r.Get(field).Float()
}

// Text returns the string form of a categorical or identity field, "" when missing
func (r Record) Text(field string) string {
	v := r.Get(field)
	if v.Type != ValueTypeString {
		return ""
	}
	return v.Str
}

// Has reports whether the field is present and not missing
func (r Record) Has(field string) bool {
	return !r.Get(field).IsMissing()
}

// Clone returns a shallow copy safe to modify
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
