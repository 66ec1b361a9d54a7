package dataset

// FieldKind tells the coercer how to interpret a raw cell
type FieldKind string

const (
	// KindNumeric parses a finite number, repairing separator artifacts
	KindNumeric FieldKind = "numeric"
	// KindCategorical trims and normalizes a label, falling back to a catch-all
	KindCategorical FieldKind = "categorical"
	// KindIdentity keeps trimmed text; empty is missing
	KindIdentity FieldKind = "identity"
	// KindFlag parses yes/no style booleans as 1/0
	KindFlag FieldKind = "flag"
)

// FieldSpec describes one cleaned field and the raw column it comes from
type FieldSpec struct {
	Name   string    `json:"name" yaml:"name"`
	Column string    `json:"column,omitempty" yaml:"column,omitempty"` // defaults to Name
	Kind   FieldKind `json:"kind" yaml:"kind"`

	// Normalize maps known raw label variants to canonical labels.
	// When set, unmapped non-empty labels fall back to Fallback.
	Normalize map[string]string `json:"normalize,omitempty" yaml:"normalize,omitempty"`
	// Fallback is the catch-all category; empty means the coercer default
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// SourceColumn returns the raw header the field is read from
func (f FieldSpec) SourceColumn() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Schema is the ordered field list for a dataset
type Schema struct {
	Name   string      `json:"name" yaml:"name"`
	Fields []FieldSpec `json:"fields" yaml:"fields"`
}

// Field looks up a field by cleaned name
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// NumericFields returns the names of numeric and flag fields in schema order
func (s Schema) NumericFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Kind == KindNumeric || f.Kind == KindFlag {
			names = append(names, f.Name)
		}
	}
	return names
}
