// Package rs implements the Record Stepper: a state machine consuming VIF
// indices plus the underlying buffer, emitting fields and lines, with carry
// state (inside-quote, trailing-CR) threaded by the caller between chunk
// refills.
package rs

// Format mirrors vif.Format locally so rs does not need to import vif in
// every file that only cares about which separator rules apply.
type Format int

const (
	FormatCSV Format = iota
	FormatTSV
	FormatByte
)

// FieldSet is a set over small non-negative field indices (0 = whole
// record). It is consulted by the Stepper so unwanted fields are walked
// (for field-count purposes) but never materialized into bytes.
type FieldSet struct {
	all     bool
	indices map[int]struct{}
}

// NewFieldSet returns a FieldSet that wants every field, including the raw
// record (index 0).
func NewFieldSet() *FieldSet {
	return &FieldSet{all: true}
}

// Restrict narrows the set to exactly the given indices. Passing 0 keeps
// the raw record.
func Restrict(indices ...int) *FieldSet {
	fs := &FieldSet{indices: make(map[int]struct{}, len(indices))}
	for _, i := range indices {
		fs.indices[i] = struct{}{}
	}
	return fs
}

// Contains reports whether index i should be materialized.
func (f *FieldSet) Contains(i int) bool {
	if f == nil || f.all {
		return true
	}
	_, ok := f.indices[i]
	return ok
}
