package observations

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for observation construction.
var (
	// ErrNoFields indicates an observation without any field.
	ErrNoFields = errors.New("observations: at least one field is required")

	// ErrNoTimes indicates an observation without comparison times.
	ErrNoTimes = errors.New("observations: at least one observation time is required")

	// ErrDuplicateField indicates two fields sharing a name.
	ErrDuplicateField = errors.New("observations: duplicate field name")

	// ErrLengthMismatch indicates a field series whose length differs from
	// the observation-time count.
	ErrLengthMismatch = errors.New("observations: field length does not match time count")

	// ErrUnknownField indicates a lookup for an undeclared field name.
	ErrUnknownField = errors.New("observations: unknown field")
)

// Transform is an element-wise value transformation applied identically to
// observed and simulated series of one field.
type Transform func(float64) float64

// Identity returns the no-op transform.
func Identity() Transform {
	return func(x float64) float64 { return x }
}

// Scale returns a transform multiplying every value by s.
func Scale(s float64) Transform {
	return func(x float64) float64 { return s * x }
}

// Field is one named observed time series plus its value transform.
type Field struct {
	name      string
	values    []float64
	transform Transform
}

// NewField builds a field from raw observed values. A nil transform means
// Identity.
func NewField(name string, values []float64, tf Transform) Field {
	if tf == nil {
		tf = Identity()
	}
	v := make([]float64, len(values))
	copy(v, values)

	return Field{name: name, values: v, transform: tf}
}

// NormalizedField builds a field whose transform scales by the reciprocal of
// the largest observed magnitude, fixed once here so the same factor applies
// to simulated values. All-zero observations keep the identity transform.
func NormalizedField(name string, values []float64) Field {
	maxAbs := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return NewField(name, values, nil)
	}

	return NewField(name, values, Scale(1/maxAbs))
}

// Observation is an immutable set of named field time series sampled at
// common comparison times. Field order is declaration order and is the
// deterministic order output maps concatenate in.
type Observation struct {
	times  []float64
	order  []string
	fields map[string]Field
}

// NewObservation builds an observation over the given comparison times.
//
// Validation (in order):
//  1. times non-empty (ErrNoTimes).
//  2. At least one field (ErrNoFields).
//  3. Field names unique (ErrDuplicateField).
//  4. Every field series has len(times) samples (ErrLengthMismatch).
func NewObservation(times []float64, fields ...Field) (*Observation, error) {
	if len(times) == 0 {
		return nil, ErrNoTimes
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	o := &Observation{
		times:  append([]float64(nil), times...),
		order:  make([]string, 0, len(fields)),
		fields: make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		if _, dup := o.fields[f.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.name)
		}
		if len(f.values) != len(times) {
			return nil, fmt.Errorf("%w: field %q has %d samples for %d times",
				ErrLengthMismatch, f.name, len(f.values), len(times))
		}
		o.order = append(o.order, f.name)
		o.fields[f.name] = f
	}

	return o, nil
}

// Times returns a copy of the comparison times.
func (o *Observation) Times() []float64 {
	return append([]float64(nil), o.times...)
}

// Fields returns the field names in declaration order.
func (o *Observation) Fields() []string {
	return append([]string(nil), o.order...)
}

// Transformed returns field name's observed series with its transform
// applied.
func (o *Observation) Transformed(name string) ([]float64, error) {
	f, ok := o.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	out := make([]float64, len(f.values))
	for i, v := range f.values {
		out[i] = f.transform(v)
	}

	return out, nil
}

// TransformSeries applies field name's transform to a simulated series,
// keeping it comparable with the observed one.
func (o *Observation) TransformSeries(name string, series []float64) ([]float64, error) {
	f, ok := o.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = f.transform(v)
	}

	return out, nil
}
