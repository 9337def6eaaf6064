package observations

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for collector construction and access.
var (
	// ErrBadMemberCount indicates a collector sized for fewer than one member.
	ErrBadMemberCount = errors.New("observations: collector needs at least one member")

	// ErrMemberRange indicates a member index outside [0, members).
	ErrMemberRange = errors.New("observations: member index out of range")
)

// Collector accumulates simulated field snapshots at the prescribed
// observation times, one series per field per ensemble member. The owning
// simulation overwrites it on every run; no other component may read it
// while a forward run is in progress.
type Collector struct {
	times   []float64
	order   []string
	members int
	data    map[string]*mat.Dense // Ntimes x Nmembers per field
}

// NewCollector builds a collector for the given fields, times and ensemble
// size. Field order is preserved and must match the observation's order.
func NewCollector(times []float64, fields []string, members int) (*Collector, error) {
	if len(times) == 0 {
		return nil, ErrNoTimes
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	if members < 1 {
		return nil, fmt.Errorf("%w: members=%d", ErrBadMemberCount, members)
	}

	c := &Collector{
		times:   append([]float64(nil), times...),
		order:   make([]string, 0, len(fields)),
		members: members,
		data:    make(map[string]*mat.Dense, len(fields)),
	}
	for _, name := range fields {
		if _, dup := c.data[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, name)
		}
		c.order = append(c.order, name)
		c.data[name] = mat.NewDense(len(times), members, nil)
	}

	return c, nil
}

// Times returns a copy of the collection times.
func (c *Collector) Times() []float64 {
	return append([]float64(nil), c.times...)
}

// Fields returns the field names in declaration order.
func (c *Collector) Fields() []string {
	return append([]string(nil), c.order...)
}

// Members returns the ensemble size the collector is dimensioned for.
func (c *Collector) Members() int { return c.members }

// SetSeries overwrites field name's series for one member. The series must
// cover every collection time.
func (c *Collector) SetSeries(name string, member int, series []float64) error {
	d, ok := c.data[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if member < 0 || member >= c.members {
		return fmt.Errorf("%w: %d of %d", ErrMemberRange, member, c.members)
	}
	if len(series) != len(c.times) {
		return fmt.Errorf("%w: field %q has %d samples for %d times",
			ErrLengthMismatch, name, len(series), len(c.times))
	}
	for t, v := range series {
		d.Set(t, member, v)
	}

	return nil
}

// Series returns a copy of field name's series for one member.
func (c *Collector) Series(name string, member int) ([]float64, error) {
	d, ok := c.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if member < 0 || member >= c.members {
		return nil, fmt.Errorf("%w: %d of %d", ErrMemberRange, member, c.members)
	}

	out := make([]float64, len(c.times))
	mat.Col(out, member, d)

	return out, nil
}
