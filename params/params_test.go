package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/enkal/params"
)

// twoParams builds the {a, b} parameter set used across the package tests.
func twoParams(t *testing.T) *params.FreeParameters {
	t.Helper()

	a, err := params.NewScaledLogitNormal(0.9, 1.1)
	require.NoError(t, err)
	b, err := params.NewNormal(0, 1)
	require.NoError(t, err)

	fp, err := params.New(
		params.FreeParameter{Name: "a", Prior: a},
		params.FreeParameter{Name: "b", Prior: b},
	)
	require.NoError(t, err)

	return fp
}

// TestNew_Validation covers the constructor's failure order.
func TestNew_Validation(t *testing.T) {
	_, err := params.New()
	assert.ErrorIs(t, err, params.ErrNoParameters, "empty set must error")

	prior, err := params.NewNormal(0, 1)
	require.NoError(t, err)

	_, err = params.New(params.FreeParameter{Name: "", Prior: prior})
	assert.ErrorIs(t, err, params.ErrEmptyName, "empty name must error")

	_, err = params.New(
		params.FreeParameter{Name: "a", Prior: prior},
		params.FreeParameter{Name: "a", Prior: prior},
	)
	assert.ErrorIs(t, err, params.ErrDuplicateName, "duplicate name must error")

	_, err = params.New(params.FreeParameter{Name: "a", Prior: nil})
	assert.ErrorIs(t, err, params.ErrNilPrior, "nil prior must error")
}

// TestNames_OrderIsCanonical verifies declaration order defines index order.
func TestNames_OrderIsCanonical(t *testing.T) {
	fp := twoParams(t)

	assert.Equal(t, []string{"a", "b"}, fp.Names(), "names must preserve declaration order")
	assert.Equal(t, 2, fp.Len())
}

// TestVector_ReordersByName verifies record-to-vector conversion follows the
// canonical order and rejects unknown or missing names.
func TestVector_ReordersByName(t *testing.T) {
	fp := twoParams(t)

	vec, err := fp.Vector(params.Record{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, vec, "vector must follow canonical order, not record order")

	_, err = fp.Vector(params.Record{"a": 1, "b": 2, "c": 3})
	assert.ErrorIs(t, err, params.ErrUnknownName, "extra entry must error")

	_, err = fp.Vector(params.Record{"a": 1})
	assert.ErrorIs(t, err, params.ErrMissingName, "missing entry must error")
}

// TestRecordOf_Validation verifies vector-to-record conversion and its
// length check.
func TestRecordOf_Validation(t *testing.T) {
	fp := twoParams(t)

	rec, err := fp.RecordOf([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, params.Record{"a": 1.0, "b": 2.0}, rec)

	_, err = fp.RecordOf([]float64{1})
	assert.ErrorIs(t, err, params.ErrBadVectorLen, "short vector must error")
}
