package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestConvertToMillimeters(t *testing.T) {
	tests := []struct {
		name  string
		value *float64
		unit  Unit
		want  *float64
	}{
		{name: "nil value stays nil", value: nil, unit: UnitCentimeter, want: nil},
		{name: "millimetres are identity", value: floatPtr(42), unit: UnitMillimeter, want: floatPtr(42)},
		{name: "centimetres scale by 10", value: floatPtr(3.5), unit: UnitCentimeter, want: floatPtr(35)},
		{name: "metres scale by 1000", value: floatPtr(1.2), unit: UnitMeter, want: floatPtr(1200)},
		{name: "zero is preserved", value: floatPtr(0), unit: UnitMeter, want: floatPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertToMillimeters(tt.value, tt.unit)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestConvertToMillimetersUnknownUnit(t *testing.T) {
	_, err := ConvertToMillimeters(floatPtr(10), Unit("inch"))
	require.ErrorIs(t, err, ErrUnknownUnit)

	// A nil value short-circuits before the unit is inspected.
	got, err := ConvertToMillimeters(nil, Unit("inch"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAreaSquareMeters(t *testing.T) {
	area, err := AreaSquareMeters(floatPtr(1000), floatPtr(500), UnitMillimeter)
	require.NoError(t, err)
	require.NotNil(t, area)
	assert.Equal(t, 0.5, *area)

	area, err = AreaSquareMeters(floatPtr(90), floatPtr(5), UnitCentimeter)
	require.NoError(t, err)
	require.NotNil(t, area)
	assert.Equal(t, 0.045, *area)

	// Rounded to four decimal places.
	area, err = AreaSquareMeters(floatPtr(33.3), floatPtr(33.3), UnitMillimeter)
	require.NoError(t, err)
	require.NotNil(t, area)
	assert.Equal(t, 0.0011, *area)
}

func TestAreaSquareMetersAbsentSides(t *testing.T) {
	area, err := AreaSquareMeters(nil, floatPtr(500), UnitMillimeter)
	require.NoError(t, err)
	assert.Nil(t, area)

	area, err = AreaSquareMeters(floatPtr(500), nil, UnitMillimeter)
	require.NoError(t, err)
	assert.Nil(t, area)

	_, err = AreaSquareMeters(floatPtr(1), floatPtr(1), Unit("yd"))
	require.ErrorIs(t, err, ErrUnknownUnit)
}

func TestNormalizeDimension(t *testing.T) {
	assert.Nil(t, NormalizeDimension(nil, UnitMillimeter))

	d := &Dimension{Width: floatPtr(10), Height: floatPtr(20)}
	normalised := NormalizeDimension(d, UnitCentimeter)
	require.NotNil(t, normalised)
	assert.Equal(t, UnitCentimeter, normalised.Unit)
	// The input is left untouched.
	assert.Equal(t, Unit(""), d.Unit)

	tagged := &Dimension{Width: floatPtr(10), Height: floatPtr(20), Unit: UnitMeter}
	normalised = NormalizeDimension(tagged, UnitMillimeter)
	require.NotNil(t, normalised)
	assert.Equal(t, UnitMeter, normalised.Unit)
	// Values are never converted, only the tag is filled in.
	assert.Equal(t, 10.0, *normalised.Width)
}

func TestPriceBreakdownSum(t *testing.T) {
	breakdown := PriceBreakdown{
		Lines: []PriceLine{
			{Type: PriceLineBase, Amount: 1000},
			{Type: PriceLineFinishing, Amount: 250},
			{Type: PriceLineTierDiscount, Amount: -125},
		},
	}
	assert.Equal(t, int64(1125), breakdown.Sum())
	assert.Equal(t, int64(0), PriceBreakdown{}.Sum())
}
