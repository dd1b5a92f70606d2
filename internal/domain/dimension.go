package domain

import (
	"errors"
	"fmt"
	"math"
)

// Unit identifies the measurement unit attached to dimension values.
type Unit string

const (
	// UnitMillimeter is the canonical unit all comparisons are normalised to.
	UnitMillimeter Unit = "mm"
	// UnitCentimeter converts to millimetres at a factor of 10.
	UnitCentimeter Unit = "cm"
	// UnitMeter converts to millimetres at a factor of 1000.
	UnitMeter Unit = "m"
)

// ErrUnknownUnit is returned when a dimension carries a unit outside mm/cm/m.
// Unknown units are a configuration error rather than an implicit millimetre
// value; treating them as millimetres would mask typos in product data.
var ErrUnknownUnit = errors.New("domain: unknown dimension unit")

// Dimension captures a width/height pair tagged with its unit. Either side may
// be absent while the customer is still filling in the configurator.
type Dimension struct {
	Width  *float64
	Height *float64
	Unit   Unit
}

// ConvertToMillimeters converts an optional value from the given unit to
// millimetres. A nil value stays nil so callers can distinguish "not yet
// specified" from a zero-sized dimension.
func ConvertToMillimeters(value *float64, unit Unit) (*float64, error) {
	if value == nil {
		return nil, nil
	}
	factor, err := millimeterFactor(unit)
	if err != nil {
		return nil, err
	}
	converted := *value * factor
	return &converted, nil
}

// AreaSquareMeters computes the area of a width/height pair in square metres,
// rounded to 4 decimal places. It returns nil when either side is absent.
func AreaSquareMeters(width, height *float64, unit Unit) (*float64, error) {
	if width == nil || height == nil {
		return nil, nil
	}
	w, err := ConvertToMillimeters(width, unit)
	if err != nil {
		return nil, err
	}
	h, err := ConvertToMillimeters(height, unit)
	if err != nil {
		return nil, err
	}
	area := math.Round(*w * *h / 1_000_000 * 10_000) / 10_000
	return &area, nil
}

// NormalizeDimension fills a missing unit tag with the fallback unit. It never
// converts values between units and returns nil for a nil input.
func NormalizeDimension(d *Dimension, fallback Unit) *Dimension {
	if d == nil {
		return nil
	}
	normalised := *d
	if normalised.Unit == "" {
		normalised.Unit = fallback
	}
	return &normalised
}

func millimeterFactor(unit Unit) (float64, error) {
	switch unit {
	case UnitMillimeter:
		return 1, nil
	case UnitCentimeter:
		return 10, nil
	case UnitMeter:
		return 1000, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, string(unit))
	}
}
