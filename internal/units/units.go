// Package units provides speed unit constants and conversion to metres per
// second, the unit every trajectory computation uses.
package units

import "fmt"

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

const mphPerMPS = 2.2369362920544

// ConvertSpeed converts a speed from meters per second to the target units.
// Unknown units are treated as m/s.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * mphPerMPS
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// ToMPS converts a speed given in unit to metres per second. An empty unit
// means m/s.
func ToMPS(value float64, unit string) (float64, error) {
	switch unit {
	case MPS, "":
		return value, nil
	case MPH:
		return value / mphPerMPS, nil
	case KMPH, KPH:
		return value / 3.6, nil
	default:
		return 0, fmt.Errorf("unknown speed unit %q (valid: %s)", unit, GetValidUnitsString())
	}
}
