package enums

import "fmt"

// FuelType identifies the product being delivered.
type FuelType string

const (
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeGasoline FuelType = "gasoline"
)

var validFuelTypes = []FuelType{
	FuelTypeDiesel,
	FuelTypeGasoline,
}

// String implements fmt.Stringer.
func (f FuelType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FuelType.
func (f FuelType) IsValid() bool {
	for _, candidate := range validFuelTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFuelType converts raw input into a FuelType.
func ParseFuelType(value string) (FuelType, error) {
	for _, candidate := range validFuelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fuel type %q", value)
}
