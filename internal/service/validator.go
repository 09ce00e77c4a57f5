package service

import "math"

const postalCodeLength = 6

// ValidatePostalCode accepts exactly six ASCII digits.
func ValidatePostalCode(postalCode string) error {
	if len(postalCode) != postalCodeLength {
		return invalidPostalCode()
	}
	for i := 0; i < len(postalCode); i++ {
		if postalCode[i] < '0' || postalCode[i] > '9' {
			return invalidPostalCode()
		}
	}
	return nil
}

// ValidateInputs applies the rules in order and returns the first failure.
func ValidateInputs(postalCode string, occupants int, length, width, height float64) error {
	if err := ValidatePostalCode(postalCode); err != nil {
		return err
	}
	if occupants <= 0 {
		return &ValidationError{Field: "occupants", Message: "occupant count must be positive"}
	}
	for _, dim := range []float64{length, width, height} {
		// !(dim > 0) also rejects NaN
		if !(dim > 0) {
			return &ValidationError{Field: "dimensions", Message: "room dimensions must be positive"}
		}
		if math.IsInf(dim, 0) {
			return &ValidationError{Field: "dimensions", Message: "room dimensions must be finite"}
		}
	}
	if math.IsInf(length*width*height, 0) {
		return &ValidationError{Field: "dimensions", Message: "room volume is too large"}
	}
	return nil
}

func invalidPostalCode() error {
	return &ValidationError{Field: "postal_code", Message: "invalid postal code format"}
}
