package utils

import (
	// Go Internal Packages
	"strings"

	// Local Packages
	errors "e-wale/errors"

	// External Packages
	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered monetary amount. Valid amounts are
// positive with at most two decimal places; anything else is rejected
// before a collaborator is ever contacted.
func ParseAmount(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, errors.InvalidAmountErr(raw)
	}
	if !d.IsPositive() || d.Exponent() < -2 {
		return 0, errors.InvalidAmountErr(raw)
	}
	f, _ := d.Float64()
	return f, nil
}

// NormalizeMsisdn converts a local Ghanaian number (0XXXXXXXXX) to its
// international form. Already-international numbers pass through.
func NormalizeMsisdn(mobile string) string {
	m := strings.TrimSpace(mobile)
	m = strings.TrimPrefix(m, "+")
	if strings.HasPrefix(m, "0") && len(m) == 10 {
		return "233" + m[1:]
	}
	return m
}

// IsValidMsisdn reports whether the input looks like a dialable mobile
// number after normalization.
func IsValidMsisdn(mobile string) bool {
	m := NormalizeMsisdn(mobile)
	if len(m) != 12 || !strings.HasPrefix(m, "233") {
		return false
	}
	for _, r := range m {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
