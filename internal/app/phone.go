package app

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// defaultPhoneRegion is assumed for numbers written without a country code.
const defaultPhoneRegion = "IN"

// normalizePhone rewrites a valid number in E.164 form so "98765 43210" and
// "+91-9876543210" land on the same customer. Anything libphonenumber cannot
// validate is stored as typed, minus surrounding space.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	num, err := libphonenumber.Parse(raw, defaultPhoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}
