// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// LimitParam parses a "limit" query value. Missing, malformed or
// non-positive values give def; anything above max is capped at max.
//
//	utils.LimitParam("", 50, 200)    // 50
//	utils.LimitParam("500", 50, 200) // 200
//	utils.LimitParam("-1", 50, 200)  // 50
func LimitParam(s string, def, max int) int {
	n := AtoiDefault(s, def)
	if n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
