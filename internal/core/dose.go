// ABOUTME: Milligram extraction from free-text dose strings
// ABOUTME: Understands mg/g in English and Russian, with comma or dot decimals
package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var doseRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(mg|мг|g|гр|г)`)

// ExtractMilligrams returns the first dose found in text, converted to milligrams.
// "0,5 г" yields 500. ok is false when no number followed by a unit is present.
func ExtractMilligrams(text string) (int64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}

	t := strings.ReplaceAll(strings.ToLower(text), ",", ".")
	m := doseRe.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch m[2] {
	case "g", "г", "гр":
		value *= 1000
	}
	return int64(math.RoundToEven(value)), true
}
