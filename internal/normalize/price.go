package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRe matches the first currency-prefixed or bare decimal number.
var priceRe = regexp.MustCompile(`[\$£€]?(\d+\.?\d*)`)

// ratingRe matches the first decimal number in a rating string.
var ratingRe = regexp.MustCompile(`(\d+\.?\d*)`)

// Price extracts a numeric price from raw listing text. Thousands
// separators are stripped first. Unparseable text yields 0, never an error.
func Price(text string) float64 {
	m := priceRe.FindStringSubmatch(strings.ReplaceAll(text, ",", ""))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// Rating extracts a star rating from raw listing text, clamped to [0, 5].
func Rating(text string) float64 {
	m := ratingRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}
