package normalize

import (
	"strings"

	"github.com/hookahlab/gearscout/internal/types"
)

// brandTier is one step of the brand inference cascade. Tiers run in order;
// the first one to produce a brand wins.
type brandTier struct {
	name  string
	infer func(name string) (string, bool)
}

var brandTiers = []brandTier{
	{"dictionary", brandFromDictionary},
	{"prefix", brandFromPrefix},
	{"indicator", brandFromIndicator},
	{"name-pattern", brandFromNamePattern},
}

// Brand infers the product brand from its name. The cascade, first match
// wins: dictionary substring, dictionary prefix heuristics, keyword
// indicators, "Brand - Description" pattern, the site's default brand, and
// finally the Unknown sentinel.
func Brand(name, siteDefault string) string {
	for _, tier := range brandTiers {
		if brand, ok := tier.infer(name); ok {
			return brand
		}
	}
	if siteDefault != "" {
		return siteDefault
	}
	return types.UnknownBrand
}

// brandFromDictionary matches any dictionary brand appearing as a
// case-insensitive substring of the name.
func brandFromDictionary(name string) (string, bool) {
	nameLower := strings.ToLower(name)
	for _, brand := range brandDictionary {
		if strings.Contains(nameLower, strings.ToLower(brand)) {
			return brand, true
		}
	}
	return "", false
}

// brandFromPrefix tries leading words of the name against the dictionary:
// first the two-word prefix (returned verbatim when it contains a known
// brand), then a dictionary brand starting with the first word.
func brandFromPrefix(name string) (string, bool) {
	words := strings.Fields(name)
	if len(words) < 2 {
		return "", false
	}

	twoWord := words[0] + " " + words[1]
	twoWordLower := strings.ToLower(twoWord)
	for _, brand := range brandDictionary {
		if strings.Contains(twoWordLower, strings.ToLower(brand)) {
			return twoWord, true
		}
	}

	firstLower := strings.ToLower(words[0])
	for _, brand := range brandDictionary {
		if strings.HasPrefix(strings.ToLower(brand), firstLower) {
			return brand, true
		}
	}

	return "", false
}

// brandFromIndicator checks the keyword-indicator table for brands with
// irregular tokenization.
func brandFromIndicator(name string) (string, bool) {
	nameLower := strings.ToLower(name)
	for _, ind := range brandIndicators {
		if strings.Contains(nameLower, ind.keyword) {
			return ind.brand, true
		}
	}
	return "", false
}

// brandFromNamePattern treats the left side of a "Brand - Description"
// title as the brand when it is short enough to plausibly be one.
func brandFromNamePattern(name string) (string, bool) {
	if !strings.Contains(name, " - ") {
		return "", false
	}
	left := strings.TrimSpace(strings.SplitN(name, " - ", 2)[0])
	if left != "" && len(strings.Fields(left)) <= 3 {
		return left, true
	}
	return "", false
}
