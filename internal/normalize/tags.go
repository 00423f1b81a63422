package normalize

import (
	"strings"

	"github.com/hookahlab/gearscout/internal/types"
)

// tagRule appends a fixed tag set when its predicate matches. Rules are
// grouped; within a group the first match wins, and groups are additive:
// no rule ever removes a tag added by another.
type tagRule struct {
	match func(nameLower string, category types.Category) bool
	tags  []string
}

// brandTagRules tag by brand signature in the product name.
var brandTagRules = []tagRule{
	{
		match: func(name string, _ types.Category) bool {
			return strings.Contains(name, "khalil mamoon") || strings.Contains(name, "km")
		},
		tags: []string{"egyptian_hookah", "traditional", "brass"},
	},
	{
		match: func(name string, _ types.Category) bool { return strings.Contains(name, "shika") },
		tags:  []string{"modern_hookah", "stainless_steel", "multi_port"},
	},
	{
		match: func(name string, _ types.Category) bool { return strings.Contains(name, "kaloud") },
		tags:  []string{"heat_management", "modern", "temperature_control"},
	},
}

// categoryTagRules tag by category, with name-keyword refinements for bowls
// and hoses.
var categoryTagRules = []tagRule{
	{
		match: func(_ string, cat types.Category) bool { return cat == types.CategoryHookah },
		tags:  []string{"wide_base", "standard_hose"},
	},
	{
		match: func(name string, cat types.Category) bool {
			return cat == types.CategoryBowl && strings.Contains(name, "lotus")
		},
		tags: []string{"kaloud_lotus_hmd", "ceramic", "heat_management"},
	},
	{
		match: func(_ string, cat types.Category) bool { return cat == types.CategoryBowl },
		tags:  []string{"traditional", "clay", "foil"},
	},
	{
		match: func(name string, cat types.Category) bool {
			return cat == types.CategoryHose && strings.Contains(name, "silicone")
		},
		tags: []string{"washable", "silicone", "modern_hookah"},
	},
	{
		match: func(_ string, cat types.Category) bool { return cat == types.CategoryHose },
		tags:  []string{"traditional", "leather", "egyptian_hookah"},
	},
	{
		match: func(_ string, cat types.Category) bool { return cat == types.CategoryHMD },
		tags:  []string{"heat_management", "stainless_steel"},
	},
}

// Tags derives compatibility tags from the product name and category.
// Duplicates across groups collapse, preserving first-seen order.
func Tags(name string, category types.Category) []string {
	nameLower := strings.ToLower(name)

	var tags []string
	for _, group := range [][]tagRule{brandTagRules, categoryTagRules} {
		for _, rule := range group {
			if rule.match(nameLower, category) {
				tags = append(tags, rule.tags...)
				break
			}
		}
	}

	return dedupe(tags)
}

func dedupe(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}
	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
