package normalize

import (
	"strings"

	"github.com/hookahlab/gearscout/internal/types"
)

// categoryRule maps any of its keywords appearing as a substring to a
// category. Rules are evaluated in order, first match wins.
type categoryRule struct {
	keywords []string
	category types.Category
}

// urlCategoryRules classify by listing URL path keywords.
var urlCategoryRules = []categoryRule{
	{[]string{"all-hookahs", "hookah"}, types.CategoryHookah},
	{[]string{"all-hookah-bowls", "bowl"}, types.CategoryBowl},
	{[]string{"all-shisha", "shisha"}, types.CategoryTobacco},
	{[]string{"all-charcoals", "charcoal"}, types.CategoryCoal},
	{[]string{"all-accessories", "accessories"}, types.CategoryAccessory},
}

// nameCategoryRules classify by product name keywords.
var nameCategoryRules = []categoryRule{
	{[]string{"hookah", "shisha", "pipe"}, types.CategoryHookah},
	{[]string{"bowl", "head"}, types.CategoryBowl},
	{[]string{"hose", "tube"}, types.CategoryHose},
	{[]string{"hmd", "heat", "management", "lotus", "provost"}, types.CategoryHMD},
	{[]string{"coal", "charcoal", "coco"}, types.CategoryCoal},
	{[]string{"tobacco", "shisha", "flavor", "molasses"}, types.CategoryTobacco},
	{[]string{"accessory", "accessories", "tongs", "foil", "grommet"}, types.CategoryAccessory},
}

// CategoryOf infers a product's category. An explicitly supplied scraping
// category always wins; otherwise the product URL keywords are tried, then
// the name keywords, then the accessory default. Category is therefore
// context-dependent, not purely a function of the product text.
func CategoryOf(name, productURL string, current types.Category) types.Category {
	if current != "" {
		return current
	}

	urlLower := strings.ToLower(productURL)
	if urlLower != "" {
		for _, rule := range urlCategoryRules {
			if containsAny(urlLower, rule.keywords) {
				return rule.category
			}
		}
	}

	nameLower := strings.ToLower(name)
	for _, rule := range nameCategoryRules {
		if containsAny(nameLower, rule.keywords) {
			return rule.category
		}
	}

	return types.CategoryAccessory
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
