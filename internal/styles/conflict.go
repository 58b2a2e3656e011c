package styles

import "strings"

// conflictKey maps a utility class to the CSS property group it sets. Two
// classes with the same key conflict; the later one wins. A class the table
// does not recognize conflicts only with itself (exact duplicates collapse).
// Variant prefixes (hover:, md:, dark:...) scope the group, so hover:bg-red
// does not conflict with bg-white.
func conflictKey(class string) string {
	variant := ""
	base := class
	if idx := strings.LastIndex(class, ":"); idx >= 0 {
		variant = class[:idx+1]
		base = class[idx+1:]
	}

	if group, ok := baseGroup(base); ok {
		return variant + "\x00" + group
	}
	return class
}

var textSizes = map[string]bool{
	"xs": true, "sm": true, "base": true, "lg": true, "xl": true,
	"2xl": true, "3xl": true, "4xl": true, "5xl": true, "6xl": true,
	"7xl": true, "8xl": true, "9xl": true,
}

var textAligns = map[string]bool{
	"left": true, "center": true, "right": true, "justify": true,
}

var fontWeights = map[string]bool{
	"thin": true, "extralight": true, "light": true, "normal": true,
	"medium": true, "semibold": true, "bold": true, "extrabold": true,
	"black": true,
}

var fontFamilies = map[string]bool{
	"sans": true, "serif": true, "mono": true,
}

var displays = map[string]bool{
	"block": true, "inline-block": true, "inline": true, "flex": true,
	"inline-flex": true, "grid": true, "inline-grid": true, "contents": true,
	"hidden": true, "table": true, "flow-root": true,
}

var decorations = map[string]bool{
	"underline": true, "overline": true, "line-through": true, "no-underline": true,
}

// Prefixes that each form their own spacing/sizing property group.
var prefixGroups = []string{
	"p-", "px-", "py-", "pt-", "pr-", "pb-", "pl-",
	"m-", "mx-", "my-", "mt-", "mr-", "mb-", "ml-",
	"w-", "h-", "min-w-", "min-h-", "max-w-", "max-h-",
	"gap-", "gap-x-", "gap-y-",
	"items-", "justify-", "content-", "self-",
	"leading-", "tracking-",
	"opacity-", "z-", "order-",
	"overflow-", "overflow-x-", "overflow-y-",
	"cursor-", "select-",
	"col-span-", "row-span-", "grid-cols-", "grid-rows-",
	"duration-", "ease-", "delay-",
	"top-", "right-", "bottom-", "left-", "inset-",
}

func baseGroup(base string) (string, bool) {
	if displays[base] {
		return "display", true
	}
	if decorations[base] {
		return "text-decoration", true
	}

	if suffix, ok := strings.CutPrefix(base, "text-"); ok {
		switch {
		case textSizes[suffix]:
			return "text-size", true
		case textAligns[suffix]:
			return "text-align", true
		default:
			return "text-color", true
		}
	}

	if suffix, ok := strings.CutPrefix(base, "font-"); ok {
		switch {
		case fontWeights[suffix]:
			return "font-weight", true
		case fontFamilies[suffix]:
			return "font-family", true
		default:
			return "", false
		}
	}

	if strings.HasPrefix(base, "bg-") {
		return "bg", true
	}

	if base == "rounded" || strings.HasPrefix(base, "rounded-") {
		return "rounded", true
	}
	if base == "shadow" || strings.HasPrefix(base, "shadow-") {
		return "shadow", true
	}
	if base == "border" || isBorderWidth(base) {
		return "border-width", true
	}
	if strings.HasPrefix(base, "border-") {
		return "border-color", true
	}

	// Longest prefix wins so px- is checked before p-.
	group := ""
	for _, prefix := range prefixGroups {
		if strings.HasPrefix(base, prefix) && len(prefix) > len(group) {
			group = prefix
		}
	}
	if group != "" {
		return strings.TrimSuffix(group, "-"), true
	}

	return "", false
}

func isBorderWidth(base string) bool {
	suffix, ok := strings.CutPrefix(base, "border-")
	if !ok {
		return false
	}
	switch suffix {
	case "0", "2", "4", "8":
		return true
	default:
		return false
	}
}
