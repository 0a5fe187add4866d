package navigation

import "strings"

// explicitSchemes are the prefixes passed through NormalizeURL unchanged.
var explicitSchemes = []string{"http://", "https://", "file://", "data:"}

// HasExplicitScheme reports whether raw starts with one of the schemes the
// shell loads as-is.
func HasExplicitScheme(raw string) bool {
	for _, scheme := range explicitSchemes {
		if strings.HasPrefix(raw, scheme) {
			return true
		}
	}
	return false
}

// NormalizeURL trims raw and prefixes https:// unless it already carries an
// explicit scheme. Empty input stays empty. NormalizeURL is idempotent.
//
// No further validation happens here; the render surface owns that.
func NormalizeURL(raw string) string {
	target := strings.TrimSpace(raw)
	if target == "" || HasExplicitScheme(target) {
		return target
	}
	return "https://" + target
}
