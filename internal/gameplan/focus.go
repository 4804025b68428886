package gameplan

import "strings"

// MaxFocusPlays is the number of focus plays a defense may key on.
const MaxFocusPlays = 3

// ParseFocusPlays splits the comma-joined focus list. Blank entries are dropped.
func ParseFocusPlays(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// StringifyFocusPlays joins focus plays into the stored form.
func StringifyFocusPlays(plays []string) string {
	kept := make([]string, 0, len(plays))
	for _, p := range plays {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ",")
}
