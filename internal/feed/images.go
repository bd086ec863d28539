package feed

import "strings"

// SplitIDs splits a comma-separated id list, dropping blanks.
func SplitIDs(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// additionalImageIDs returns at most max ids from list, skipping primary.
func additionalImageIDs(list, primary string, max int) []string {
	if max <= 0 {
		return nil
	}
	var out []string
	for _, id := range SplitIDs(list) {
		if len(out) >= max {
			break
		}
		if id == primary {
			continue
		}
		out = append(out, id)
	}
	return out
}
