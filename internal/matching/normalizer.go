package matching

import "strings"

// CanonicalToken trims and case-folds a single raw barcode. Barcodes are
// opaque strings: leading zeros stay, "00123" and "123" are different codes.
func CanonicalToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Normalize turns a delimiter-separated barcode list plus an optional primary
// barcode into canonical tokens. Accepts ';', ',' and newlines as list
// delimiters since imports are not consistent about them.
func Normalize(rawBarcodes, rawPrimary string) (tokens []string, primary string) {
	fields := strings.FieldsFunc(rawBarcodes, func(r rune) bool {
		return r == ';' || r == ',' || r == '\n' || r == '\r'
	})
	return NormalizeTokens(fields, rawPrimary)
}

// NormalizeTokens is the list-shaped variant used for records whose barcodes
// arrive as a JSON array. Tokens are trimmed, case-folded and deduplicated in
// first-seen order; empty tokens are dropped. A non-empty primary missing
// from the list is appended so it still takes part in matching.
func NormalizeTokens(raw []string, rawPrimary string) (tokens []string, primary string) {
	seen := make(map[string]struct{}, len(raw))
	tokens = make([]string, 0, len(raw))
	for _, b := range raw {
		t := CanonicalToken(b)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}

	primary = CanonicalToken(rawPrimary)
	if primary != "" {
		if _, ok := seen[primary]; !ok {
			tokens = append(tokens, primary)
		}
	}
	return tokens, primary
}
