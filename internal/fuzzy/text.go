package fuzzy

import (
	"regexp"
	"strings"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

// stopWords are filler tokens dropped before similarity search.
var stopWords = map[string]bool{
	"please": true,
	"plz":    true,
	"pls":    true,
	"the":    true,
	"a":      true,
	"an":     true,
	"can":    true,
	"could":  true,
	"would":  true,
	"you":    true,
	"me":     true,
	"my":     true,
	"i":      true,
	"want":   true,
	"need":   true,
	"to":     true,
	"of":     true,
	"for":    true,
	"kindly": true,
	"hey":    true,
	"hi":     true,
	"hello":  true,
	"just":   true,
	"bhai":   true,
	"yaar":   true,
	"na":     true,
	"zara":   true,
}

// dialect maps colloquial spellings to standard words. This table only
// normalizes text before similarity search; it never rewrites command
// payload fields (that is the alias resolver's job).
var dialect = map[string]string{
	"stok":    "stock",
	"stck":    "stock",
	"bil":     "bill",
	"bll":     "bill",
	"expens":  "expense",
	"expence": "expense",
	"discnt":  "discount",
	"disc":    "discount",
	"qty":     "quantity",
	"kitna":   "howmuch",
	"kitni":   "howmuch",
	"dikha":   "show",
	"dikhao":  "show",
	"batao":   "tell",
	"bata":    "tell",
	"hatao":   "remove",
	"hata":    "remove",
	"jodo":    "add",
	"becha":   "sold",
	"kharido": "buy",
	"aaj":     "today",
	"kal":     "yesterday",
	"rupee":   "rupees",
	"rs":      "rupees",
}

// normalize lowercases and strips everything but letters, digits and
// spaces, collapsing runs of separators.
func normalize(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
		}
		lastSpace = true
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

// preprocess runs the full text pipeline: normalize, tokenize, drop
// stop-words, apply the dialect table.
func preprocess(raw string) []string {
	normalized := normalize(raw)
	if normalized == "" {
		return nil
	}
	fields := strings.Fields(normalized)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if stopWords[tok] {
			continue
		}
		if std, ok := dialect[tok]; ok {
			tok = std
		}
		out = append(out, tok)
	}
	return out
}

// contentTokens returns the normalized tokens of an utterance with
// stop-words removed but without dialect rewriting, for entity
// re-extraction against the raw text.
func contentTokens(raw string) []string {
	normalized := normalize(raw)
	if normalized == "" {
		return nil
	}
	fields := strings.Fields(normalized)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if stopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// isNumeric reports whether tok parses as a bare number.
func isNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	dot := false
	for i, r := range tok {
		if r == '.' {
			if dot || i == 0 || i == len(tok)-1 {
				return false
			}
			dot = true
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
