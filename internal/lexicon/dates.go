package lexicon

import "regexp"

var dateRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(\d+)\s*[–—-]\s*(\d+)\s*(?:BC\b|B\.C\.)`), "from $1 to $2 before Christ"},
	{regexp.MustCompile(`(\d+)\s*[–—-]\s*(\d+)\s*(?:AD\b|A\.D\.)`), "from $1 to $2 anno Domini"},
	{regexp.MustCompile(`\b(\d{3,4})\s*[–—-]\s*(\d{3,4})\b`), "from $1 to $2"},
	{regexp.MustCompile(`\bB\.C\.|\bBC\b`), "before Christ"},
	{regexp.MustCompile(`\bA\.D\.|\bAD\b`), "anno Domini"},
}

// RewriteDates spells out year ranges and era abbreviations, which the
// translation model otherwise mangles.
//
//	"563–483 BC" -> "from 563 to 483 before Christ"
//	"1809-1865"  -> "from 1809 to 1865"
func RewriteDates(s string) string {
	for _, rule := range dateRules {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	return s
}
