package realtime

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blackmichael/go-plurk"
)

// KeywordFilter matches plurks against a set of keywords using word
// boundaries, optionally restricted to a set of language codes.
type KeywordFilter struct {
	pattern *regexp.Regexp
	langs   map[string]struct{} // nil means no filter
}

// NewKeywordFilter compiles a filter from keywords and language codes. At
// least one keyword is required; an empty langs slice means no language
// restriction.
func NewKeywordFilter(keywords, langs []string) (*KeywordFilter, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("at least one keyword is required")
	}

	escaped := make([]string, len(keywords))
	for i, kw := range keywords {
		escaped[i] = regexp.QuoteMeta(kw)
	}

	expr := `(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile keyword pattern: %w", err)
	}

	f := &KeywordFilter{pattern: pattern}
	if len(langs) > 0 {
		f.langs = make(map[string]struct{}, len(langs))
		for _, l := range langs {
			f.langs[l] = struct{}{}
		}
	}
	return f, nil
}

// Match reports whether the plurk's text matches the filter.
func (f *KeywordFilter) Match(p *plurk.Plurk) bool {
	if f.langs != nil {
		if _, ok := f.langs[p.Lang]; !ok {
			return false
		}
	}
	text := p.ContentRaw
	if text == "" {
		text = p.Content
	}
	return f.pattern.MatchString(text)
}
