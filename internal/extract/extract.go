// Package extract implements alias-based skill extraction over raw text.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/skill-intel/internal/catalog"
)

// Match is one extracted skill: the canonical name and its category.
type Match struct {
	Skill    string `json:"skill"`
	Category string `json:"category"`
}

// aliasPattern is one precompiled whole-word matcher for a single alias.
type aliasPattern struct {
	alias     string
	canonical string
	category  string
	re        *regexp.Regexp
}

// Extractor matches catalog aliases against normalized text. It is built
// once from an immutable catalog and is safe for arbitrary concurrent use.
type Extractor struct {
	patterns []aliasPattern
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// New builds an Extractor from the catalog's alias index. Aliases are
// ordered by descending length with a lexicographic tie-break, so more
// specific aliases are tried first ("node.js" before "node") and the
// iteration order is deterministic. Word-boundary patterns are compiled
// here, once, not per extraction call.
func New(c *catalog.Catalog) *Extractor {
	aliases := c.Aliases()

	patterns := make([]aliasPattern, 0, len(aliases))
	for alias, canonical := range aliases {
		patterns = append(patterns, aliasPattern{
			alias:     alias,
			canonical: canonical,
			category:  c.Category(canonical),
			re:        regexp.MustCompile(`\b` + regexp.QuoteMeta(alias) + `\b`),
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i].alias) != len(patterns[j].alias) {
			return len(patterns[i].alias) > len(patterns[j].alias)
		}
		return patterns[i].alias < patterns[j].alias
	})

	return &Extractor{patterns: patterns}
}

// Extract returns the skills mentioned in text, deduplicated by canonical
// name and sorted alphabetically. Empty or blank input yields an empty
// result: the absence of skills is a valid outcome, not an error.
//
// Matching is greedy and literal. Each alias must match as a whole word in
// the lowercased, whitespace-collapsed text, which keeps "script" from
// matching inside "typescript". Matched spans are blanked out before shorter
// aliases are tried, so "node" cannot re-match inside an already-claimed
// "node.js". Once a canonical skill has matched, its remaining aliases are
// skipped. No semantic disambiguation is attempted.
func (e *Extractor) Extract(text string) []Match {
	normalized := normalizeText(text)
	if normalized == "" {
		return []Match{}
	}

	seen := make(map[string]bool)
	matches := make([]Match, 0)

	for _, p := range e.patterns {
		if seen[p.canonical] {
			continue
		}
		if p.re.MatchString(normalized) {
			seen[p.canonical] = true
			matches = append(matches, Match{Skill: p.canonical, Category: p.category})
			normalized = p.re.ReplaceAllString(normalized, " ")
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Skill < matches[j].Skill
	})

	return matches
}

// normalizeText lowercases the input, collapses whitespace runs to single
// spaces and trims the ends.
func normalizeText(text string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}
