package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-intel/internal/catalog"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	cat, err := catalog.New(map[string]catalog.Definition{
		"Python":     {Category: "Programming Language", Aliases: []string{"py"}},
		"JavaScript": {Category: "Programming Language", Aliases: []string{"js"}},
		"TypeScript": {Category: "Programming Language", Aliases: []string{"ts"}},
		"Node.js":    {Category: "Backend Runtime", Aliases: []string{"node", "nodejs"}},
		"PostgreSQL": {Category: "Database", Aliases: []string{"postgres", "pg"}},
	})
	require.NoError(t, err)
	return New(cat)
}

func skillNames(matches []Match) []string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Skill)
	}
	return names
}

func TestExtract_SingleSkill(t *testing.T) {
	e := testExtractor(t)

	matches := e.Extract("We use Python for data pipelines")
	require.Len(t, matches, 1)
	assert.Equal(t, "Python", matches[0].Skill)
	assert.Equal(t, "Programming Language", matches[0].Category)
}

func TestExtract_CaseAndWhitespaceInsensitive(t *testing.T) {
	e := testExtractor(t)

	upper := e.Extract("PYTHON")
	lower := e.Extract("python")
	padded := e.Extract("  Python  ")
	mixed := e.Extract("we\tlike   PyThOn")

	assert.Equal(t, lower, upper)
	assert.Equal(t, lower, padded)
	assert.Equal(t, []string{"Python"}, skillNames(mixed))
}

func TestExtract_AliasResolvesToCanonical(t *testing.T) {
	e := testExtractor(t)

	matches := e.Extract("experience with postgres required")
	require.Len(t, matches, 1)
	assert.Equal(t, "PostgreSQL", matches[0].Skill)
}

func TestExtract_NoDuplicateCanonicals(t *testing.T) {
	e := testExtractor(t)

	// Canonical name, two aliases of it, and a repeat still yield one match.
	matches := e.Extract("postgres and pg and PostgreSQL and postgres again")
	assert.Equal(t, []string{"PostgreSQL"}, skillNames(matches))
}

func TestExtract_LongestAliasWins(t *testing.T) {
	e := testExtractor(t)

	// "nodejs" must match as a whole before the shorter "node" gets a chance,
	// and either way both resolve to the same canonical.
	matches := e.Extract("nodejs developer wanted")
	assert.Equal(t, []string{"Node.js"}, skillNames(matches))

	matches = e.Extract("node developer wanted")
	assert.Equal(t, []string{"Node.js"}, skillNames(matches))
}

func TestExtract_LongerAliasClaimsItsSpan(t *testing.T) {
	// "node" and "node.js" resolve to different canonicals here; the longer
	// alias claims the occurrence and the shorter must not re-match inside it.
	cat, err := catalog.New(map[string]catalog.Definition{
		"Node.js": {Category: "Backend Runtime", Aliases: []string{"node.js"}},
		"NodeMCU": {Category: "Embedded", Aliases: []string{"node"}},
	})
	require.NoError(t, err)
	e := New(cat)

	matches := e.Extract("Node.js developer")
	assert.Equal(t, []string{"Node.js"}, skillNames(matches))

	// A freestanding "node" still matches the shorter alias.
	matches = e.Extract("node.js and plain node boards")
	assert.Equal(t, []string{"Node.js", "NodeMCU"}, skillNames(matches))
}

func TestExtract_WholeWordOnly(t *testing.T) {
	e := testExtractor(t)

	// "ts" inside "typescript" and "js" inside other words must not match.
	matches := e.Extract("artsy craftsman")
	assert.Empty(t, matches)

	matches = e.Extract("we ship ts and js daily")
	assert.Equal(t, []string{"JavaScript", "TypeScript"}, skillNames(matches))
}

func TestExtract_EmptyInput(t *testing.T) {
	e := testExtractor(t)

	assert.Equal(t, []Match{}, e.Extract(""))
	assert.Equal(t, []Match{}, e.Extract("   \t\n  "))
}

func TestExtract_NoMatches(t *testing.T) {
	e := testExtractor(t)

	matches := e.Extract("gardening and carpentry")
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestExtract_OutputSortedAlphabetically(t *testing.T) {
	e := testExtractor(t)

	matches := e.Extract("typescript, python, javascript, node, postgres")
	assert.Equal(t,
		[]string{"JavaScript", "Node.js", "PostgreSQL", "Python", "TypeScript"},
		skillNames(matches))
}

func TestExtract_PunctuationBoundaries(t *testing.T) {
	e := testExtractor(t)

	matches := e.Extract("Python, JavaScript; and (PostgreSQL).")
	assert.Equal(t, []string{"JavaScript", "PostgreSQL", "Python"}, skillNames(matches))
}
