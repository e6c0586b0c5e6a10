// Package catalog loads the controlled skill vocabulary and builds the
// alias lookup index used for extraction and normalization.
package catalog

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/jonathan/skill-intel/internal/schemas"
)

// Definition describes one canonical skill: its category and the surface
// forms (aliases) that resolve to it.
type Definition struct {
	Category string   `json:"category"`
	Aliases  []string `json:"aliases,omitempty"`
}

// catalogFile is the on-disk layout of the skill catalog.
type catalogFile struct {
	Skills map[string]Definition `json:"skills"`
}

// Catalog is the immutable vocabulary index. It is built once at startup and
// safe for concurrent use; nothing mutates it afterwards.
type Catalog struct {
	skills  map[string]Definition // canonical name -> definition
	aliases map[string]string     // lowercased alias -> canonical name
}

// Load reads the catalog JSON at path, optionally validates it against the
// JSON Schema at schemaPath (skipped when schemaPath is empty), and builds
// the alias index. Any failure is a *DataError.
func Load(path, schemaPath string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataError{Path: path, Message: "cannot read catalog file", Cause: err}
	}

	if schemaPath != "" {
		if err := schemas.ValidateBytes(schemaPath, data); err != nil {
			return nil, &DataError{Path: path, Message: "catalog failed schema validation", Cause: err}
		}
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &DataError{Path: path, Message: "invalid catalog JSON", Cause: err}
	}

	c, err := New(file.Skills)
	if err != nil {
		if de, ok := err.(*DataError); ok {
			de.Path = path
		}
		return nil, err
	}
	return c, nil
}

// New builds a Catalog from in-memory definitions. An empty definition set is
// a *DataError: an empty vocabulary would silently match nothing.
func New(skills map[string]Definition) (*Catalog, error) {
	if len(skills) == 0 {
		return nil, &DataError{Message: "catalog contains no skills"}
	}

	c := &Catalog{
		skills:  make(map[string]Definition, len(skills)),
		aliases: make(map[string]string),
	}

	// Canonical names are processed in sorted order so that alias collisions
	// resolve deterministically: the lexicographically last canonical wins.
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := skills[name]
		c.skills[name] = def

		// The canonical name always maps to itself.
		c.aliases[strings.ToLower(name)] = name
		for _, alias := range def.Aliases {
			c.aliases[strings.ToLower(alias)] = name
		}
	}

	return c, nil
}

// Normalize resolves a skill name or alias to its canonical form. Unknown
// input is returned unchanged: absence from the vocabulary is not an error.
func (c *Catalog) Normalize(s string) string {
	if s == "" {
		return s
	}
	if canonical, ok := c.aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return canonical
	}
	return s
}

// Category returns the category for a canonical skill name, or "Unknown" when
// the name is not in the catalog.
func (c *Catalog) Category(canonical string) string {
	if def, ok := c.skills[canonical]; ok {
		return def.Category
	}
	return "Unknown"
}

// ListAll returns every canonical skill name, sorted alphabetically.
func (c *Catalog) ListAll() []string {
	names := make([]string, 0, len(c.skills))
	for name := range c.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the alias index: lowercased alias -> canonical name.
// The returned map is shared; callers must not modify it.
func (c *Catalog) Aliases() map[string]string {
	return c.aliases
}

// Len returns the number of canonical skills in the catalog.
func (c *Catalog) Len() int {
	return len(c.skills)
}
