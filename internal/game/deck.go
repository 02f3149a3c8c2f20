package game

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DeckBook represents the top-level YAML structure.
type DeckBook struct {
	Decks []DeckEntry `yaml:"decks"`

	dir string // manifest paths are relative to the book's directory
}

// DeckEntry represents a single deck in the YAML file: either inline cards
// or a JSON manifest.
type DeckEntry struct {
	Name     string      `yaml:"name"`
	Manifest string      `yaml:"manifest,omitempty"`
	Cards    []CardEntry `yaml:"cards,omitempty"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	ManifestEntry `yaml:",inline"`
	Count         int `yaml:"count"`
}

// ParseDeckBook reads a YAML deck book.
func ParseDeckBook(path string) (*DeckBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	book, err := ParseDeckBookData(data)
	if err != nil {
		return nil, err
	}
	book.dir = filepath.Dir(path)
	return book, nil
}

// ParseDeckBookData parses deck book YAML already in memory.
func ParseDeckBookData(data []byte) (*DeckBook, error) {
	var book DeckBook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &book, nil
}

// Names lists deck names in book order.
func (db *DeckBook) Names() []string {
	names := make([]string, len(db.Decks))
	for i, d := range db.Decks {
		names[i] = d.Name
	}
	return names
}

// Entries expands deck n (1-indexed) into one manifest entry per card.
func (db *DeckBook) Entries(n int) (string, []ManifestEntry, error) {
	if n < 1 || n > len(db.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(db.Decks))
	}
	deck := db.Decks[n-1]
	if deck.Manifest != "" {
		p := deck.Manifest
		if !filepath.IsAbs(p) {
			p = filepath.Join(db.dir, p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return "", nil, fmt.Errorf("deck %q: %w", deck.Name, err)
		}
		entries, err := ParseManifest(data)
		if err != nil {
			return "", nil, fmt.Errorf("deck %q: %w", deck.Name, err)
		}
		return deck.Name, entries, nil
	}

	var entries []ManifestEntry
	for _, c := range deck.Cards {
		count := c.Count
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			entries = append(entries, c.ManifestEntry)
		}
	}
	return deck.Name, entries, nil
}

// Build resolves deck n (1-indexed) against the catalog. Catalog misses
// are logged by the catalog and replaced with synthetic cards.
func (db *DeckBook) Build(n int, cat *Catalog) (string, []*CardDef, error) {
	name, defs, _, err := db.Resolve(n, cat)
	return name, defs, err
}

// Resolve is Build that also returns the catalog misses, one per synthetic
// card.
func (db *DeckBook) Resolve(n int, cat *Catalog) (string, []*CardDef, []error, error) {
	name, entries, err := db.Entries(n)
	if err != nil {
		return "", nil, nil, err
	}
	defs, misses := cat.Resolve(entries)
	return name, defs, misses, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int, cat *Catalog) (string, []*CardDef, error) {
	book, err := ParseDeckBook(path)
	if err != nil {
		return "", nil, err
	}
	return book.Build(n, cat)
}
