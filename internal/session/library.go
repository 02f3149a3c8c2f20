package session

import (
	"github.com/peterkuimelis/cardclash/internal/errors"
	"github.com/peterkuimelis/cardclash/internal/game"
)

// Deck is a resolved deck ready to hand to a battle.
type Deck struct {
	Number int
	Name   string
	Cards  []*game.CardDef
	Misses []error // one CatalogMiss per synthetic card
}

// Library pairs the card catalog with the deck book every adapter picks
// decks from.
type Library struct {
	Catalog *game.Catalog
	Book    *game.DeckBook
}

// LoadLibrary reads the catalog directory and the deck book.
func LoadLibrary(catalogDir, decksFile string) (*Library, error) {
	cat, err := game.LoadCatalog(catalogDir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "load catalog %s", catalogDir)
	}
	book, err := game.ParseDeckBook(decksFile)
	if err != nil {
		return nil, errors.Wrapf(err, "load decks %s", decksFile)
	}
	return &Library{Catalog: cat, Book: book}, nil
}

// Deck resolves deck n (1-indexed).
func (l *Library) Deck(n int) (*Deck, error) {
	if n < 1 || n > len(l.Book.Decks) {
		return nil, errors.NotFoundf("deck %d not found (have %d decks)", n, len(l.Book.Decks))
	}
	name, cards, misses, err := l.Book.Resolve(n, l.Catalog)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve deck %d", n)
	}
	return &Deck{Number: n, Name: name, Cards: cards, Misses: misses}, nil
}
