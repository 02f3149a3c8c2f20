package web

import (
	"net/http"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Size   int      `json:"size"`
	Cards  []string `json:"cards"`
	Misses int      `json:"misses,omitempty"`
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks := []DeckInfo{}
	for i := range s.lib.Book.Decks {
		d, err := s.lib.Deck(i + 1)
		if err != nil {
			// A broken manifest hides that deck, not the whole list.
			s.log.Warn("skip deck", "number", i+1, "error", err)
			continue
		}
		di := DeckInfo{
			Number: d.Number,
			Name:   d.Name,
			Size:   len(d.Cards),
			Cards:  []string{},
			Misses: len(d.Misses),
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, c := range d.Cards {
			if !seen[c.Name] {
				di.Cards = append(di.Cards, c.Name)
				seen[c.Name] = true
			}
		}
		decks = append(decks, di)
	}
	writeJSON(w, http.StatusOK, decks)
}
