// Package replay stores finished battles so they can be listed and replayed.
package replay

import (
	"context"
	"time"

	"github.com/peterkuimelis/cardclash/internal/log"
)

// Record is one finished battle. Seed and the two decks are enough to
// re-run it; Events is the log as it was played.
type Record struct {
	ID         string          `json:"id"`
	Seed       uint64          `json:"seed"`
	DeckA      string          `json:"deck_a"`
	DeckB      string          `json:"deck_b"`
	Winner     string          `json:"winner,omitempty"` // "A", "B" or empty for no winner
	Turns      int             `json:"turns"`
	HP         [2]int          `json:"hp"`
	Diagnostic string          `json:"diagnostic,omitempty"`
	FinishedAt time.Time       `json:"finished_at"`
	Events     []log.GameEvent `json:"events,omitempty"`
}

// Summary is a Record without its event log.
type Summary struct {
	ID         string    `json:"id"`
	DeckA      string    `json:"deck_a"`
	DeckB      string    `json:"deck_b"`
	Winner     string    `json:"winner,omitempty"`
	Turns      int       `json:"turns"`
	FinishedAt time.Time `json:"finished_at"`
}

func (r *Record) Summary() Summary {
	return Summary{
		ID:         r.ID,
		DeckA:      r.DeckA,
		DeckB:      r.DeckB,
		Winner:     r.Winner,
		Turns:      r.Turns,
		FinishedAt: r.FinishedAt,
	}
}

// Repository persists replay records.
type Repository interface {
	// Save stores rec, replacing any record with the same ID.
	Save(ctx context.Context, rec *Record) error
	// Get returns the record, or a NotFound error.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns up to limit summaries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Summary, error)
}

const (
	errRecordNil = "record cannot be nil"
	errIDEmpty   = "record ID cannot be empty"
)
