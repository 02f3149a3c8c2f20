package game

// CardView is a read-only copy of one card instance.
type CardView struct {
	InstanceID int      `json:"instance_id"`
	CardID     string   `json:"card_id"`
	Name       string   `json:"name"`
	Rarity     string   `json:"rarity"`
	ATK        int      `json:"atk"`
	HP         int      `json:"hp"`
	MaxHP      int      `json:"max_hp"`
	CD         int      `json:"cd"`
	BaseCD     int      `json:"base_cd"`
	Traits     []string `json:"traits,omitempty"`
	Token      bool     `json:"token,omitempty"`
}

// SideView is a read-only copy of one side's zones.
type SideView struct {
	HP      int         `json:"hp"`
	Deck    int         `json:"deck"`
	Hand    []CardView  `json:"hand"`
	Waiting []*CardView `json:"waiting"` // WaitingSlots entries, nil when empty
	Battle  []*CardView `json:"battle"`  // BattleSlots entries, nil when empty
	Discard []CardView  `json:"discard"`
}

// Snapshot is a read-only view of the whole battle.
type Snapshot struct {
	Turn        int         `json:"turn"`
	Active      Side        `json:"active"`
	Phase       string      `json:"phase"`
	CardsPlayed int         `json:"cards_played"`
	MaxPlays    int         `json:"max_plays"`
	Sides       [2]SideView `json:"sides"`
	Over        bool        `json:"over"`
	Winner      *Side       `json:"winner,omitempty"`
	Diagnostic  string      `json:"diagnostic,omitempty"`
}

func viewOf(c *CardInstance) CardView {
	return CardView{
		InstanceID: c.ID,
		CardID:     c.Def.ID,
		Name:       c.Name(),
		Rarity:     c.Def.Rarity.String(),
		ATK:        c.ATK,
		HP:         c.HP,
		MaxHP:      c.MaxHP,
		CD:         c.CD,
		BaseCD:     c.Def.CD,
		Traits:     append([]string(nil), c.Def.Traits...),
		Token:      c.Token,
	}
}

func slotViews(cards []*CardInstance) []*CardView {
	out := make([]*CardView, len(cards))
	for i, c := range cards {
		if c != nil {
			v := viewOf(c)
			out[i] = &v
		}
	}
	return out
}

func listViews(cards []*CardInstance) []CardView {
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = viewOf(c)
	}
	return out
}

// ObserveState copies the current state. The snapshot shares nothing with
// the engine.
func (b *Battle) ObserveState() Snapshot {
	s := Snapshot{
		Turn:        b.Turn,
		Active:      b.Active,
		Phase:       b.Phase.String(),
		CardsPlayed: b.CardsPlayed,
		MaxPlays:    b.cfg.MaxPlaysPerTurn,
		Over:        b.Phase == PhaseGameOver,
	}
	for side, z := range b.Board.Sides {
		s.Sides[side] = SideView{
			HP:      b.HP[side],
			Deck:    len(z.Deck),
			Hand:    listViews(z.Hand),
			Waiting: slotViews(z.Waiting[:]),
			Battle:  slotViews(z.Battle[:]),
			Discard: listViews(z.Discard),
		}
	}
	if w, ok := b.Winner(); ok {
		s.Winner = &w
	}
	if b.diagnostic != nil {
		s.Diagnostic = b.diagnostic.Error()
	}
	return s
}
