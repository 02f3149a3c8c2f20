package game

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"

	"github.com/peterkuimelis/cardclash/internal/errors"
)

// catalogEntry is one record in <rarity>/cards.json.
type catalogEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ATK         int      `json:"atk"`
	HP          int      `json:"hp"`
	CD          int      `json:"cd"`
	Traits      []string `json:"traits"`
	Description string   `json:"description"`
}

type catalogKey struct {
	rarity Rarity
	id     string
}

// Catalog holds every card definition, keyed by rarity and id.
type Catalog struct {
	cards  map[catalogKey]*CardDef
	skills *SkillCatalog
	logger *slog.Logger
}

func NewCatalog(skills *SkillCatalog) *Catalog {
	if skills == nil {
		skills = NewSkillCatalog()
	}
	return &Catalog{
		cards:  make(map[catalogKey]*CardDef),
		skills: skills,
		logger: slog.Default(),
	}
}

// LoadCatalog reads a catalog directory laid out as <root>/<rarity>/cards.json.
func LoadCatalog(root string, skills *SkillCatalog) (*Catalog, error) {
	return LoadCatalogFS(os.DirFS(root), skills)
}

// LoadCatalogFS reads a catalog from fsys. Missing rarity directories are
// skipped.
func LoadCatalogFS(fsys fs.FS, skills *SkillCatalog) (*Catalog, error) {
	c := NewCatalog(skills)
	for _, r := range Rarities() {
		file := path.Join(r.String(), "cards.json")
		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		var entries []catalogEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		for _, e := range entries {
			if e.ID == "" {
				return nil, fmt.Errorf("%s: card with empty id", file)
			}
			c.Add(&CardDef{
				ID:          e.ID,
				Name:        e.Name,
				Rarity:      r,
				ATK:         e.ATK,
				HP:          e.HP,
				CD:          e.CD,
				Traits:      e.Traits,
				Description: e.Description,
			})
		}
	}
	return c, nil
}

// Add resolves def's traits and stores it, replacing any card with the same
// rarity and id.
func (c *Catalog) Add(def *CardDef) *CardDef {
	if def.Name == "" {
		def.Name = def.ID
	}
	def.Skills = c.skills.Resolve(def.Traits)
	c.cards[catalogKey{def.Rarity, def.ID}] = def
	return def
}

// Lookup finds a card by rarity and id.
func (c *Catalog) Lookup(r Rarity, id string) (*CardDef, bool) {
	def, ok := c.cards[catalogKey{r, id}]
	return def, ok
}

func (c *Catalog) Len() int {
	return len(c.cards)
}

// Cards returns every definition ordered by rarity, then id.
func (c *Catalog) Cards() []*CardDef {
	out := make([]*CardDef, 0, len(c.cards))
	for _, def := range c.cards {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rarity != out[j].Rarity {
			return out[i].Rarity < out[j].Rarity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ArtPath is the card image path relative to the catalog root.
func ArtPath(def *CardDef) string {
	return path.Join(def.Rarity.String(), def.ID+".png")
}

// --- Deck manifest ---

// ManifestEntry is one card of a JSON deck manifest. The optional fields
// stand in for catalog stats when the catalog lacks the card.
type ManifestEntry struct {
	ID     string  `json:"id" yaml:"id"`
	Path   string  `json:"path,omitempty" yaml:"path,omitempty"`
	Rarity string  `json:"rarity" yaml:"rarity"`
	Name   *string `json:"name,omitempty" yaml:"name,omitempty"`
	ATK    *int    `json:"atk,omitempty" yaml:"atk,omitempty"`
	HP     *int    `json:"hp,omitempty" yaml:"hp,omitempty"`
	CD     *int    `json:"cd,omitempty" yaml:"cd,omitempty"`
}

// ParseManifest decodes a JSON deck manifest.
func ParseManifest(data []byte) ([]ManifestEntry, error) {
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse deck manifest")
	}
	return entries, nil
}

// Resolve turns manifest entries into definitions. An entry the catalog
// lacks becomes a synthetic card and a CatalogMiss in the returned slice;
// resolution always yields one definition per entry.
func (c *Catalog) Resolve(entries []ManifestEntry) ([]*CardDef, []error) {
	defs := make([]*CardDef, 0, len(entries))
	var misses []error
	for _, e := range entries {
		r, rerr := ParseRarity(e.Rarity)
		if rerr == nil {
			if def, ok := c.Lookup(r, e.ID); ok {
				defs = append(defs, def)
				continue
			}
		}
		miss := errors.CatalogMissf("%s/%s not in catalog", e.Rarity, e.ID).
			WithMeta("id", e.ID).
			WithMeta("rarity", e.Rarity)
		c.logger.Warn("catalog miss, using synthetic card", "id", e.ID, "rarity", e.Rarity)
		misses = append(misses, miss)
		defs = append(defs, syntheticCard(e, r))
	}
	return defs, misses
}

func syntheticCard(e ManifestEntry, r Rarity) *CardDef {
	def := &CardDef{ID: e.ID, Name: e.ID, Rarity: r, HP: 1, Synthetic: true}
	if e.Name != nil && *e.Name != "" {
		def.Name = *e.Name
	}
	if e.ATK != nil {
		def.ATK = max(0, *e.ATK)
	}
	if e.HP != nil {
		def.HP = max(1, *e.HP)
	}
	if e.CD != nil {
		def.CD = max(0, *e.CD)
	}
	return def
}
