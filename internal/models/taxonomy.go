package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyTaxonomy = errors.New("skill taxonomy is empty")

// TierKeywords is one tier of the taxonomy with its keywords in match order.
type TierKeywords struct {
	Tier     SkillTier `yaml:"tier" json:"tier"`
	Keywords []string  `yaml:"keywords" json:"keywords"`
}

// Taxonomy maps tiers to keyword lists. Entries are kept in tier order.
type Taxonomy []TierKeywords

// Len returns the total number of keywords across all tiers.
func (t Taxonomy) Len() int {
	n := 0
	for _, tk := range t {
		n += len(tk.Keywords)
	}
	return n
}

// Conflict describes a keyword configured in more than one tier.
type Conflict struct {
	Keyword string
	Kept    SkillTier
	Ignored SkillTier
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: kept in %s, ignored in %s", c.Keyword, c.Kept, c.Ignored)
}

// Conflicts reports keywords that appear in more than one tier. The first
// tier wins during matching; callers should surface these to the operator.
func (t Taxonomy) Conflicts() []Conflict {
	seen := make(map[string]SkillTier)
	var conflicts []Conflict
	for _, tk := range t {
		for _, kw := range tk.Keywords {
			key := strings.ToLower(kw)
			if first, ok := seen[key]; ok {
				if first != tk.Tier {
					conflicts = append(conflicts, Conflict{Keyword: kw, Kept: first, Ignored: tk.Tier})
				}
				continue
			}
			seen[key] = tk.Tier
		}
	}
	return conflicts
}

// Validate checks the taxonomy is usable: non-empty and every tier known.
func (t Taxonomy) Validate() error {
	if t.Len() == 0 {
		return ErrEmptyTaxonomy
	}
	for _, tk := range t {
		if !tk.Tier.Valid() {
			return fmt.Errorf("taxonomy: invalid skill tier %d", int(tk.Tier))
		}
		for _, kw := range tk.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("taxonomy: empty keyword in tier %s", tk.Tier)
			}
		}
	}
	return nil
}
