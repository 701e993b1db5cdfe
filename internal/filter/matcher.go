package filter

import (
	"strings"

	"go-lancers-notifier/internal/models"
)

// BonusSkill is a near-synonym matched after the taxonomy.
type BonusSkill struct {
	Keyword string           `yaml:"keyword" json:"keyword"`
	Tier    models.SkillTier `yaml:"tier" json:"tier"`
}

// Matcher finds taxonomy skills in titles by case-insensitive substring.
// Short keywords can false-positive (e.g. "AI" inside other words); that
// is accepted.
type Matcher struct {
	taxonomy models.Taxonomy
	bonus    []BonusSkill
}

func NewMatcher(taxonomy models.Taxonomy, bonus []BonusSkill) *Matcher {
	return &Matcher{
		taxonomy: taxonomy,
		bonus:    bonus,
	}
}

// Match returns every skill contained in the title: taxonomy hits in tier
// order, then bonus hits, deduplicated by skill name (first occurrence wins).
func (m *Matcher) Match(title string) []models.SkillMatch {
	text := strings.ToLower(title)

	var matches []models.SkillMatch
	for _, tk := range m.taxonomy {
		for _, kw := range tk.Keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				matches = append(matches, models.SkillMatch{Skill: kw, Tier: tk.Tier})
			}
		}
	}

	for _, b := range m.bonus {
		if b.Keyword != "" && strings.Contains(text, strings.ToLower(b.Keyword)) {
			matches = append(matches, models.SkillMatch{Skill: b.Keyword, Tier: b.Tier})
		}
	}

	seen := make(map[string]bool, len(matches))
	unique := make([]models.SkillMatch, 0, len(matches))
	for _, match := range matches {
		if seen[match.Skill] {
			continue
		}
		seen[match.Skill] = true
		unique = append(unique, match)
	}
	return unique
}
