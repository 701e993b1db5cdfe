package filter

import (
	"strings"

	"go-lancers-notifier/internal/models"
)

// KeywordBonus adds Points when Keyword appears in the lower-cased title.
type KeywordBonus struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Points  int    `yaml:"points" json:"points"`
}

// Breakdown is the per-component contribution to a listing score.
type Breakdown struct {
	Tiers       int `json:"tiers"`
	MatchCount  int `json:"match_count"`
	Keywords    int `json:"keywords"`
	Urgency     int `json:"urgency"`
	Competition int `json:"competition"`
	Value       int `json:"value"`
}

func (b Breakdown) Total() int {
	return b.Tiers + b.MatchCount + b.Keywords + b.Urgency + b.Competition + b.Value
}

// Scorer computes listing scores. It holds no mutable state.
type Scorer struct {
	bonuses []KeywordBonus
}

func NewScorer(bonuses []KeywordBonus) *Scorer {
	return &Scorer{bonuses: bonuses}
}

// Score is the additive listing score; it is never negative and has no cap.
func (s *Scorer) Score(title string, details models.RecruitmentDetails, matches []models.SkillMatch) int {
	return s.Explain(title, details, matches).Total()
}

func (s *Scorer) Explain(title string, details models.RecruitmentDetails, matches []models.SkillMatch) Breakdown {
	var b Breakdown

	for _, m := range matches {
		b.Tiers += m.Tier.Weight()
	}

	switch n := len(matches); {
	case n >= 3:
		b.MatchCount = 50
	case n >= 2:
		b.MatchCount = 25
	case n >= 1:
		b.MatchCount = 10
	}

	text := strings.ToLower(title)
	for _, kb := range s.bonuses {
		if kb.Keyword != "" && strings.Contains(text, strings.ToLower(kb.Keyword)) {
			b.Keywords += kb.Points
		}
	}

	if details.Urgent {
		b.Urgency = 15
	}

	if details.ApplicantCountKnown {
		switch {
		case details.ApplicantCount == 0:
			b.Competition = 10
		case details.ApplicantCount <= 2:
			b.Competition = 5
		}
	}

	switch amount := MaxPrice(details.Price); {
	case amount >= 500000:
		b.Value = 15
	case amount >= 100000:
		b.Value = 8
	case amount >= 50000:
		b.Value = 3
	}

	return b
}
