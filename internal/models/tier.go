package models

import (
	"fmt"
	"strings"
)

// SkillTier is a priority bucket for taxonomy keywords, highest first.
type SkillTier int

const (
	TierUltra SkillTier = iota
	TierHigh
	TierMid
	TierLow
	TierMinimal
)

// AllTiers lists tiers from highest to lowest priority.
var AllTiers = []SkillTier{TierUltra, TierHigh, TierMid, TierLow, TierMinimal}

var tierNames = [...]string{"ultra", "high", "mid", "low", "minimal"}

var tierWeights = [...]int{100, 50, 20, 10, 5}

var tierSymbols = [...]string{"🔥", "★", "◆", "◇", "○"}

// Japanese labels accepted in configuration files
var tierLabels = map[string]SkillTier{
	"超高優先度": TierUltra,
	"高優先度":  TierHigh,
	"中優先度":  TierMid,
	"低優先度":  TierLow,
	"最低優先度": TierMinimal,
}

func (t SkillTier) Valid() bool {
	return t >= TierUltra && t <= TierMinimal
}

func (t SkillTier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("SkillTier(%d)", int(t))
	}
	return tierNames[t]
}

// Weight is the score contribution of a single match in this tier.
func (t SkillTier) Weight() int {
	if !t.Valid() {
		return 0
	}
	return tierWeights[t]
}

// Symbol is the glyph used in compact skill summaries.
func (t SkillTier) Symbol() string {
	if !t.Valid() {
		return ""
	}
	return tierSymbols[t]
}

// ParseSkillTier accepts the English tier names and the Japanese labels.
func ParseSkillTier(s string) (SkillTier, error) {
	s = strings.TrimSpace(s)
	for i, name := range tierNames {
		if strings.EqualFold(s, name) {
			return SkillTier(i), nil
		}
	}
	if t, ok := tierLabels[s]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown skill tier %q", s)
}

func (t SkillTier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid skill tier %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *SkillTier) UnmarshalText(text []byte) error {
	parsed, err := ParseSkillTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
