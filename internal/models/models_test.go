package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSkillTier(t *testing.T) {
	weights := []int{100, 50, 20, 10, 5}
	for i, tier := range AllTiers {
		assert.Equal(t, weights[i], tier.Weight(), tier.String())
		assert.NotEmpty(t, tier.Symbol())
	}
	assert.Equal(t, 0, SkillTier(9).Weight())
	assert.Equal(t, "SkillTier(9)", SkillTier(9).String())
}

func TestParseSkillTier(t *testing.T) {
	tests := []struct {
		in      string
		want    SkillTier
		wantErr bool
	}{
		{in: "ultra", want: TierUltra},
		{in: " Minimal ", want: TierMinimal},
		{in: "中優先度", want: TierMid},
		{in: "最低優先度", want: TierMinimal},
		{in: "urgent", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSkillTier(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSkillTier_Encoding(t *testing.T) {
	b, err := json.Marshal(SkillMatch{Skill: "Python", Tier: TierUltra})
	require.NoError(t, err)
	assert.JSONEq(t, `{"skill":"Python","priority":"ultra"}`, string(b))

	var tax Taxonomy
	require.NoError(t, yaml.Unmarshal([]byte("- tier: high\n  keywords: [bot, Java]\n"), &tax))
	require.Len(t, tax, 1)
	assert.Equal(t, TierHigh, tax[0].Tier)

	assert.Error(t, yaml.Unmarshal([]byte("- tier: urgent\n  keywords: [bot]\n"), &tax))
}

func TestTaxonomy_Validate(t *testing.T) {
	assert.ErrorIs(t, Taxonomy{}.Validate(), ErrEmptyTaxonomy)
	assert.ErrorIs(t, Taxonomy{{Tier: TierUltra}}.Validate(), ErrEmptyTaxonomy)
	assert.Error(t, Taxonomy{{Tier: TierUltra, Keywords: []string{" "}}}.Validate())
	assert.Error(t, Taxonomy{{Tier: SkillTier(7), Keywords: []string{"Go"}}}.Validate())
	assert.NoError(t, Taxonomy{{Tier: TierLow, Keywords: []string{"Go"}}}.Validate())
}

func TestTaxonomy_Conflicts(t *testing.T) {
	tax := Taxonomy{
		{Tier: TierUltra, Keywords: []string{"API", "Python"}},
		{Tier: TierMid, Keywords: []string{"api", "ツール"}},
	}
	conflicts := tax.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, Conflict{Keyword: "api", Kept: TierUltra, Ignored: TierMid}, conflicts[0])
	assert.Equal(t, 4, tax.Len())
}

func TestDetails(t *testing.T) {
	d := DefaultDetails()
	assert.Equal(t, 0, d.SortApplicants())
	d.ApplicantCountKnown = false
	assert.Equal(t, UnknownCount, d.SortApplicants())

	d.MarkPartial("price")
	d.MarkPartial("deadline")
	assert.True(t, d.Partial)
	assert.Equal(t, "price; deadline", d.PartialReason)
}

func TestRecruitmentDetails_UnmarshalKeepsDefaults(t *testing.T) {
	var c StaticCandidate
	require.NoError(t, json.Unmarshal([]byte(`{"text":"Python API 開発","href":"/work/detail/1","details":{"price":"100,000円"}}`), &c))
	require.NotNil(t, c.RawDetails)

	want := DefaultDetails()
	want.Price = "100,000円"
	assert.Equal(t, want, *c.RawDetails)

	var d RecruitmentDetails
	require.NoError(t, json.Unmarshal([]byte(`{"applicant_count":3,"status":"募集終了"}`), &d))
	assert.True(t, d.ApplicantCountKnown)
	assert.Equal(t, 3, d.ApplicantCount)
	assert.Equal(t, "募集終了", d.Status)
	assert.Equal(t, 1, d.RecruitmentCount)

	require.NoError(t, json.Unmarshal([]byte(`{"applicant_count_known":false}`), &d))
	assert.False(t, d.ApplicantCountKnown)
	assert.Equal(t, 0, d.ApplicantCount)

	assert.Error(t, json.Unmarshal([]byte(`{"applicant_count":"many"}`), &d))
}
