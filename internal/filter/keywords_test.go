package filter

import (
	"testing"

	"go-lancers-notifier/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIncluder_Decide(t *testing.T) {
	includer := NewIncluder([]string{"ロゴ", "CAD"}, DefaultClosedMarkers(), []string{"bot"})

	listing := func(title string, score int, matches ...models.SkillMatch) *models.JobListing {
		return &models.JobListing{
			Title:        title,
			Score:        score,
			SkillMatches: matches,
			Recruitment:  models.DefaultDetails(),
		}
	}
	python := models.SkillMatch{Skill: "Python", Tier: models.TierUltra}

	tests := []struct {
		name     string
		job      *models.JobListing
		status   string
		accepted bool
		reason   string
	}{
		{name: "skill match", job: listing("Python スクリプト修正", 0, python), accepted: true},
		{name: "score threshold", job: listing("経理書類の整理作業", MinScore), accepted: true},
		{name: "bare keyword path", job: listing("Slack BOT の改修依頼", 0), accepted: true},
		{name: "low score without keywords", job: listing("経理書類の整理作業", MinScore-1), reason: ReasonLowScore},
		{name: "excluded keyword", job: listing("会社ロゴ作成 Python", 500, python), reason: ReasonExcluded},
		{name: "excluded case insensitive", job: listing("cad 図面の作成依頼", 500), reason: ReasonExcluded},
		{name: "too short", job: listing("abc", 500, python), reason: ReasonTooShort},
		{name: "closed status", job: listing("Python スクリプト修正", 500, python), status: "募集終了", reason: ReasonClosed},
		{name: "closed english", job: listing("Python スクリプト修正", 500, python), status: "Closed", reason: ReasonClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.status != "" {
				tt.job.Recruitment.Status = tt.status
			}
			accepted, reason := includer.Decide(tt.job)
			assert.Equal(t, tt.accepted, accepted)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestIsUrgent(t *testing.T) {
	assert.True(t, IsUrgent("急募 あと2日"))
	assert.True(t, IsUrgent("至急対応"))
	assert.False(t, IsUrgent("あと10日"))
	assert.False(t, IsUrgent(models.NoDeadline))
}

func TestDefaultTaxonomyIsValid(t *testing.T) {
	taxonomy := DefaultTaxonomy()
	assert.NoError(t, taxonomy.Validate())
	assert.Empty(t, taxonomy.Conflicts())
}
