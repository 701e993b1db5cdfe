package rank

import (
	"testing"
	"time"

	"go-lancers-notifier/internal/models"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2026, 10, 13, 16, 0, 0, 0, time.UTC)

func job(title string, score, skills, applicants int, urgent bool, offset time.Duration) *models.JobListing {
	d := models.DefaultDetails()
	d.ApplicantCount = applicants
	d.Urgent = urgent
	matches := make([]models.SkillMatch, skills)
	for i := range matches {
		matches[i] = models.SkillMatch{Skill: title + string(rune('a'+i)), Tier: models.TierMid}
	}
	return &models.JobListing{
		Title:        title,
		Score:        score,
		SkillMatches: matches,
		Recruitment:  d,
		ScrapedAt:    base.Add(offset),
	}
}

func titles(jobs []*models.JobListing) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Title
	}
	return out
}

func TestRank_ZeroMatchPenalty(t *testing.T) {
	jobs := []*models.JobListing{
		job("unmatched-huge", 990, 0, 0, true, 0),
		job("matched-small", 10, 1, 50, false, 0),
	}
	Rank(jobs)
	assert.Equal(t, []string{"matched-small", "unmatched-huge"}, titles(jobs))
}

func TestRank_MoreSkillsFirstOnEqualScore(t *testing.T) {
	jobs := []*models.JobListing{
		job("one", 100, 1, 0, false, 0),
		job("three", 100, 3, 5, false, 0),
		job("two", 100, 2, 0, false, 0),
	}
	Rank(jobs)
	assert.Equal(t, []string{"three", "two", "one"}, titles(jobs))
}

func TestRank_UnknownApplicantsLast(t *testing.T) {
	unknown := job("unknown", 100, 2, 0, false, 0)
	unknown.Recruitment.ApplicantCountKnown = false
	jobs := []*models.JobListing{
		unknown,
		job("one-applicant", 100, 2, 1, false, 0),
	}
	Rank(jobs)
	assert.Equal(t, []string{"one-applicant", "unknown"}, titles(jobs))
}

func TestRank_UrgentThenOlderScrapeFirst(t *testing.T) {
	jobs := []*models.JobListing{
		job("late", 50, 1, 3, false, 2*time.Minute),
		job("early", 50, 1, 3, false, time.Minute),
		job("urgent", 50, 1, 3, true, 3*time.Minute),
	}
	Rank(jobs)
	assert.Equal(t, []string{"urgent", "early", "late"}, titles(jobs))
}

func TestRank_StableOnFullTie(t *testing.T) {
	jobs := []*models.JobListing{
		job("first", 50, 1, 3, false, 0),
		job("second", 50, 1, 3, false, 0),
		job("third", 50, 1, 3, false, 0),
	}
	Rank(jobs)
	assert.Equal(t, []string{"first", "second", "third"}, titles(jobs))
}
