package record

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-lancers-notifier/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(link string, score int, skills ...string) *models.JobListing {
	j := &models.JobListing{
		Title:        "title " + link,
		Link:         link,
		Recruitment:  models.DefaultDetails(),
		Score:        score,
		SkillMatches: []models.SkillMatch{},
	}
	for _, s := range skills {
		j.SkillMatches = append(j.SkillMatches, models.SkillMatch{Skill: s, Tier: models.TierMid})
	}
	return j
}

func TestSummarize(t *testing.T) {
	jobs := []*models.JobListing{
		listing("a", 50, "Python", "API"),
		listing("b", 30, "Go", "API"),
		listing("c", 5),
		listing("d", 20, "Go", "API", "開発"),
	}

	got := Summarize(jobs)
	assert.Equal(t, []SkillCount{
		{"API", 3},
		{"Go", 2},
		{"Python", 1},
		{"開発", 1},
	}, got)
}

func TestDistribute(t *testing.T) {
	jobs := []*models.JobListing{
		listing("a", 50, "Python", "API"),
		listing("b", 9, "Go"),
		listing("c", 10),
	}

	d := Distribute(jobs)
	assert.Equal(t, Distribution{
		TotalJobs:             3,
		NoSkillMatchCount:     1,
		MultiSkillMatchCount:  1,
		HighPriorityCount:     2,
		SkillMatchRatePercent: 66.7,
	}, d)
}

func TestDistribute_Empty(t *testing.T) {
	assert.Equal(t, Distribution{}, Distribute(nil))
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 10, 13, 16, 5, 0, 0, time.UTC)
	r := Build([]*models.JobListing{listing("a", 50, "Go")}, now)

	_, err := uuid.Parse(r.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 1, r.Count)
	assert.Equal(t, RecordType, r.Type)
	assert.Equal(t, "all_jobs_20261013_1605.json", FileName(r))

	empty := Build(nil, now)
	assert.NotNil(t, empty.Jobs)
	assert.Zero(t, empty.Count)
}

func TestFileStore_SaveAndLatest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "records")
	store := NewFileStore(dir)

	_, err := store.Latest()
	assert.ErrorIs(t, err, ErrNoRecords)

	older := Build([]*models.JobListing{listing("a", 50, "Go")}, time.Date(2026, 10, 6, 16, 0, 0, 0, time.UTC))
	newer := Build([]*models.JobListing{listing("b", 70, "Python"), listing("c", 1)}, time.Date(2026, 10, 13, 16, 0, 0, 0, time.UTC))

	_, err = store.Save(newer)
	require.NoError(t, err)
	path, err := store.Save(older)
	require.NoError(t, err)
	assert.FileExists(t, path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	got, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, newer.RunID, got.RunID)
	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Jobs, 2)
	assert.Equal(t, "b", got.Jobs[0].Link)
}
