package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-lancers-notifier/internal/models"
	"go-lancers-notifier/internal/record"
)

// integration test: needs a disposable Postgres in TEST_DATABASE_URL
func TestRepository_SaveRun(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if testing.Short() || dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := ConnectDB(ctx, dsn)
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Migrate(ctx))

	link := "https://www.lancers.jp/work/detail/" + uuid.NewString()
	job := &models.JobListing{
		Title:        "Python API 開発",
		Link:         link,
		Recruitment:  models.DefaultDetails(),
		SkillMatches: []models.SkillMatch{{Skill: "Python", Tier: models.TierUltra}},
		Score:        190,
		ScrapedAt:    time.Now().UTC(),
	}

	first := record.Build([]*models.JobListing{job}, time.Now().UTC())
	require.NoError(t, repo.SaveRun(ctx, first, 1))

	job.Score = 200
	second := record.Build([]*models.JobListing{job}, time.Now().UTC())
	require.NoError(t, repo.SaveRun(ctx, second, 1))

	got, err := repo.GetListing(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, 200, got.Score)
	assert.Equal(t, first.RunID, got.FirstRunID)
	assert.Equal(t, second.RunID, got.LastRunID)

	runs, err := repo.RecentRuns(ctx, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, runs)

	_, err = repo.GetListing(ctx, link+"-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
