// Package record builds the persisted run summary and stores it as JSON.
package record

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"go-lancers-notifier/internal/models"
)

const (
	RecordType = "全案件リスト"
	// HighPriorityScore is the score at which a listing counts as high priority.
	HighPriorityScore = 10
)

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type Distribution struct {
	TotalJobs             int     `json:"total_jobs"`
	NoSkillMatchCount     int     `json:"no_skill_match"`
	MultiSkillMatchCount  int     `json:"multi_skill_match"`
	HighPriorityCount     int     `json:"high_priority"`
	SkillMatchRatePercent float64 `json:"skill_match_rate"`
}

type Record struct {
	RunID        string               `json:"run_id"`
	Timestamp    time.Time            `json:"timestamp"`
	Count        int                  `json:"count"`
	Type         string               `json:"type"`
	SkillSummary []SkillCount         `json:"skill_summary"`
	Distribution Distribution         `json:"skill_distribution"`
	Jobs         []*models.JobListing `json:"jobs"`
}

// Build aggregates the ranked listings of one run.
func Build(jobs []*models.JobListing, now time.Time) Record {
	if jobs == nil {
		jobs = []*models.JobListing{}
	}
	return Record{
		RunID:        uuid.NewString(),
		Timestamp:    now,
		Count:        len(jobs),
		Type:         RecordType,
		SkillSummary: Summarize(jobs),
		Distribution: Distribute(jobs),
		Jobs:         jobs,
	}
}

// Summarize counts skill occurrences, most frequent first. Ties keep the order
// in which skills were first seen.
func Summarize(jobs []*models.JobListing) []SkillCount {
	index := map[string]int{}
	out := []SkillCount{}
	for _, j := range jobs {
		for _, m := range j.SkillMatches {
			i, ok := index[m.Skill]
			if !ok {
				i = len(out)
				index[m.Skill] = i
				out = append(out, SkillCount{Skill: m.Skill})
			}
			out[i].Count++
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Count > out[b].Count
	})
	return out
}

func Distribute(jobs []*models.JobListing) Distribution {
	d := Distribution{TotalJobs: len(jobs)}
	for _, j := range jobs {
		switch n := j.SkillCount(); {
		case n == 0:
			d.NoSkillMatchCount++
		case n >= 2:
			d.MultiSkillMatchCount++
		}
		if j.Score >= HighPriorityScore {
			d.HighPriorityCount++
		}
	}
	if d.TotalJobs > 0 {
		rate := float64(d.TotalJobs-d.NoSkillMatchCount) / float64(d.TotalJobs) * 100
		d.SkillMatchRatePercent = math.Round(rate*10) / 10
	}
	return d
}
