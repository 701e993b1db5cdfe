// Package rank orders accepted listings for notification.
package rank

import (
	"sort"

	"go-lancers-notifier/internal/models"
)

// NoSkillPenalty is subtracted from the score of listings without skill
// matches so they always sort after matched listings.
const NoSkillPenalty = 1000

type key struct {
	score      int
	skills     int
	applicants int
	notUrgent  bool
	scrapedAt  int64
}

func keyOf(j *models.JobListing) key {
	score := j.Score
	if j.SkillCount() == 0 {
		score -= NoSkillPenalty
	}
	return key{
		score:      score,
		skills:     j.SkillCount(),
		applicants: j.Recruitment.SortApplicants(),
		notUrgent:  !j.Recruitment.Urgent,
		scrapedAt:  j.ScrapedAt.UnixNano(),
	}
}

// less orders best first: higher adjusted score, more skills, fewer
// applicants, urgent first, then older scrape time first.
func less(a, b key) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.skills != b.skills {
		return a.skills > b.skills
	}
	if a.applicants != b.applicants {
		return a.applicants < b.applicants
	}
	if a.notUrgent != b.notUrgent {
		return !a.notUrgent
	}
	return a.scrapedAt < b.scrapedAt
}

// Rank sorts jobs in place; listings equal on every key keep input order.
func Rank(jobs []*models.JobListing) {
	keys := make(map[*models.JobListing]key, len(jobs))
	for _, j := range jobs {
		keys[j] = keyOf(j)
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		return less(keys[jobs[i]], keys[jobs[k]])
	})
}
