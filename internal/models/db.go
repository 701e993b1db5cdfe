package models

import (
	"time"
)

// RunRow is a persisted summary of one notifier run.
type RunRow struct {
	ID                    string    `json:"id"`
	StartedAt             time.Time `json:"started_at"`
	TotalJobs             int       `json:"total_jobs"`
	Displayed             int       `json:"displayed"`
	NoSkillMatchCount     int       `json:"no_skill_match"`
	MultiSkillMatchCount  int       `json:"multi_skill_match"`
	HighPriorityCount     int       `json:"high_priority"`
	SkillMatchRatePercent float64   `json:"skill_match_rate"`
	CreatedAt             time.Time `json:"created_at"`
}

// ListingRow is a listing as stored in the listings table.
type ListingRow struct {
	ID         string    `json:"id"`
	Link       string    `json:"link"`
	Title      string    `json:"title"`
	Price      string    `json:"price"`
	Score      int       `json:"priority_score"`
	SkillCount int       `json:"skill_count"`
	FirstRunID string    `json:"first_run_id"`
	LastRunID  string    `json:"last_run_id"`
	ScrapedAt  time.Time `json:"scraped_at"`
	CreatedAt  time.Time `json:"created_at"`
}
