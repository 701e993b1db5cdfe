package models

import (
	"encoding/json"
	"time"
)

const (
	NoPrice      = "価格情報なし"
	NoDeadline   = "期限情報なし"
	NoClient     = "依頼者情報なし"
	StatusOpen   = "募集中"
	CategorySys  = "システム開発"
	UnknownCount = 999
)

// SkillMatch is one taxonomy or bonus keyword found in a listing title.
type SkillMatch struct {
	Skill string    `json:"skill"`
	Tier  SkillTier `json:"priority"`
}

// RecruitmentDetails are best-effort attributes scraped next to a listing link.
// Partial is set when extraction failed part way and defaults were kept.
type RecruitmentDetails struct {
	Price               string `json:"price"`
	Deadline            string `json:"deadline"`
	Urgent              bool   `json:"urgency"`
	ApplicantCount      int    `json:"applicant_count"`
	ApplicantCountKnown bool   `json:"applicant_count_known"`
	RecruitmentCount    int    `json:"recruitment_count"`
	ClientName          string `json:"client_name"`
	Status              string `json:"status"`
	Category            string `json:"category"`
	Partial             bool   `json:"partial,omitempty"`
	PartialReason       string `json:"partial_reason,omitempty"`
}

// DefaultDetails returns the values used when nothing could be extracted.
func DefaultDetails() RecruitmentDetails {
	return RecruitmentDetails{
		Price:               NoPrice,
		Deadline:            NoDeadline,
		ApplicantCount:      0,
		ApplicantCountKnown: true,
		RecruitmentCount:    1,
		ClientName:          NoClient,
		Status:              StatusOpen,
		Category:            CategorySys,
	}
}

// UnmarshalJSON starts from DefaultDetails, so fields missing from the input
// keep their defaults instead of zero values.
func (d *RecruitmentDetails) UnmarshalJSON(data []byte) error {
	type plain RecruitmentDetails
	p := plain(DefaultDetails())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = RecruitmentDetails(p)
	return nil
}

// MarkPartial flags the details as incomplete.
func (d *RecruitmentDetails) MarkPartial(reason string) {
	d.Partial = true
	if d.PartialReason == "" {
		d.PartialReason = reason
		return
	}
	d.PartialReason += "; " + reason
}

// SortApplicants is the applicant count used for ordering; unknown counts sort last.
func (d RecruitmentDetails) SortApplicants() int {
	if !d.ApplicantCountKnown {
		return UnknownCount
	}
	return d.ApplicantCount
}

// JobListing is a normalized, scored listing. Only the ranker reorders
// listings; fields are not rewritten after scoring.
type JobListing struct {
	Title        string             `json:"title"`
	Link         string             `json:"link"`
	Recruitment  RecruitmentDetails `json:"recruitment"`
	SkillMatches []SkillMatch       `json:"skill_matches"`
	Score        int                `json:"priority_score"`
	ScrapedAt    time.Time          `json:"scraped_at"`
}

func (j *JobListing) SkillCount() int {
	return len(j.SkillMatches)
}
