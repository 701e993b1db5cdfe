package models

import "context"

// Candidate is one raw posting vended by a fetcher. Every accessor may fail
// or return empty values.
type Candidate interface {
	Text() (string, error)
	Href() (string, error)
	Details(ctx context.Context) (RecruitmentDetails, error)
}

// StaticCandidate is a Candidate with pre-extracted values.
type StaticCandidate struct {
	RawText    string              `json:"text"`
	RawHref    string              `json:"href"`
	RawDetails *RecruitmentDetails `json:"details,omitempty"`
	DetailsErr error               `json:"-"`
}

func (c StaticCandidate) Text() (string, error) { return c.RawText, nil }

func (c StaticCandidate) Href() (string, error) { return c.RawHref, nil }

func (c StaticCandidate) Details(context.Context) (RecruitmentDetails, error) {
	if c.DetailsErr != nil {
		return RecruitmentDetails{}, c.DetailsErr
	}
	if c.RawDetails == nil {
		return DefaultDetails(), nil
	}
	return *c.RawDetails, nil
}
