package app

import "go-lancers-notifier/internal/models"

// SampleCandidates are fixed listings for notify-test and previews.
func SampleCandidates() []models.Candidate {
	urgent := models.DefaultDetails()
	urgent.Price = "50,000円 / 固定"
	urgent.Deadline = "あと3日"
	urgent.Urgent = true

	crowded := models.DefaultDetails()
	crowded.Price = "100,000円 ~ 300,000円"
	crowded.ApplicantCount = 8

	return []models.Candidate{
		models.StaticCandidate{
			RawText:    "NEW ChatGPT API を使った業務自動化ツールの開発",
			RawHref:    "/work/detail/0000001",
			RawDetails: &urgent,
		},
		models.StaticCandidate{
			RawText:    "Next.js と TypeScript による社内管理システム開発",
			RawHref:    "/work/detail/0000002",
			RawDetails: &crowded,
		},
		models.StaticCandidate{
			RawText: "WordPress サイトの軽微な修正",
			RawHref: "/work/detail/0000003",
		},
	}
}
