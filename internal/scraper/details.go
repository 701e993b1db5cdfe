package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-lancers-notifier/internal/filter"
	"go-lancers-notifier/internal/models"
)

// ContainerSelector finds the listing card around a detail link.
const ContainerSelector = ".c-media, .p-jobList__item, article, li"

const (
	priceSelector     = ".c-media__price, .price, .budget, [class*='price']"
	deadlineSelector  = ".c-media__deadline, .deadline, [class*='deadline']"
	applicantSelector = ".c-media__applicant, .applicant, [class*='applicant']"
)

// ParseDetails extracts recruitment details from a listing card's HTML.
// It never fails: anything missing keeps its default, and extraction
// problems are recorded as partial.
func ParseDetails(html string) models.RecruitmentDetails {
	details := models.DefaultDetails()
	if strings.TrimSpace(html) == "" {
		details.MarkPartial("listing container not found")
		return details
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		details.MarkPartial("parse container: " + err.Error())
		return details
	}

	if text := firstText(doc, priceSelector); strings.Contains(text, "円") {
		details.Price = filter.CleanPrice(text)
	}

	if text := firstText(doc, deadlineSelector); text != "" {
		details.Deadline = text
		details.Urgent = filter.IsUrgent(text)
	}

	if sel := doc.Find(applicantSelector).First(); sel.Length() > 0 {
		switch nums := filter.FirstInts(sel.Text(), 2); len(nums) {
		case 2:
			details.ApplicantCount = nums[0]
			details.RecruitmentCount = nums[1]
		case 1:
			details.ApplicantCount = nums[0]
		default:
			details.ApplicantCountKnown = false
			details.MarkPartial("applicant count not numeric")
		}
	}

	return details
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}
