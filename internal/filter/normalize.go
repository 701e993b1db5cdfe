package filter

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go-lancers-notifier/internal/models"

	"golang.org/x/text/unicode/norm"
)

// MinTitleLength is the shortest title (in characters) kept after cleaning.
const MinTitleLength = 5

var (
	ErrInvalidTitle = errors.New("title is empty or too short after cleaning")
	ErrMissingLink  = errors.New("candidate has no link")
)

var (
	spaceRegex    = regexp.MustCompile(`\s+`)
	newBadgeRegex = regexp.MustCompile(`(?i)^(NEW\s*)+`)
	counterRegex  = regexp.MustCompile(`^\d+回目\s*`)
	yenSepRegex   = regexp.MustCompile(`円\s*/\s*`)
	digitsRegex   = regexp.MustCompile(`\d+`)
)

// normalizeWidth folds full-width and compatibility characters (NFKC).
func normalizeWidth(s string) string {
	return norm.NFKC.String(s)
}

func collapseSpaces(s string) string {
	return spaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// CleanTitle turns raw link text into a canonical title. Leading "NEW"
// badges and "N回目" counters are removed.
func CleanTitle(raw string) (string, error) {
	title := collapseSpaces(normalizeWidth(raw))
	title = newBadgeRegex.ReplaceAllString(title, "")
	title = counterRegex.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)

	if utf8.RuneCountInString(title) < MinTitleLength {
		return "", ErrInvalidTitle
	}
	return title, nil
}

// CleanPrice normalizes budget text. Text without a yen marker yields the
// "no data" sentinel.
func CleanPrice(raw string) string {
	price := normalizeWidth(raw)
	if !strings.Contains(price, "円") {
		return models.NoPrice
	}
	price = collapseSpaces(price)
	return yenSepRegex.ReplaceAllString(price, "円 / ")
}

// MaxPrice returns the largest integer amount in the price text, ignoring
// thousands separators. Text without digits yields 0.
func MaxPrice(price string) int {
	text := strings.ReplaceAll(normalizeWidth(price), ",", "")
	highest := 0
	for _, run := range digitsRegex.FindAllString(text, -1) {
		n, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}

// FirstInts returns up to n integers found in the text, in order.
func FirstInts(text string, n int) []int {
	var out []int
	for _, run := range digitsRegex.FindAllString(normalizeWidth(text), -1) {
		if len(out) == n {
			break
		}
		v, err := strconv.Atoi(run)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ResolveLink makes href absolute against base.
func ResolveLink(base, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", ErrMissingLink
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse href %q: %w", href, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", base, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
