package filter

import (
	"strings"
	"unicode/utf8"

	"go-lancers-notifier/internal/models"
)

// Drop reasons reported by Includer.Decide.
const (
	ReasonTooShort = "title_too_short"
	ReasonExcluded = "excluded_keyword"
	ReasonClosed   = "closed"
	ReasonLowScore = "low_score"
)

// MinScore is the score at which a listing is accepted without skill matches.
const MinScore = 10

// Includer decides whether a scored listing is kept.
type Includer struct {
	exclude []string
	closed  []string
	bare    []string
}

func NewIncluder(exclude, closedMarkers, bareKeywords []string) *Includer {
	return &Includer{
		exclude: lowerAll(exclude),
		closed:  closedMarkers,
		bare:    lowerAll(bareKeywords),
	}
}

// Rejected reports hard rejections that do not depend on the score.
func (i *Includer) Rejected(title, status string) (bool, string) {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < MinTitleLength {
		return true, ReasonTooShort
	}

	text := strings.ToLower(title)
	for _, kw := range i.exclude {
		if kw != "" && strings.Contains(text, kw) {
			return true, ReasonExcluded
		}
	}

	lowerStatus := strings.ToLower(status)
	for _, marker := range i.closed {
		if marker != "" && strings.Contains(lowerStatus, strings.ToLower(marker)) {
			return true, ReasonClosed
		}
	}
	return false, ""
}

// Decide accepts a listing that is not rejected and either scores at least
// MinScore, has a skill match, or mentions a bare keyword. The bare keyword
// check is an independent path.
func (i *Includer) Decide(job *models.JobListing) (bool, string) {
	if rejected, reason := i.Rejected(job.Title, job.Recruitment.Status); rejected {
		return false, reason
	}

	if job.Score >= MinScore || job.SkillCount() >= 1 {
		return true, ""
	}

	text := strings.ToLower(job.Title)
	for _, kw := range i.bare {
		if kw != "" && strings.Contains(text, kw) {
			return true, ""
		}
	}
	return false, ReasonLowScore
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

// DefaultTaxonomy is the company skill set used when configuration omits one.
func DefaultTaxonomy() models.Taxonomy {
	return models.Taxonomy{
		{Tier: models.TierUltra, Keywords: []string{"AI", "GPT", "ChatGPT", "Python", "API", "Django", "Next.js", "TypeScript", "機械学習"}},
		{Tier: models.TierHigh, Keywords: []string{"bot", "Talend", "Java", "スマホアプリ", "モバイル開発", "人工知能"}},
		{Tier: models.TierMid, Keywords: []string{"効率化", "ツール", "開発", "システム開発", "React", "Node.js", "自動化", "スクレイピング"}},
		{Tier: models.TierLow, Keywords: []string{"PostgreSQL", "MySQL", "社内ツール", "業務改善", "アプリ", "サイト", "管理"}},
		{Tier: models.TierMinimal, Keywords: []string{"Render", "ロリッポップ", "WordPress", "PHP"}},
	}
}

func DefaultBonusSkills() []BonusSkill {
	return []BonusSkill{
		{Keyword: "自動化", Tier: models.TierMid},
		{Keyword: "スクレイピング", Tier: models.TierMid},
		{Keyword: "アプリ", Tier: models.TierMid},
		{Keyword: "サイト", Tier: models.TierLow},
		{Keyword: "管理", Tier: models.TierLow},
		{Keyword: "コンサル", Tier: models.TierMid},
		{Keyword: "Ai", Tier: models.TierUltra},
		{Keyword: "人工知能", Tier: models.TierHigh},
	}
}

func DefaultKeywordBonuses() []KeywordBonus {
	return []KeywordBonus{
		{Keyword: "chatgpt", Points: 80},
		{Keyword: "python", Points: 70},
		{Keyword: "api", Points: 60},
		{Keyword: "ai", Points: 60},
		{Keyword: "自動化", Points: 40},
		{Keyword: "bot", Points: 40},
		{Keyword: "効率化", Points: 30},
		{Keyword: "ツール", Points: 25},
		{Keyword: "開発", Points: 20},
		{Keyword: "システム", Points: 15},
	}
}

func DefaultExcludeKeywords() []string {
	return []string{
		"求人", "採用", "転職", "正社員", "アルバイト", "派遣",
		"コンペ", "コンペティション", "コンテスト",
		"募集終了", "締切", "CAD",
		"ロゴ", "デザイン", "バナー", "チラシ", "名刺", "イラスト",
		"ライティング", "記事作成", "翻訳", "データ入力", "文字起こし",
		"テスト", "練習",
	}
}

func DefaultClosedMarkers() []string {
	return []string{"募集終了", "締切", "終了", "完了", "closed", "deadline passed", "ended", "completed"}
}

func DefaultBareKeywords() []string {
	return []string{"chatgpt", "python", "api", "ai", "自動化", "bot", "効率化", "ツール", "開発", "システム"}
}
