// Package payload renders ranked listings into a size-bounded Teams card.
package payload

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go-lancers-notifier/internal/models"
)

const (
	DefaultBudget     = 25000
	DefaultMargin     = 500
	DefaultThemeColor = "0078D4"
	DefaultSearchURL  = "https://www.lancers.jp/work/search/system?budget_from=&budget_to=&work_rank%5B%5D=&work_rank%5B%5D=&work_rank%5B%5D=&keyword=&sort=work_post_date"

	MaxSkillLine     = 100
	maxDeadlineRunes = 20

	emptyText   = "📭 現在条件に合う案件が見つかりませんでした。"
	footerText  = "\n\n📋 詳細情報はJSONファイルでも確認できます。"
	noSkillLine = "🔧 スキルセット: なし"
)

// Action is a MessageCard potentialAction entry.
type Action struct {
	Type    string   `json:"@type"`
	Name    string   `json:"name"`
	Targets []Target `json:"targets"`
}

type Target struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

// MessageCard is the legacy Office 365 connector card accepted by Teams webhooks.
type MessageCard struct {
	Type            string   `json:"@type"`
	Context         string   `json:"@context"`
	Summary         string   `json:"summary"`
	ThemeColor      string   `json:"themeColor"`
	Title           string   `json:"title"`
	Text            string   `json:"text"`
	PotentialAction []Action `json:"potentialAction,omitempty"`

	// counts for logging, not sent
	Found     int `json:"-"`
	Displayed int `json:"-"`
	Skipped   int `json:"-"`
}

type Config struct {
	Budget     int
	Margin     int
	SearchURL  string
	ThemeColor string
	Now        func() time.Time
}

type Composer struct {
	cfg Config
}

func NewComposer(cfg Config) *Composer {
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}
	if cfg.Margin < 0 {
		cfg.Margin = 0
	}
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.ThemeColor == "" {
		cfg.ThemeColor = DefaultThemeColor
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Composer{cfg: cfg}
}

// Compose fills the card body with as many listings as fit, in the given order.
// Listings that do not fit are counted in the footer.
func (c *Composer) Compose(jobs []*models.JobListing) MessageCard {
	if len(jobs) == 0 {
		return MessageCard{
			Type:       "MessageCard",
			Context:    "https://schema.org/extensions",
			Summary:    "Lancers全案件通知",
			ThemeColor: c.cfg.ThemeColor,
			Title:      "🚀 Lancers全案件リスト",
			Text:       truncateRunes(emptyText, c.cfg.Budget),
		}
	}

	header := fmt.Sprintf("現在の全案件リストです（**%d件**を発見）\n\n", len(jobs))
	// reserve room for whichever footer ends up longer
	reserve := max(runeLen(footerText), runeLen(skippedFooter(len(jobs))))
	available := c.cfg.Budget - runeLen(header) - reserve - c.cfg.Margin

	var body strings.Builder
	bodyLen, displayed := 0, 0
	for i, job := range jobs {
		block := Block(i+1, job)
		n := runeLen(block)
		if bodyLen+n > available {
			break
		}
		body.WriteString(block)
		bodyLen += n
		displayed++
	}

	skipped := len(jobs) - displayed
	footer := footerText
	if skipped > 0 {
		footer = skippedFooter(skipped)
	}

	return MessageCard{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		Summary:    fmt.Sprintf("Lancers全案件 %d件", len(jobs)),
		ThemeColor: c.cfg.ThemeColor,
		Title: fmt.Sprintf("🚀 Lancers全案件リスト (%d件発見 / %d件表示) - %s",
			len(jobs), displayed, c.cfg.Now().Format("2006/01/02 15:04")),
		Text: fitText(header, body.String(), footer, c.cfg.Budget),
		PotentialAction: []Action{{
			Type:    "OpenUri",
			Name:    "🔍 Lancersで案件を探す",
			Targets: []Target{{OS: "default", URI: c.cfg.SearchURL}},
		}},
		Found:     len(jobs),
		Displayed: displayed,
		Skipped:   skipped,
	}
}

func skippedFooter(n int) string {
	return fmt.Sprintf("\n📋 残り%d件の案件はJSONファイルで確認できます。", n)
}

// Block renders one listing as numbered markdown lines.
func Block(i int, job *models.JobListing) string {
	var b strings.Builder
	d := job.Recruitment
	fmt.Fprintf(&b, "**%d. %s**  \n", i, job.Title)
	fmt.Fprintf(&b, "💰 %s  \n", d.Price)
	if d.Deadline != models.NoDeadline && d.Deadline != "" && runeLen(d.Deadline) < maxDeadlineRunes {
		fmt.Fprintf(&b, "⏰ %s  \n", d.Deadline)
	}
	if d.ApplicantCountKnown && d.ApplicantCount != 0 {
		fmt.Fprintf(&b, "👥 応募%d人  \n", d.ApplicantCount)
	}
	b.WriteString(SkillLine(job.SkillMatches))
	b.WriteString("  \n")
	if d.Urgent {
		b.WriteString("🚨 急募  \n")
	}
	fmt.Fprintf(&b, "🔗 [詳細](%s)  \n\n", job.Link)
	return b.String()
}

// top skills shown per tier
var perTier = map[models.SkillTier]int{
	models.TierUltra:   2,
	models.TierHigh:    2,
	models.TierMid:     2,
	models.TierLow:     1,
	models.TierMinimal: 1,
}

// SkillLine is the compact per-tier skill summary, capped at MaxSkillLine characters.
func SkillLine(matches []models.SkillMatch) string {
	if len(matches) == 0 {
		return noSkillLine
	}
	var parts []string
	for _, tier := range models.AllTiers {
		var names []string
		for _, m := range matches {
			if m.Tier == tier && len(names) < perTier[tier] {
				names = append(names, m.Skill)
			}
		}
		if len(names) > 0 {
			parts = append(parts, tier.Symbol()+strings.Join(names, ","))
		}
	}
	if len(parts) == 0 {
		return noSkillLine
	}
	line := "🔧 スキルセット: " + strings.Join(parts, " ")
	if runeLen(line) > MaxSkillLine {
		line = string([]rune(line)[:MaxSkillLine-3]) + "..."
	}
	return line
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// fitText joins the parts within limit. Blocks only make it into body when
// everything fits, so an overflow means the header and footer alone are too
// long: the header is cut first so the skipped count stays visible.
func fitText(header, body, footer string, limit int) string {
	if runeLen(header)+runeLen(body)+runeLen(footer) <= limit {
		return header + body + footer
	}
	if n := runeLen(footer); n <= limit {
		return truncateRunes(header, limit-n) + footer
	}
	return truncateRunes(strings.TrimPrefix(footer, "\n"), limit)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if runeLen(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
