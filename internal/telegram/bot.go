package telegram

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-lancers-notifier/internal/payload"
)

// MaxMessageLength is Telegram's limit for one text message.
const MaxMessageLength = 4096

var (
	boldRegex = regexp.MustCompile(`\*\*(.+?)\*\*`)
	linkRegex = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) Name() string {
	return "telegram"
}

// Send posts the card title and body, split into as many messages as needed.
func (b *Bot) Send(ctx context.Context, card payload.MessageCard) error {
	text := "<b>" + html.EscapeString(card.Title) + "</b>\n\n" + ToHTML(card.Text)
	for i, chunk := range Split(text, MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(b.chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("send telegram message %d: %w", i+1, err)
		}
	}
	return nil
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}

// ToHTML converts the card markdown (bold, links and two-space line breaks)
// to Telegram HTML.
func ToHTML(md string) string {
	out := html.EscapeString(md)
	out = strings.ReplaceAll(out, "  \n", "\n")
	out = boldRegex.ReplaceAllString(out, "<b>$1</b>")
	out = linkRegex.ReplaceAllString(out, `<a href="$2">$1</a>`)
	return out
}

// Split cuts text into chunks of at most limit runes, preferring line breaks.
func Split(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
			n -= limit
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return chunks
}
