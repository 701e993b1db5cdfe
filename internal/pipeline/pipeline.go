// Package pipeline turns raw candidates into ranked listings, a run record
// and a notification card.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/go-errors/errors"
	"go.uber.org/zap"

	"go-lancers-notifier/internal/dedup"
	"go-lancers-notifier/internal/filter"
	"go-lancers-notifier/internal/logger"
	"go-lancers-notifier/internal/models"
	"go-lancers-notifier/internal/payload"
	"go-lancers-notifier/internal/rank"
	"go-lancers-notifier/internal/record"
)

const (
	DefaultBaseURL = "https://www.lancers.jp"
	DefaultMaxJobs = 100
)

type Outcome int

const (
	Accepted Outcome = iota
	DroppedInvalid
	DroppedDuplicate
	DroppedSeenBefore
	DroppedExcluded
	DroppedLowScore
	DroppedError
)

var outcomeNames = [...]string{"accepted", "invalid", "duplicate", "seen_before", "excluded", "low_score", "error"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Deps is the immutable configuration shared by every run.
type Deps struct {
	Matcher  *filter.Matcher
	Scorer   *filter.Scorer
	Includer *filter.Includer
	Composer *payload.Composer
	// History is optional; nil disables cross-run dedup.
	History dedup.History
	BaseURL string
	MaxJobs int
	Now     func() time.Time
	Logger  *zap.Logger
}

type Pipeline struct {
	deps Deps
}

func New(deps Deps) (*Pipeline, error) {
	if deps.Matcher == nil || deps.Scorer == nil || deps.Includer == nil {
		return nil, errors.New("pipeline: matcher, scorer and includer are required")
	}
	if deps.Composer == nil {
		deps.Composer = payload.NewComposer(payload.Config{})
	}
	if deps.BaseURL == "" {
		deps.BaseURL = DefaultBaseURL
	}
	if deps.MaxJobs <= 0 {
		deps.MaxJobs = DefaultMaxJobs
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	deps.Logger = logger.OrNop(deps.Logger)
	return &Pipeline{deps: deps}, nil
}

// Stats counts candidates per outcome.
type Stats struct {
	Candidates int            `json:"candidates"`
	Outcomes   map[string]int `json:"outcomes"`
}

func (s Stats) Count(o Outcome) int {
	return s.Outcomes[o.String()]
}

type Result struct {
	Listings []*models.JobListing
	Record   record.Record
	Payload  payload.MessageCard
	Stats    Stats
}

// Run holds the state of one invocation. It is not safe for concurrent
// Process calls other than through the seen set, which is atomic.
type Run struct {
	p        *Pipeline
	seen     *dedup.SeenSet
	listings []*models.JobListing
	stats    Stats
}

func (p *Pipeline) NewRun() *Run {
	return &Run{
		p:     p,
		seen:  dedup.NewSeenSet(),
		stats: Stats{Outcomes: map[string]int{}},
	}
}

// Execute processes all candidates in a fresh run and finishes it.
func (p *Pipeline) Execute(ctx context.Context, candidates []models.Candidate) (Result, error) {
	run := p.NewRun()
	if err := run.ProcessAll(ctx, candidates); err != nil {
		return Result{}, err
	}
	return run.Finish(), nil
}

// ProcessAll feeds candidates in order until MaxJobs listings are accepted.
func (r *Run) ProcessAll(ctx context.Context, candidates []models.Candidate) error {
	for _, c := range candidates {
		if len(r.listings) >= r.p.deps.MaxJobs {
			r.p.deps.Logger.Info("job limit reached", zap.Int("max_jobs", r.p.deps.MaxJobs))
			break
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("process candidates: %w", err)
		}
		r.Process(ctx, c)
	}
	return nil
}

// Process runs one candidate through the chain. Failures drop the candidate
// and never abort the run.
func (r *Run) Process(ctx context.Context, c models.Candidate) (job *models.JobListing, outcome Outcome) {
	log := r.p.deps.Logger
	r.stats.Candidates++
	defer func() {
		if rec := recover(); rec != nil {
			err := goerrors.Wrap(rec, 2)
			log.Warn("candidate panicked", zap.Error(err))
			log.Debug("candidate stack", zap.String("stack", err.ErrorStack()))
			job, outcome = nil, DroppedError
		}
		r.stats.Outcomes[outcome.String()]++
	}()

	text, err := c.Text()
	if err != nil {
		log.Debug("candidate text", zap.Error(err))
		return nil, DroppedError
	}
	href, err := c.Href()
	if err != nil {
		log.Debug("candidate href", zap.Error(err))
		return nil, DroppedError
	}

	title, err := filter.CleanTitle(text)
	if err != nil {
		return nil, DroppedInvalid
	}
	link, err := filter.ResolveLink(r.p.deps.BaseURL, href)
	if err != nil {
		return nil, DroppedInvalid
	}

	if !r.seen.CheckAndAdd(link) {
		return nil, DroppedDuplicate
	}
	if h := r.p.deps.History; h != nil {
		seen, err := h.Seen(ctx, link)
		if err != nil {
			log.Warn("history lookup failed", zap.String("link", link), zap.Error(err))
		} else if seen {
			return nil, DroppedSeenBefore
		}
	}

	details, err := c.Details(ctx)
	if err != nil {
		log.Debug("candidate details", zap.String("link", link), zap.Error(err))
		return nil, DroppedError
	}
	details.Price = filter.CleanPrice(details.Price)
	if details.Partial {
		log.Debug("partial details", zap.String("link", link), zap.String("reason", details.PartialReason))
	}

	matches := r.p.deps.Matcher.Match(title)
	breakdown := r.p.deps.Scorer.Explain(title, details, matches)
	job = &models.JobListing{
		Title:        title,
		Link:         link,
		Recruitment:  details,
		SkillMatches: matches,
		Score:        breakdown.Total(),
		ScrapedAt:    r.p.deps.Now(),
	}
	log.Debug("scored", logger.Title(title), zap.Any("breakdown", breakdown))

	if ok, reason := r.p.deps.Includer.Decide(job); !ok {
		log.Debug("dropped", logger.Title(title), zap.String("reason", reason))
		if reason == filter.ReasonLowScore {
			return nil, DroppedLowScore
		}
		return nil, DroppedExcluded
	}

	r.listings = append(r.listings, job)
	log.Debug("accepted",
		zap.Int("n", len(r.listings)),
		logger.Title(title),
		zap.Int("score", job.Score),
		zap.Int("skills", job.SkillCount()),
	)
	return job, Accepted
}

// Len is the number of accepted listings so far.
func (r *Run) Len() int {
	return len(r.listings)
}

// Finish ranks the accepted listings and composes the outputs. History is
// left untouched; see MarkNotified.
func (r *Run) Finish() Result {
	log := r.p.deps.Logger
	rank.Rank(r.listings)

	rec := record.Build(r.listings, r.p.deps.Now())
	card := r.p.deps.Composer.Compose(r.listings)

	log.Info("run finished",
		zap.String("run_id", rec.RunID),
		zap.Int("candidates", r.stats.Candidates),
		zap.Int("accepted", len(r.listings)),
		zap.Int("displayed", card.Displayed),
		zap.Int("skipped", card.Skipped),
		zap.Any("outcomes", r.stats.Outcomes),
	)

	return Result{
		Listings: r.listings,
		Record:   rec,
		Payload:  card,
		Stats:    r.stats,
	}
}

// MarkNotified records the links of delivered listings in History so later
// runs skip them. Call it only once the notification went out.
func (p *Pipeline) MarkNotified(ctx context.Context, listings []*models.JobListing) error {
	h := p.deps.History
	if h == nil || len(listings) == 0 {
		return nil
	}
	links := make([]string, len(listings))
	for i, j := range listings {
		links[i] = j.Link
	}
	if err := h.Mark(ctx, links); err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}
