// Load envs from .env
// Load YAML config over code defaults
// Override with env vars
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-lancers-notifier/internal/dedup"
	"go-lancers-notifier/internal/filter"
	"go-lancers-notifier/internal/models"
	"go-lancers-notifier/internal/payload"
	"go-lancers-notifier/internal/pipeline"
	"go-lancers-notifier/internal/scheduler"
)

const DefaultPath = "configs/config.yaml"

var ErrEmptyExcludeList = errors.New("exclude keyword list is empty")

const (
	HistoryNone  = "none"
	HistoryFile  = "file"
	HistoryRedis = "redis"
)

type Config struct {
	Source struct {
		SearchURL     string `yaml:"search_url" validate:"required,url"`
		BaseURL       string `yaml:"base_url" validate:"required,url"`
		MaxJobs       int    `yaml:"max_jobs" validate:"gt=0"`
		Headless      bool   `yaml:"headless"`
		UserAgent     string `yaml:"user_agent"`
		CookiesPath   string `yaml:"cookies_path"`
		ScreenshotDir string `yaml:"screenshot_dir"`
	} `yaml:"source"`

	Taxonomy        models.Taxonomy       `yaml:"taxonomy"`
	BonusSkills     []filter.BonusSkill   `yaml:"bonus_skills"`
	KeywordBonuses  []filter.KeywordBonus `yaml:"keyword_bonuses"`
	ExcludeKeywords []string              `yaml:"exclude_keywords"`
	ClosedMarkers   []string              `yaml:"closed_markers"`
	BareKeywords    []string              `yaml:"bare_keywords"`

	Payload struct {
		Budget     int    `yaml:"budget" validate:"gt=0"`
		Margin     int    `yaml:"margin" validate:"gte=0"`
		ThemeColor string `yaml:"theme_color" validate:"hexadecimal"`
	} `yaml:"payload"`

	Teams struct {
		WebhookURL string `yaml:"webhook_url" validate:"omitempty,url"`
		DryRun     bool   `yaml:"dry_run"`
	} `yaml:"teams"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id" validate:"required_with=Token"`
	} `yaml:"telegram"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	History struct {
		Backend   string        `yaml:"backend" validate:"oneof=none file redis"`
		CachePath string        `yaml:"cache_path" validate:"required_if=Backend file"`
		RedisURL  string        `yaml:"redis_url" validate:"required_if=Backend redis"`
		Retention time.Duration `yaml:"retention" validate:"gt=0"`
	} `yaml:"history"`

	Schedule struct {
		Cron       string `yaml:"cron" validate:"required"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`

	Output struct {
		RecordsDir string `yaml:"records_dir" validate:"required"`
	} `yaml:"output"`

	Server struct {
		Addr string `yaml:"addr" validate:"required"`
	} `yaml:"server"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}

	cfg.Source.SearchURL = payload.DefaultSearchURL
	cfg.Source.BaseURL = pipeline.DefaultBaseURL
	cfg.Source.MaxJobs = pipeline.DefaultMaxJobs
	cfg.Source.Headless = true
	cfg.Source.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	cfg.Source.ScreenshotDir = "logs/screenshots"

	cfg.Taxonomy = filter.DefaultTaxonomy()
	cfg.BonusSkills = filter.DefaultBonusSkills()
	cfg.KeywordBonuses = filter.DefaultKeywordBonuses()
	cfg.ExcludeKeywords = filter.DefaultExcludeKeywords()
	cfg.ClosedMarkers = filter.DefaultClosedMarkers()
	cfg.BareKeywords = filter.DefaultBareKeywords()

	cfg.Payload.Budget = payload.DefaultBudget
	cfg.Payload.Margin = payload.DefaultMargin
	cfg.Payload.ThemeColor = payload.DefaultThemeColor

	cfg.History.Backend = HistoryNone
	cfg.History.CachePath = ".cache"
	cfg.History.Retention = dedup.DefaultRetention

	cfg.Schedule.Cron = scheduler.DefaultSpec
	cfg.Output.RecordsDir = "data"
	cfg.Server.Addr = ":8080"
	return cfg
}

// Load reads .env, the YAML file at path and environment overrides. A missing
// file at the default path is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromEnv() error {
	if url := os.Getenv("TEAMS_WEBHOOK_URL"); url != "" {
		c.Teams.WebhookURL = url
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Database.URL = url
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		c.History.RedisURL = url
		if c.History.Backend == HistoryNone {
			c.History.Backend = HistoryRedis
		}
	}
	if dry := os.Getenv("DRY_RUN"); dry != "" {
		v, err := strconv.ParseBool(strings.TrimSpace(dry))
		if err != nil {
			return fmt.Errorf("invalid DRY_RUN: %w", err)
		}
		c.Teams.DryRun = v
	}
	return nil
}

var validate = validator.New()

// Validate checks struct constraints and the keyword tables. An empty
// taxonomy or exclusion list is fatal.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Taxonomy.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.ExcludeKeywords) == 0 {
		return fmt.Errorf("invalid config: %w", ErrEmptyExcludeList)
	}
	for _, b := range c.BonusSkills {
		if !b.Tier.Valid() || strings.TrimSpace(b.Keyword) == "" {
			return fmt.Errorf("invalid config: bad bonus skill %q", b.Keyword)
		}
	}
	return nil
}

// PipelineDeps builds the immutable pipeline configuration from the keyword tables.
func (c *Config) PipelineDeps() pipeline.Deps {
	return pipeline.Deps{
		Matcher:  filter.NewMatcher(c.Taxonomy, c.BonusSkills),
		Scorer:   filter.NewScorer(c.KeywordBonuses),
		Includer: filter.NewIncluder(c.ExcludeKeywords, c.ClosedMarkers, c.BareKeywords),
		Composer: payload.NewComposer(payload.Config{
			Budget:     c.Payload.Budget,
			Margin:     c.Payload.Margin,
			SearchURL:  c.Source.SearchURL,
			ThemeColor: c.Payload.ThemeColor,
		}),
		BaseURL: c.Source.BaseURL,
		MaxJobs: c.Source.MaxJobs,
	}
}
