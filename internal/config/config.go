package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dueminder/internal/domain"
)

const (
	defaultTimezone      = "UTC"
	defaultLookaheadDays = 7
	defaultDoneStatus    = "Done"

	configPathEnv     = "DUEMINDER_CONFIG"
	notionTokenEnv    = "NOTION_TOKEN"
	notionDatabaseEnv = "NOTION_DATABASE_ID"
	slackWebhookEnv   = "SLACK_WEBHOOK_URL"
	slackBotTokenEnv  = "SLACK_BOT_TOKEN"
	slackChannelEnv   = "SLACK_CHANNEL_ID"
	dmTargetsEnv      = "DUEMINDER_DM_TARGETS"
	lookaheadEnv      = "DUEMINDER_LOOKAHEAD_DAYS"
	postWhenEmptyEnv  = "DUEMINDER_POST_WHEN_EMPTY"
	doneStatusEnv     = "DUEMINDER_DONE_STATUS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Notion    NotionConfig    `yaml:"notion"`
	Slack     SlackConfig     `yaml:"slack"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NotionConfig describes the record-store connection.
type NotionConfig struct {
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"databaseId"`
}

// SlackConfig wires the delivery destinations. WebhookURL and BotToken are
// alternative channel transports; DMs always require the bot token.
type SlackConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
	BotToken   string `yaml:"botToken"`
	ChannelID  string `yaml:"channelId"`
	DMTargets  string `yaml:"dmTargets"`
}

// ReminderConfig tunes the digest itself.
type ReminderConfig struct {
	LookaheadDays int          `yaml:"lookaheadDays"`
	PostWhenEmpty *bool        `yaml:"postWhenEmpty"`
	DoneStatus    string       `yaml:"doneStatus"`
	Fields        FieldsConfig `yaml:"fields"`
}

// PostOnEmpty reports whether the channel digest is posted when nothing is
// due. Defaults to true when unset.
func (r ReminderConfig) PostOnEmpty() bool {
	if r.PostWhenEmpty == nil {
		return true
	}
	return *r.PostWhenEmpty
}

// FieldsConfig overrides the attribute names a deployment uses.
type FieldsConfig struct {
	Due         string `yaml:"due"`
	Status      string `yaml:"status"`
	Category    string `yaml:"category"`
	Environment string `yaml:"environment"`
}

// FieldNames resolves overrides against the defaults.
func (r ReminderConfig) FieldNames() domain.FieldNames {
	names := domain.DefaultFieldNames()
	if r.Fields.Due != "" {
		names.Due = r.Fields.Due
	}
	if r.Fields.Status != "" {
		names.Status = r.Fields.Status
	}
	if r.Fields.Category != "" {
		names.Category = r.Fields.Category
	}
	if r.Fields.Environment != "" {
		names.Environment = r.Fields.Environment
	}
	return names
}

// SchedulerConfig defines when runs execute. An empty cron expression means
// a single run per process invocation (external trigger mode).
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LoggingConfig tunes the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. Validation is separate so the caller controls the exit path.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	return cfg
}

// Validate enforces the startup contract: missing required keys and
// inconsistent delivery settings fail before any network call.
func (c Config) Validate() error {
	if c.Notion.Token == "" {
		return &domain.ConfigError{Key: "notion.token", Reason: "missing required key"}
	}
	if c.Notion.DatabaseID == "" {
		return &domain.ConfigError{Key: "notion.databaseId", Reason: "missing required key"}
	}
	if c.Reminder.LookaheadDays <= 0 {
		return &domain.ConfigError{Key: "reminder.lookaheadDays", Reason: "must be positive"}
	}
	if strings.TrimSpace(c.Slack.DMTargets) != "" && c.Slack.BotToken == "" {
		return &domain.ConfigError{Key: "slack.botToken", Reason: "required when DM targets are configured"}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(notionTokenEnv); v != "" {
		c.Notion.Token = v
	}
	if v := os.Getenv(notionDatabaseEnv); v != "" {
		c.Notion.DatabaseID = v
	}
	if v := os.Getenv(slackWebhookEnv); v != "" {
		c.Slack.WebhookURL = v
	}
	if v := os.Getenv(slackBotTokenEnv); v != "" {
		c.Slack.BotToken = v
	}
	if v := os.Getenv(slackChannelEnv); v != "" {
		c.Slack.ChannelID = v
	}
	if v := os.Getenv(dmTargetsEnv); v != "" {
		c.Slack.DMTargets = v
	}
	if v := os.Getenv(lookaheadEnv); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.Reminder.LookaheadDays = days
		} else {
			log.Printf("config: invalid %s=%q: %v (ignored)", lookaheadEnv, v, err)
		}
	}
	if v := os.Getenv(postWhenEmptyEnv); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Reminder.PostWhenEmpty = &b
		} else {
			log.Printf("config: invalid %s=%q: %v (ignored)", postWhenEmptyEnv, v, err)
		}
	}
	if v := os.Getenv(doneStatusEnv); v != "" {
		c.Reminder.DoneStatus = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Notion.Token != "" {
		base.Notion.Token = override.Notion.Token
	}
	if override.Notion.DatabaseID != "" {
		base.Notion.DatabaseID = override.Notion.DatabaseID
	}

	if override.Slack.WebhookURL != "" {
		base.Slack.WebhookURL = override.Slack.WebhookURL
	}
	if override.Slack.BotToken != "" {
		base.Slack.BotToken = override.Slack.BotToken
	}
	if override.Slack.ChannelID != "" {
		base.Slack.ChannelID = override.Slack.ChannelID
	}
	if override.Slack.DMTargets != "" {
		base.Slack.DMTargets = override.Slack.DMTargets
	}

	if override.Reminder.LookaheadDays != 0 {
		base.Reminder.LookaheadDays = override.Reminder.LookaheadDays
	}
	if override.Reminder.PostWhenEmpty != nil {
		base.Reminder.PostWhenEmpty = override.Reminder.PostWhenEmpty
	}
	if override.Reminder.DoneStatus != "" {
		base.Reminder.DoneStatus = override.Reminder.DoneStatus
	}
	if override.Reminder.Fields.Due != "" {
		base.Reminder.Fields.Due = override.Reminder.Fields.Due
	}
	if override.Reminder.Fields.Status != "" {
		base.Reminder.Fields.Status = override.Reminder.Fields.Status
	}
	if override.Reminder.Fields.Category != "" {
		base.Reminder.Fields.Category = override.Reminder.Fields.Category
	}
	if override.Reminder.Fields.Environment != "" {
		base.Reminder.Fields.Environment = override.Reminder.Fields.Environment
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Reminder: ReminderConfig{
			LookaheadDays: defaultLookaheadDays,
			DoneStatus:    defaultDoneStatus,
		},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
		Logging:   LoggingConfig{Level: "info"},
	}
}
