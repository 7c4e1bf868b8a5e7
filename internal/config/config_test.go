package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dueminder/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, notionTokenEnv, notionDatabaseEnv, slackWebhookEnv,
		slackBotTokenEnv, slackChannelEnv, dmTargetsEnv, lookaheadEnv,
		postWhenEmptyEnv, doneStatusEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.Reminder.LookaheadDays != 7 {
		t.Fatalf("expected default lookahead 7, got %d", cfg.Reminder.LookaheadDays)
	}
	if cfg.Reminder.DoneStatus != "Done" {
		t.Fatalf("expected default done status, got %q", cfg.Reminder.DoneStatus)
	}
	if !cfg.Reminder.PostOnEmpty() {
		t.Fatalf("expected post-when-empty default true")
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("expected UTC default, got %s", cfg.Scheduler.Location())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(notionTokenEnv, "secret")
	t.Setenv(notionDatabaseEnv, "db-1")
	t.Setenv(dmTargetsEnv, "U1,D2")
	t.Setenv(lookaheadEnv, "14")
	t.Setenv(postWhenEmptyEnv, "false")
	t.Setenv(doneStatusEnv, "Complete")

	cfg := Load()
	if cfg.Notion.Token != "secret" || cfg.Notion.DatabaseID != "db-1" {
		t.Fatalf("expected notion env overrides applied, got %+v", cfg.Notion)
	}
	if cfg.Slack.DMTargets != "U1,D2" {
		t.Fatalf("expected dm targets override, got %q", cfg.Slack.DMTargets)
	}
	if cfg.Reminder.LookaheadDays != 14 {
		t.Fatalf("expected lookahead override, got %d", cfg.Reminder.LookaheadDays)
	}
	if cfg.Reminder.PostOnEmpty() {
		t.Fatalf("expected post-when-empty disabled")
	}
	if cfg.Reminder.DoneStatus != "Complete" {
		t.Fatalf("expected done status override, got %q", cfg.Reminder.DoneStatus)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
notion:
  token: file-token
  databaseId: file-db
reminder:
  postWhenEmpty: false
  fields:
    due: Deadline
scheduler:
  cronExpression: "0 9 * * MON"
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if cfg.Notion.Token != "file-token" {
		t.Fatalf("expected token from file, got %q", cfg.Notion.Token)
	}
	if cfg.Reminder.PostOnEmpty() {
		t.Fatalf("expected file to disable post-when-empty")
	}
	if got := cfg.Reminder.FieldNames(); got.Due != "Deadline" || got.Status != "Status" {
		t.Fatalf("expected partial field override, got %+v", got)
	}
	if cfg.Scheduler.CronExpression != "0 9 * * MON" {
		t.Fatalf("expected cron expression from file, got %q", cfg.Scheduler.CronExpression)
	}
}

func TestValidateMissingRequiredKeys(t *testing.T) {
	t.Parallel()

	var cfgErr *domain.ConfigError

	cfg := defaultConfig()
	if err := cfg.Validate(); !errors.As(err, &cfgErr) || cfgErr.Key != "notion.token" {
		t.Fatalf("expected notion.token error, got %v", err)
	}

	cfg.Notion.Token = "tok"
	if err := cfg.Validate(); !errors.As(err, &cfgErr) || cfgErr.Key != "notion.databaseId" {
		t.Fatalf("expected notion.databaseId error, got %v", err)
	}

	cfg.Notion.DatabaseID = "db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateDMTargetsRequireBotToken(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Notion.Token = "tok"
	cfg.Notion.DatabaseID = "db"
	cfg.Slack.DMTargets = "U1 D2"

	var cfgErr *domain.ConfigError
	if err := cfg.Validate(); !errors.As(err, &cfgErr) || cfgErr.Key != "slack.botToken" {
		t.Fatalf("expected slack.botToken error, got %v", err)
	}

	cfg.Slack.BotToken = "xoxb"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config with bot token, got %v", err)
	}
}

func TestValidateLookaheadMustBePositive(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Notion.Token = "tok"
	cfg.Notion.DatabaseID = "db"
	cfg.Reminder.LookaheadDays = 0

	var cfgErr *domain.ConfigError
	if err := cfg.Validate(); !errors.As(err, &cfgErr) || cfgErr.Key != "reminder.lookaheadDays" {
		t.Fatalf("expected lookahead error, got %v", err)
	}
}
