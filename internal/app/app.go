package app

import (
	"context"
	"log/slog"
	"time"

	"dueminder/internal/config"
	"dueminder/internal/domain"
	"dueminder/internal/infrastructure/notion"
	"dueminder/internal/infrastructure/scheduler"
	"dueminder/internal/infrastructure/slack"
	"dueminder/internal/logging"
	"dueminder/internal/ports"
	"dueminder/internal/usecase"
)

// Application wires config to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	log      *slog.Logger
}

// New builds a runnable application instance. DM targets are parsed here,
// once, so a malformed recipient fails startup before any message is sent.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	targets, err := domain.ParseDMTargets(cfg.Slack.DMTargets)
	if err != nil {
		return nil, err
	}

	fields := cfg.Reminder.FieldNames()

	notionClient := notion.NewClient(cfg.Notion.Token, nil)
	source := notion.NewSource(
		notionClient,
		cfg.Notion.DatabaseID,
		fields,
		cfg.Reminder.LookaheadDays,
		cfg.Reminder.DoneStatus,
		baseLogger.With("component", "source"),
	)

	var botClient *slack.Client
	if cfg.Slack.BotToken != "" {
		botClient = slack.NewClient(cfg.Slack.BotToken, nil)
	}

	// Webhook wins for the shared channel when both transports are set;
	// the bot credential then serves DMs only.
	var channel ports.ChannelNotifier
	switch {
	case cfg.Slack.WebhookURL != "":
		channel = slack.NewWebhook(cfg.Slack.WebhookURL)
	case botClient != nil && cfg.Slack.ChannelID != "":
		channel = slack.NewChannelPoster(botClient, cfg.Slack.ChannelID)
	}

	var dm ports.DirectMessenger
	if botClient != nil {
		dm = botClient
	}

	dispatcher := usecase.NewDispatcher(usecase.DispatcherDeps{
		Channel:       channel,
		DM:            dm,
		Targets:       targets,
		PostWhenEmpty: cfg.Reminder.PostOnEmpty(),
		Logger:        baseLogger.With("component", "dispatcher"),
	})

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:        source,
		Dispatcher:    dispatcher,
		LookaheadDays: cfg.Reminder.LookaheadDays,
		Fields:        fields,
		Logger:        baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, log: baseLogger}, nil
}

// Run executes a single pipeline pass, or keeps running on the configured
// cron schedule until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	loc := a.cfg.Scheduler.Location()

	if a.cfg.Scheduler.CronExpression == "" {
		_, err := a.pipeline.Run(ctx, time.Now().In(loc))
		return err
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, loc)
	sched := usecase.NewScheduler(driver, a.pipeline, a.log.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return err
	}
	a.log.Info("schedule started", slog.String("cron", a.cfg.Scheduler.CronExpression))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}
