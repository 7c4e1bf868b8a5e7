package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dueminder/internal/digest"
	"dueminder/internal/domain"
	"dueminder/internal/ports"
)

// PipelineDeps wires the driven adapters into the run controller.
type PipelineDeps struct {
	Source        ports.RecordSource
	Dispatcher    *Dispatcher
	LookaheadDays int
	Fields        domain.FieldNames
	Logger        *slog.Logger
}

// Pipeline is the run controller: fetch due items, render the digest,
// dispatch it, report the outcome.
type Pipeline struct {
	source        ports.RecordSource
	dispatcher    *Dispatcher
	lookaheadDays int
	fields        domain.FieldNames
	log           *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		source:        deps.Source,
		dispatcher:    deps.Dispatcher,
		lookaheadDays: deps.LookaheadDays,
		fields:        deps.Fields,
		log:           log,
	}
}

// Run executes one complete pipeline pass for the given reference time.
// The returned RunResult holds whatever was accumulated before a failure;
// there is no rollback of already-sent deliveries.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (domain.RunResult, error) {
	items, err := p.source.FetchDueItems(ctx, now)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("fetch due items: %w", err)
	}

	result := domain.RunResult{DueCount: len(items)}
	message := digest.Format(items, p.lookaheadDays, p.fields)

	posted, sent, err := p.dispatcher.Dispatch(ctx, message, len(items) > 0)
	result.ChannelPosted = posted
	result.DMsSent = sent
	if err != nil {
		return result, err
	}

	p.log.Info("run complete",
		slog.Int("due", result.DueCount),
		slog.Bool("channel_posted", result.ChannelPosted),
		slog.Int("dms_sent", result.DMsSent))
	return result, nil
}
