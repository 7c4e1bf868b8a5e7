package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"dueminder/internal/domain"
	"dueminder/internal/ports"
)

// dmSendInterval spaces successive direct-message sends to respect the chat
// collaborator's rate limit.
const dmSendInterval = 1100 * time.Millisecond

// pacer delays between successive sends. It is never invoked after the last
// target.
type pacer interface {
	Pace(ctx context.Context) error
}

type ratePacer struct {
	limiter *rate.Limiter
}

func newRatePacer(interval time.Duration) *ratePacer {
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	// Burn the initial token so the first Pace waits a full interval.
	limiter.Allow()
	return &ratePacer{limiter: limiter}
}

func (p *ratePacer) Pace(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// DispatcherDeps wires delivery adapters and policy into the dispatcher.
type DispatcherDeps struct {
	Channel       ports.ChannelNotifier
	DM            ports.DirectMessenger
	Targets       []domain.DMTarget
	PostWhenEmpty bool
	Logger        *slog.Logger
}

// Dispatcher fans the digest out to the shared channel and the configured
// direct-message recipients, applying the per-destination gating policy.
type Dispatcher struct {
	channel       ports.ChannelNotifier
	dm            ports.DirectMessenger
	targets       []domain.DMTarget
	postWhenEmpty bool
	newPacer      func() pacer
	log           *slog.Logger
}

// NewDispatcher constructs the delivery fan-out component.
func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		channel:       deps.Channel,
		dm:            deps.DM,
		targets:       deps.Targets,
		postWhenEmpty: deps.PostWhenEmpty,
		newPacer:      func() pacer { return newRatePacer(dmSendInterval) },
		log:           log,
	}
}

// Dispatch sends the message to the gated-in destinations, strictly in
// sequence: the channel post first, then each DM target in configured order.
// A failed send aborts the remainder; messages already sent stand.
func (d *Dispatcher) Dispatch(ctx context.Context, message string, hasDueItems bool) (channelPosted bool, dmsSent int, err error) {
	if d.channel != nil {
		if hasDueItems || d.postWhenEmpty {
			if err := d.channel.PostDigest(ctx, message); err != nil {
				return false, 0, &domain.DeliveryError{Dest: "channel", Err: err}
			}
			channelPosted = true
			d.log.Info("channel digest posted")
		} else {
			d.log.Debug("channel post skipped, nothing due")
		}
	}

	if !hasDueItems || len(d.targets) == 0 {
		return channelPosted, 0, nil
	}
	if d.dm == nil {
		// Config validation rejects this earlier; kept as a guard so the
		// dispatcher never drops configured recipients silently.
		return channelPosted, 0, &domain.ConfigError{
			Key:    "slack.botToken",
			Reason: "required when DM targets are configured",
		}
	}

	p := d.newPacer()
	for i, target := range d.targets {
		if i > 0 {
			if err := p.Pace(ctx); err != nil {
				return channelPosted, dmsSent, err
			}
		}
		if err := d.sendDM(ctx, target, message); err != nil {
			return channelPosted, dmsSent, err
		}
		dmsSent++
	}
	return channelPosted, dmsSent, nil
}

func (d *Dispatcher) sendDM(ctx context.Context, target domain.DMTarget, message string) error {
	conversationID := target.ID
	if target.Kind == domain.TargetUser {
		id, err := d.dm.OpenConversation(ctx, target.ID)
		if err != nil {
			return &domain.DeliveryError{Dest: "dm " + target.ID, Err: err}
		}
		conversationID = id
	}

	if err := d.dm.PostMessage(ctx, conversationID, message); err != nil {
		return &domain.DeliveryError{Dest: "dm " + target.ID, Err: err}
	}
	d.log.Debug("dm sent", slog.String("target", target.ID))
	return nil
}
