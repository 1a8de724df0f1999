package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/notifyhub/callqueue/internal/provider"
	"github.com/notifyhub/callqueue/internal/queue"
	"github.com/notifyhub/callqueue/internal/ratelimiter"
)

// Alerter is the part of alert.Alerter the poller needs.
type Alerter interface {
	Alert(ctx context.Context) bool
}

// Hooks carries the metric callback functions injected by main.
// Using a struct keeps the poller constructor signature clean.
type Hooks struct {
	OnPoll  func(result string, latency time.Duration)
	OnItems func(n int)
}

// Poller fetches the remote queue on a fixed interval and folds each
// response into the shared queue.State.
//
// Every tick runs its request on its own goroutine, so a slow or hung request
// never delays the next tick. Overlapping requests are allowed; State applies
// each response atomically and drops responses requested under replaced
// settings.
type Poller struct {
	state    *queue.State
	prov     provider.QueueProvider
	alerter  Alerter
	limiter  *ratelimiter.RefreshLimiter
	clock    clock.WithTicker
	interval time.Duration
	logger   *zap.Logger

	onPoll  func(result string, latency time.Duration)
	onItems func(n int)

	refresh chan struct{}
	restart chan struct{}
	wg      sync.WaitGroup
}

// NewPoller constructs a poller. Hook functions are optional (nil = no-op).
func NewPoller(
	state *queue.State,
	prov provider.QueueProvider,
	alerter Alerter,
	limiter *ratelimiter.RefreshLimiter,
	clk clock.WithTicker,
	interval time.Duration,
	logger *zap.Logger,
	hooks Hooks,
) *Poller {
	if hooks.OnPoll == nil {
		hooks.OnPoll = func(string, time.Duration) {}
	}
	if hooks.OnItems == nil {
		hooks.OnItems = func(int) {}
	}
	return &Poller{
		state: state, prov: prov, alerter: alerter, limiter: limiter,
		clock: clk, interval: interval, logger: logger,
		onPoll: hooks.OnPoll, onItems: hooks.OnItems,
		refresh: make(chan struct{}, 1),
		restart: make(chan struct{}, 1),
	}
}

// Run polls once immediately and then on every tick until ctx is cancelled.
// It returns only after every poll it started has finished.
func (p *Poller) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.interval)
	defer func() { ticker.Stop() }()

	p.logger.Info("poller started", zap.Duration("interval", p.interval))
	p.spawn(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping")
			p.wg.Wait()
			return
		case <-ticker.C():
			p.spawn(ctx)
		case <-p.refresh:
			if p.limiter != nil && !p.limiter.Allow() {
				p.logger.Debug("out-of-cycle poll dropped by refresh limiter")
				continue
			}
			p.spawn(ctx)
		case <-p.restart:
			// New settings: start a fresh cycle so the next tick is a full
			// interval after the immediate poll.
			ticker.Stop()
			ticker = p.clock.NewTicker(p.interval)
			p.spawn(ctx)
		}
	}
}

// Refresh asks Run for an immediate out-of-cycle poll. It never blocks;
// requests made while one is already pending are merged.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Restart asks Run to reset its ticker and poll immediately, used after the
// settings changed.
func (p *Poller) Restart() {
	select {
	case p.restart <- struct{}{}:
	default:
	}
}

func (p *Poller) spawn(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_, _ = p.Tick(ctx)
	}()
}

// Tick performs one poll synchronously and reports what it did to the state.
// Failures are logged and counted only; the state is left untouched.
func (p *Poller) Tick(ctx context.Context) (queue.Outcome, error) {
	ticket := p.state.Begin()
	if !ticket.Settings.Configured() {
		p.logger.Debug("poll skipped: api key not configured")
		p.onPoll("skipped", 0)
		return queue.Unchanged, nil
	}

	start := p.clock.Now()
	items, err := p.prov.Fetch(ctx, provider.FetchRequest{
		APIKey:     ticket.Settings.APIKey,
		LastHash:   ticket.LastHash,
		ServerName: ticket.Settings.ServerName,
	})
	latency := p.clock.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return queue.Unchanged, ctx.Err()
		}
		p.logger.Warn("queue poll failed", zap.Error(err), zap.Duration("latency", latency))
		p.onPoll("failed", latency)
		return queue.Unchanged, err
	}

	outcome, fp := p.state.Apply(ticket, items)
	p.onPoll(outcome.String(), latency)

	log := p.logger.With(zap.String("fingerprint", fp), zap.Stringer("outcome", outcome))
	switch outcome {
	case queue.Loaded, queue.Changed:
		log.Info("queue updated", zap.Int("items", len(items)))
		p.onItems(len(items))
		if outcome.ShouldAlert() {
			p.alerter.Alert(ctx)
		}
	case queue.Stale:
		log.Debug("discarded response requested under previous settings")
	default:
		log.Debug("queue unchanged")
	}
	return outcome, nil
}
