package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/notifyhub/callqueue/internal/domain"
	"github.com/notifyhub/callqueue/internal/provider"
	"github.com/notifyhub/callqueue/internal/queue"
	"github.com/notifyhub/callqueue/internal/repository"
	"github.com/notifyhub/callqueue/internal/view"
)

// Alerter is the part of alert.Alerter the service drives.
type Alerter interface {
	Stop()
	Playing() bool
	TestSound(ctx context.Context) error
	TestVibration(ctx context.Context) error
}

// Scheduler is the part of worker.Poller the service drives.
type Scheduler interface {
	Refresh()
	Restart()
}

// QueueView is what the control API returns for GET /api/v1/queue.
type QueueView struct {
	Rows        []view.Row `json:"rows"`
	Count       int        `json:"count"`
	Fingerprint string     `json:"fingerprint"`
	Configured  bool       `json:"configured"`
	Alerting    bool       `json:"alerting"`
}

// QueueService coordinates the queue state, the poller, the alerter and the
// settings store. HTTP handlers depend on this service, not on each other.
type QueueService struct {
	state    *queue.State
	prov     provider.QueueProvider
	alerter  Alerter
	poller   Scheduler
	repo     repository.SettingsRepository
	renderer *view.Renderer
	logger   *zap.Logger

	onAck func(err error)
}

// NewQueueService wires the service. onAck is optional (nil = no-op).
func NewQueueService(
	state *queue.State,
	prov provider.QueueProvider,
	alerter Alerter,
	poller Scheduler,
	repo repository.SettingsRepository,
	renderer *view.Renderer,
	logger *zap.Logger,
	onAck func(err error),
) *QueueService {
	if onAck == nil {
		onAck = func(error) {}
	}
	return &QueueService{
		state: state, prov: prov, alerter: alerter, poller: poller,
		repo: repo, renderer: renderer, logger: logger, onAck: onAck,
	}
}

// View renders the current item list.
func (s *QueueService) View() QueueView {
	snap := s.state.Snapshot()
	return QueueView{
		Rows:        s.renderer.Rows(snap.Items),
		Count:       len(snap.Items),
		Fingerprint: snap.Fingerprint,
		Configured:  snap.Settings.Configured(),
		Alerting:    s.alerter.Playing(),
	}
}

// Acknowledge accepts a queue item on behalf of staff.
//
// The alert is silenced first, then the remote PUT is issued. Whatever its
// result, the fingerprint is reset so the next poll is a fresh load (which
// never alerts) and an immediate poll is requested. A failed PUT is logged
// and counted only: the item simply reappears on that poll.
func (s *QueueService) Acknowledge(ctx context.Context, itemID int) error {
	if itemID <= 0 {
		return domain.ErrInvalidItemID
	}

	s.alerter.Stop()

	settings := s.state.Settings()
	err := s.prov.Acknowledge(ctx, settings.APIKey, itemID)
	s.onAck(err)
	if err != nil {
		s.logger.Warn("acknowledge failed", zap.Int("item_id", itemID), zap.Error(err))
	} else {
		s.logger.Info("item acknowledged", zap.Int("item_id", itemID))
	}

	s.state.ResetFingerprint()
	s.poller.Refresh()
	return nil
}

// StopAlert silences a running alert without acknowledging anything.
func (s *QueueService) StopAlert() {
	s.alerter.Stop()
}

// Settings returns the settings currently in force.
func (s *QueueService) Settings() domain.Settings {
	return s.state.Settings()
}

// SaveSettings persists both fields (an empty field removes its stored value),
// swaps them into the running state and restarts the poll cycle with them.
func (s *QueueService) SaveSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	settings = settings.Normalize()
	if err := repository.SaveSettings(ctx, s.repo, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.state.ReplaceSettings(settings)
	s.poller.Restart()

	s.logger.Info("settings updated",
		zap.Bool("configured", settings.Configured()),
		zap.String("server", settings.ServerName),
	)
	return settings, nil
}

// TestSound plays the alert sound briefly so staff can check the volume.
func (s *QueueService) TestSound(ctx context.Context) error {
	if err := s.alerter.TestSound(ctx); err != nil {
		s.logger.Warn("test sound failed", zap.Error(err))
		return err
	}
	return nil
}

// TestVibration buzzes the device briefly.
func (s *QueueService) TestVibration(ctx context.Context) error {
	return s.alerter.TestVibration(ctx)
}
