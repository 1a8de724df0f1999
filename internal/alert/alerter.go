package alert

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/callqueue/internal/domain"
)

// Player plays the alert sound once. It blocks until playback ends or ctx is
// done, and returns ctx.Err() when it was cut off.
type Player interface {
	Play(ctx context.Context) error
}

// Vibrator runs a vibration for d, blocking until it ends or ctx is done.
// Devices without haptics return domain.ErrVibrationUnsupported.
type Vibrator interface {
	Vibrate(ctx context.Context, d time.Duration) error
}

// Timings groups the alert durations. Zero values fall back to defaults.
type Timings struct {
	SoundTimeout      time.Duration // ambient alert cut-off
	Vibration         time.Duration // ambient vibration length
	TestSoundTimeout  time.Duration
	TestVibrationTime time.Duration
}

func (t Timings) withDefaults() Timings {
	if t.SoundTimeout <= 0 {
		t.SoundTimeout = 10 * time.Second
	}
	if t.Vibration <= 0 {
		t.Vibration = 5 * time.Second
	}
	if t.TestSoundTimeout <= 0 {
		t.TestSoundTimeout = time.Second
	}
	if t.TestVibrationTime <= 0 {
		t.TestVibrationTime = time.Second
	}
	return t
}

// Alerter owns the current alert handle. It is safe for concurrent use.
type Alerter struct {
	player   Player
	vibrator Vibrator
	timings  Timings
	logger   *zap.Logger

	// onAlert is a metrics hook; started=false means the alert was suppressed.
	onAlert func(started bool)

	mu        sync.Mutex
	seq       uint64
	soundID   uint64 // id of the playing sound, 0 when silent
	stopSound context.CancelFunc
	stopVibe  context.CancelFunc
	wg        sync.WaitGroup
}

// New constructs an Alerter. onAlert is optional (nil = no-op).
func New(player Player, vibrator Vibrator, timings Timings, logger *zap.Logger, onAlert func(started bool)) *Alerter {
	if onAlert == nil {
		onAlert = func(bool) {}
	}
	return &Alerter{
		player:   player,
		vibrator: vibrator,
		timings:  timings.withDefaults(),
		logger:   logger,
		onAlert:  onAlert,
	}
}

// Alert starts the sound and the vibration concurrently and returns true.
// If a sound is still playing it does nothing and returns false.
func (a *Alerter) Alert(ctx context.Context) bool {
	a.mu.Lock()
	if a.soundID != 0 {
		a.mu.Unlock()
		a.logger.Debug("alert suppressed: sound already playing")
		a.onAlert(false)
		return false
	}

	a.seq++
	id := a.seq
	soundCtx, stopSound := context.WithTimeout(ctx, a.timings.SoundTimeout)
	a.soundID = id
	a.stopSound = stopSound

	// A vibration left over from an earlier alert is replaced, not stacked.
	if a.stopVibe != nil {
		a.stopVibe()
	}
	vibeCtx, stopVibe := context.WithCancel(ctx)
	a.stopVibe = stopVibe
	a.mu.Unlock()

	a.onAlert(true)
	a.logger.Info("alert started", zap.Uint64("alert_id", id))

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		err := a.player.Play(soundCtx)
		if err != nil && !cutOff(err) {
			a.logger.Warn("alert sound failed", zap.Uint64("alert_id", id), zap.Error(err))
		}
		a.finishSound(id)
	}()
	go func() {
		defer a.wg.Done()
		defer stopVibe()
		err := a.vibrator.Vibrate(vibeCtx, a.timings.Vibration)
		switch {
		case err == nil, cutOff(err):
		case errors.Is(err, domain.ErrVibrationUnsupported):
			a.logger.Debug("vibration unsupported, alert is audio only")
		default:
			a.logger.Warn("alert vibration failed", zap.Uint64("alert_id", id), zap.Error(err))
		}
	}()
	return true
}

// finishSound releases the sound handle if it still belongs to alert id.
func (a *Alerter) finishSound(id uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.soundID != id {
		return
	}
	a.stopSound()
	a.soundID = 0
	a.stopSound = nil
}

// Stop cancels any in-progress sound and vibration immediately.
func (a *Alerter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopSound != nil {
		a.stopSound()
		a.stopSound = nil
	}
	a.soundID = 0
	if a.stopVibe != nil {
		a.stopVibe()
		a.stopVibe = nil
	}
}

// Playing reports whether an alert sound is in progress.
func (a *Alerter) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.soundID != 0
}

// Wait blocks until every goroutine started by Alert has returned.
// Call Stop first to make this prompt.
func (a *Alerter) Wait() {
	a.wg.Wait()
}

// TestSound plays the sound with the short test cut-off. Being cut off is a
// success; failing to load or play is returned to the caller.
func (a *Alerter) TestSound(ctx context.Context) error {
	testCtx, cancel := context.WithTimeout(ctx, a.timings.TestSoundTimeout)
	defer cancel()

	err := a.player.Play(testCtx)
	if err == nil || (errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil) {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, domain.ErrSoundPlaybackFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrSoundPlaybackFailed, err)
}

// TestVibration vibrates for the test duration.
func (a *Alerter) TestVibration(ctx context.Context) error {
	err := a.vibrator.Vibrate(ctx, a.timings.TestVibrationTime)
	if err != nil && cutOff(err) && ctx.Err() == nil {
		return nil
	}
	return err
}

func cutOff(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
