package alert

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/notifyhub/callqueue/internal/domain"
)

// CommandPlayer plays the sound file through an external audio player such
// as paplay, aplay or afplay. The process is killed when ctx ends, which is
// how the cut-off timeout and Stop release the audio device.
type CommandPlayer struct {
	name      string
	args      []string
	soundFile string
}

// NewCommandPlayer parses commandLine ("paplay --volume=65536") and appends
// soundFile as the last argument on every Play.
func NewCommandPlayer(commandLine, soundFile string) (*CommandPlayer, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty player command")
	}
	return &CommandPlayer{name: fields[0], args: fields[1:], soundFile: soundFile}, nil
}

func (p *CommandPlayer) Play(ctx context.Context) error {
	if _, err := os.Stat(p.soundFile); err != nil {
		return fmt.Errorf("%w: load %s: %v", domain.ErrSoundPlaybackFailed, p.soundFile, err)
	}
	args := append(append([]string{}, p.args...), p.soundFile)
	cmd := exec.CommandContext(ctx, p.name, args...)
	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSoundPlaybackFailed, p.name, err)
	}
	return nil
}

// BellPlayer rings the terminal bell a fixed number of times. It is the
// fallback when no audio player is configured.
type BellPlayer struct {
	out      io.Writer
	rings    int
	interval time.Duration
}

func NewBellPlayer(out io.Writer, rings int, interval time.Duration) *BellPlayer {
	if rings <= 0 {
		rings = 3
	}
	return &BellPlayer{out: out, rings: rings, interval: interval}
}

func (p *BellPlayer) Play(ctx context.Context) error {
	for i := 0; i < p.rings; i++ {
		if _, err := io.WriteString(p.out, "\a"); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrSoundPlaybackFailed, err)
		}
		if i == p.rings-1 {
			break
		}
		t := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// CommandVibrator drives a buzzer or haptic helper. The command receives the
// duration in milliseconds as its last argument and is killed on cancel.
type CommandVibrator struct {
	name string
	args []string
}

func NewCommandVibrator(commandLine string) (*CommandVibrator, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty vibrate command")
	}
	return &CommandVibrator{name: fields[0], args: fields[1:]}, nil
}

func (v *CommandVibrator) Vibrate(ctx context.Context, d time.Duration) error {
	args := append(append([]string{}, v.args...), strconv.FormatInt(d.Milliseconds(), 10))
	vibeCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	err := exec.CommandContext(vibeCtx, v.name, args...).Run()
	if vibeCtx.Err() != nil {
		return vibeCtx.Err()
	}
	if err != nil {
		return fmt.Errorf("vibrate: %s: %w", v.name, err)
	}
	return nil
}

// Unsupported is the Vibrator for devices without haptics.
type Unsupported struct{}

func (Unsupported) Vibrate(context.Context, time.Duration) error {
	return domain.ErrVibrationUnsupported
}

// NewPlayer picks a CommandPlayer when commandLine is set and a BellPlayer on
// out otherwise.
func NewPlayer(commandLine, soundFile string, out io.Writer) (Player, error) {
	if strings.TrimSpace(commandLine) == "" {
		return NewBellPlayer(out, 3, 500*time.Millisecond), nil
	}
	return NewCommandPlayer(commandLine, soundFile)
}

// NewVibrator picks a CommandVibrator when commandLine is set.
func NewVibrator(commandLine string) (Vibrator, error) {
	if strings.TrimSpace(commandLine) == "" {
		return Unsupported{}, nil
	}
	return NewCommandVibrator(commandLine)
}

var (
	_ Player   = (*CommandPlayer)(nil)
	_ Player   = (*BellPlayer)(nil)
	_ Vibrator = (*CommandVibrator)(nil)
	_ Vibrator = Unsupported{}
)
