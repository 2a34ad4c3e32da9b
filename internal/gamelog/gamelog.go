// Package gamelog writes the human readable action log of a game.
package gamelog

import (
	"fmt"
	"os"
	"strings"

	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/rules"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const separatorWidth = 64

// Logger appends one line per logged event. Lines are prefixed with the
// round set by SetRound and nothing but the game start or load banner is
// written before round 1.
type Logger struct {
	z      *zap.Logger
	close  func() error
	handle int
	bus    *rules.EventBus
	round  rules.RoundContext
}

// New writes the log to w.
func New(w zapcore.WriteSyncer) *Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(enc, w, zapcore.InfoLevel)
	return &Logger{z: zap.New(core), handle: -1, close: func() error { return nil }}
}

// Open appends to the log file at path, creating it when missing.
func Open(fs afero.Fs, path string) (*Logger, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, gameerr.IO("gamelog.open", path, err)
	}
	l := New(zapcore.AddSync(f))
	l.close = f.Close
	return l, nil
}

// Attach subscribes the logger to bus.
func (l *Logger) Attach(bus *rules.EventBus) {
	l.bus = bus
	l.handle = bus.Subscribe(l.Log)
}

// Close flushes and closes the log.
func (l *Logger) Close() error {
	if l.bus != nil && l.handle >= 0 {
		l.bus.Unsubscribe(l.handle)
		l.handle = -1
	}
	_ = l.z.Sync()
	return l.close()
}

// SetRound records the round in progress.
func (l *Logger) SetRound(rc rules.RoundContext) {
	l.round = rc
}

// Log writes the line describing e, if any. A new or loaded game sends the
// log back to round 0 until the next SetRound.
func (l *Logger) Log(e rules.Event) {
	switch e.Type {
	case rules.EventGameInitialised:
		l.round = rules.RoundContext{}
		l.banner(fmt.Sprintf("[+] New game %q started.", e.Data))
		return
	case rules.EventGameLoaded:
		l.round = rules.RoundContext{}
		l.banner(fmt.Sprintf("[+] Save %q loaded at round %d.", e.Data, e.Amount))
		return
	}

	if !l.round.Started() {
		return
	}
	line := describe(e)
	if line == "" {
		return
	}
	l.z.Info(fmt.Sprintf("[Round %d]: %s", l.round.Round, line))
}

func (l *Logger) banner(text string) {
	sep := strings.Repeat("─", separatorWidth)
	l.z.Info("\n" + sep + "\n\n" + text + "\n")
}

func describe(e rules.Event) string {
	switch e.Type {
	case rules.EventCardDrawn:
		return fmt.Sprintf("%q drew %q.", e.Player, e.CardName)
	case rules.EventCardPlayed:
		return fmt.Sprintf("%q played %q.", e.Player, e.CardName)
	case rules.EventCardDiscarded:
		switch {
		case e.Data == "blocked":
			return fmt.Sprintf("%q blocked %q, which was discarded.", e.Target, e.CardName)
		case e.Target != "" && e.Target != e.Player:
			return fmt.Sprintf("%q discarded %q from their hand because of %q.", e.Target, e.CardName, e.Player)
		default:
			return fmt.Sprintf("%q discarded %q.", e.Player, e.CardName)
		}
	case rules.EventCardWasted:
		return fmt.Sprintf("%q already had %q, the copy was discarded.", e.Player, e.CardName)
	case rules.EventEffectBlocked:
		return fmt.Sprintf("%q blocked the effect of %q using %q.", e.Player, e.CardName, e.Data)
	case rules.EventCardEliminated:
		return fmt.Sprintf("%q eliminated %q from %q.", e.Player, e.CardName, e.Target)
	case rules.EventCardStolen:
		return fmt.Sprintf("%q stole %q from %q.", e.Player, e.CardName, e.Target)
	case rules.EventCardTaken:
		return fmt.Sprintf("%q took %q from the hand of %q.", e.Player, e.CardName, e.Target)
	case rules.EventHandsSwapped:
		return fmt.Sprintf("%q swapped hands with %q.", e.Player, e.Target)
	case rules.EventDeckReshuffle:
		return fmt.Sprintf("The discard pool (%d cards) was shuffled into the draw pool.", e.Amount)
	case rules.EventGameWon:
		return fmt.Sprintf("Player %q won the game!", e.Player)
	}
	return ""
}
