package gamelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/magefree/unstable-students/internal/game/rules"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(zapcore.AddSync(&buf)), &buf
}

func TestSilentBeforeFirstRound(t *testing.T) {
	l, buf := newBufferLogger()

	l.Log(rules.NewEvent(rules.EventCardDrawn, 0, "Anna").WithCard("id", "Bookworm"))
	assert.Empty(t, buf.String())

	tm := rules.NewTurnManager(0, 0)
	tm.BeginRound()
	l.SetRound(tm.Context())
	l.Log(rules.NewEvent(rules.EventCardDrawn, 1, "Anna").WithCard("id", "Bookworm"))
	assert.Equal(t, "[Round 1]: \"Anna\" drew \"Bookworm\".\n", buf.String())
}

func TestNewGameResetsRound(t *testing.T) {
	l, buf := newBufferLogger()
	l.SetRound(rules.RoundContext{Round: 7})
	ev := rules.NewEvent(rules.EventGameInitialised, 0, "")
	ev.Data = "rivincita"
	l.Log(ev)
	buf.Reset()

	l.Log(rules.NewEvent(rules.EventCardDrawn, 7, "Anna").WithCard("id", "Bookworm"))
	assert.Empty(t, buf.String())
}

func TestBannerIsWrittenBeforeRoundOne(t *testing.T) {
	l, buf := newBufferLogger()
	ev := rules.NewEvent(rules.EventGameInitialised, 0, "")
	ev.Data = "partita"

	l.Log(ev)
	assert.Contains(t, buf.String(), `[+] New game "partita" started.`)
	assert.Contains(t, buf.String(), "────")
}

func TestEventLines(t *testing.T) {
	l, buf := newBufferLogger()
	blocked := rules.NewEvent(rules.EventEffectBlocked, 3, "Bea").WithCard("c", "Tutor")
	blocked.Data = "Appeal"

	l.SetRound(rules.RoundContext{Round: 3})
	l.Log(blocked)
	l.Log(rules.NewEvent(rules.EventCardStolen, 3, "Anna").WithTarget("Bea").WithCard("c", "Scholarship"))
	l.SetRound(rules.RoundContext{Round: 4})
	l.Log(rules.NewEvent(rules.EventHandsSwapped, 4, "Carlo").WithTarget("Anna"))
	l.Log(rules.NewEvent(rules.EventRoundStarted, 4, "Carlo"))
	l.Log(rules.NewEvent(rules.EventGameWon, 4, "Carlo"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		`[Round 3]: "Bea" blocked the effect of "Tutor" using "Appeal".`,
		`[Round 3]: "Anna" stole "Scholarship" from "Bea".`,
		`[Round 4]: "Carlo" swapped hands with "Anna".`,
		`[Round 4]: Player "Carlo" won the game!`,
	}, lines)
}

func TestAttachAndCloseAppendToFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "log.txt", []byte("previous\n"), 0o644))

	l, err := Open(fs, "log.txt")
	require.NoError(t, err)
	bus := rules.NewEventBus()
	l.Attach(bus)
	l.SetRound(rules.RoundContext{Round: 2})
	bus.Publish(rules.NewEvent(rules.EventCardPlayed, 2, "Anna").WithCard("c", "Bookworm"))
	require.NoError(t, l.Close())

	bus.Publish(rules.NewEvent(rules.EventCardPlayed, 2, "Anna").WithCard("c", "Night Owl"))

	data, err := afero.ReadFile(fs, "log.txt")
	require.NoError(t, err)
	assert.Equal(t, "previous\n[Round 2]: \"Anna\" played \"Bookworm\".\n", string(data))
}
