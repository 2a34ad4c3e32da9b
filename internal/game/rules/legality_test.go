package rules

import (
	"fmt"
	"testing"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/stretchr/testify/assert"
)

func withStudents(n int) *player.Player {
	p := player.New("Anna")
	for i := 0; i < n; i++ {
		p.PlayArea.Append(card.New(fmt.Sprintf("Studente %d", i), "", card.KindPlainStudent, card.TimingNever, false))
	}
	return p
}

func TestHasWonWithSixStudents(t *testing.T) {
	assert.True(t, HasWon(withStudents(6)))
	assert.False(t, HasWon(withStudents(5)))
}

func TestWinBlockerSuppressesVictory(t *testing.T) {
	for _, kind := range []card.Kind{card.KindStudent, card.KindAny} {
		p := withStudents(6)
		p.BonusMalus.Append(card.New("Ingegnerizzazione", "", card.KindMalus, card.TimingAlways, false,
			card.Effect{Action: card.ActionWinBlocker, Scope: card.ScopeSelf, Kind: kind}))

		assert.False(t, HasWon(p), "win blocker against %s", kind)
	}
}

func TestWinBlockerInPlayAreaIsIgnored(t *testing.T) {
	p := withStudents(6)
	p.PlayArea.Append(card.New("Strano", "", card.KindGraduand, card.TimingAlways, false,
		card.Effect{Action: card.ActionWinBlocker, Scope: card.ScopeSelf, Kind: card.KindAny}))

	assert.True(t, HasWon(p))
}

func TestPreventBlocksPlay(t *testing.T) {
	p := player.New("Anna")
	p.BonusMalus.Append(card.New("Sciopero", "", card.KindMalus, card.TimingAlways, false,
		card.Effect{Action: card.ActionPrevent, Scope: card.ScopeSelf, Kind: card.KindStudent}))
	freshman := card.New("Matricola", "", card.KindFreshman, card.TimingNever, false)
	bonus := card.New("Caffè", "", card.KindBonus, card.TimingNever, false)
	p.Hand.Append(freshman)
	p.Hand.Append(bonus)

	assert.False(t, CanPlay(p, freshman))
	assert.True(t, CanPlay(p, bonus))
	assert.Equal(t, []int{1}, PlayableIndexes(p, card.KindAny))
	assert.Equal(t, 0, CountPlayable(p, card.KindStudent))
}

func TestCanBlockRequiresMatchingInstant(t *testing.T) {
	malus := card.New("Tassa", "", card.KindMalus, card.TimingOnPlayImmediate, false)
	spell := card.New("Incantesimo", "", card.KindSpell, card.TimingOnPlayImmediate, false)

	p := player.New("Bea")
	p.Hand.Append(card.New("Ricorso", "", card.KindInstant, card.TimingNever, false,
		card.Effect{Action: card.ActionBlock, Scope: card.ScopeSelf, Kind: card.KindMalus}))

	assert.True(t, CanBlock(p, malus))
	assert.False(t, CanBlock(p, spell))

	p.Hand.Append(card.New("Veto", "", card.KindInstant, card.TimingNever, false,
		card.Effect{Action: card.ActionBlock, Scope: card.ScopeSelf, Kind: card.KindAny}))
	assert.True(t, CanBlock(p, spell))
	assert.Equal(t, []int{1}, BlockingIndexes(p, spell))
}

func TestAlwaysPreventInstantStopsBlocking(t *testing.T) {
	malus := card.New("Tassa", "", card.KindMalus, card.TimingOnPlayImmediate, false)
	p := player.New("Bea")
	p.Hand.Append(card.New("Ricorso", "", card.KindInstant, card.TimingNever, false,
		card.Effect{Action: card.ActionBlock, Scope: card.ScopeSelf, Kind: card.KindAny}))

	p.BonusMalus.Append(card.New("Bavaglio", "", card.KindMalus, card.TimingOnTurnStart, false,
		card.Effect{Action: card.ActionPrevent, Scope: card.ScopeSelf, Kind: card.KindInstant}))
	assert.True(t, CanBlock(p, malus), "prevent without Always timing does not stop blocks")

	p.BonusMalus.Append(card.New("Silenzio", "", card.KindMalus, card.TimingAlways, false,
		card.Effect{Action: card.ActionPrevent, Scope: card.ScopeSelf, Kind: card.KindInstant}))
	res := CheckBlock(p, malus)
	assert.False(t, res.Legal)
	assert.Contains(t, res.Reason, "prevents playing instants")
}

func TestHandVisible(t *testing.T) {
	p := player.New("Carlo")
	assert.False(t, HandVisible(p))

	p.BonusMalus.Append(card.New("Trasparenza", "", card.KindMalus, card.TimingAlways, false,
		card.Effect{Action: card.ActionShow, Scope: card.ScopeSelf, Kind: card.KindAny}))
	assert.True(t, HandVisible(p))
}
