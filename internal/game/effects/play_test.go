package effects_test

import (
	"context"
	"testing"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayDuplicateStudentIsDiscarded(t *testing.T) {
	h := newHarness(t, 1)
	anna := h.player(0)
	original := filler("Secchione")
	anna.PlayArea.Append(original)
	dup := original.Copy()
	anna.Hand.Append(dup)

	require.NoError(t, h.engine.PlayFromHand(context.Background(), 0, card.KindAny, true))

	assert.Equal(t, 1, anna.PlayArea.Count())
	assert.Equal(t, 0, anna.Hand.Count())
	assert.Equal(t, 0, h.table.discard.IndexOf(dup.ID))
	assert.Contains(t, h.events, rules.EventCardWasted)
}

func TestPlayStudentFiresOnPlay(t *testing.T) {
	h := newHarness(t, 1)
	h.table.draw.Append(filler("Pescata"))
	anna := h.player(0)
	anna.Hand.Append(card.New("Matricola", "", card.KindFreshman, card.TimingOnPlayImmediate, false,
		fx(card.ActionDraw, card.ScopeSelf, card.KindAny)))

	require.NoError(t, h.engine.PlayFromHand(context.Background(), 0, card.KindStudent, false))

	assert.True(t, anna.PlayArea.ContainsName("Matricola"))
	assert.True(t, anna.Hand.ContainsName("Pescata"))
	assert.Equal(t, []rules.EventType{rules.EventCardPlayed}, h.events)
}

func TestPlayBonusBlockedByRecipient(t *testing.T) {
	// Anna plays her malus, gives it to Bea, Bea blocks with her instant.
	h := newHarness(t, 1, 2, 'y', 1)
	anna, bea := h.player(0), h.player(1)
	malus := card.New("Tassa", "", card.KindMalus, card.TimingNever, false)
	anna.Hand.Append(malus)
	instant := blocker(card.KindMalus)
	bea.Hand.Append(instant)

	require.NoError(t, h.engine.PlayFromHand(context.Background(), 0, card.KindAny, true))

	assert.Equal(t, 0, bea.BonusMalus.Count())
	assert.Equal(t, 0, bea.Hand.Count())
	assert.Equal(t, 2, h.table.discard.Count())
	assert.GreaterOrEqual(t, h.table.discard.IndexOf(instant.ID), 0)
	assert.Equal(t, 0, h.table.discard.IndexOf(malus.ID))
}

func TestPlayBonusOnSelfSkipsBlocking(t *testing.T) {
	// The first choice is prevented, the second is the bonus given to Anna.
	h := newHarness(t, 1, 2, 1)
	anna := h.player(0)
	anna.BonusMalus.Append(card.New("Sciopero", "", card.KindMalus, card.TimingAlways, false,
		fx(card.ActionPrevent, card.ScopeSelf, card.KindStudent)))
	anna.Hand.Append(card.New("Matricola", "", card.KindFreshman, card.TimingNever, false))
	anna.Hand.Append(card.New("Caffè", "", card.KindBonus, card.TimingNever, false))

	require.NoError(t, h.engine.PlayFromHand(context.Background(), 0, card.KindAny, true))

	assert.True(t, anna.BonusMalus.ContainsName("Caffè"))
	assert.True(t, anna.Hand.ContainsName("Matricola"))
	assert.True(t, h.out.Contains("cannot play"))
}

func TestPlaySpellIsDiscardedAfterResolving(t *testing.T) {
	h := newHarness(t, 1)
	h.table.draw.Append(filler("Pescata"))
	anna := h.player(0)
	spell := card.New("Ripasso", "", card.KindSpell, card.TimingOnPlayImmediate, false,
		fx(card.ActionDraw, card.ScopeSelf, card.KindAny))
	anna.Hand.Append(spell)

	require.NoError(t, h.engine.PlayFromHand(context.Background(), 0, card.KindAny, false))

	assert.True(t, anna.Hand.ContainsName("Pescata"))
	assert.Equal(t, 0, h.table.discard.IndexOf(spell.ID))
}

func TestPlayInstantHasNoEffect(t *testing.T) {
	h := newHarness(t, 1)
	anna := h.player(0)
	anna.Hand.Append(blocker(card.KindAny))

	require.NoError(t, h.engine.PlayFromHand(context.Background(), 0, card.KindAny, false))
	assert.Equal(t, 1, h.table.discard.Count())
	assert.Equal(t, 0, anna.Hand.Count())
}

func TestPlayWithoutPlayableCards(t *testing.T) {
	h := newHarness(t)
	h.player(0).Hand.Append(card.New("Caffè", "", card.KindBonus, card.TimingNever, false))

	err := h.engine.PlayFromHand(context.Background(), 0, card.KindStudent, false)
	require.Error(t, err)
	assert.True(t, gameerr.IsKind(err, gameerr.KindRule))
}

func TestPlayEffectReportsNoPlayableCard(t *testing.T) {
	h := newHarness(t, 1)
	c := card.New("Obbligo", "", card.KindSpell, card.TimingOnPlayImmediate, false,
		fx(card.ActionPlay, card.ScopeChosenOpponent, card.KindStudent))

	require.NoError(t, h.engine.Resolve(context.Background(), 0, c, card.TimingOnPlayImmediate))
	assert.True(t, h.out.Contains("Bea has no playable card"))
}

func TestNoDuplicateNamesAfterPlays(t *testing.T) {
	h := newHarness(t, 1, 1, 1)
	anna := h.player(0)
	base := filler("Secchione")
	anna.Hand.Append(base)
	anna.Hand.Append(base.Copy())
	anna.Hand.Append(base.Copy())

	for i := 0; i < 3; i++ {
		require.NoError(t, h.engine.PlayFromHand(context.Background(), 0, card.KindAny, false))
	}

	names := map[string]int{}
	for _, c := range anna.PlayArea.Cards() {
		names[c.Name]++
	}
	assert.Equal(t, 1, names["Secchione"])
	assert.Equal(t, 2, h.table.discard.Count())
}

func TestPlayPreventedChoiceIsAskedAgain(t *testing.T) {
	h := newHarness(t, 1, 2)
	anna := h.player(0)
	anna.BonusMalus.Append(card.New("Sciopero", "", card.KindMalus, card.TimingAlways, false,
		fx(card.ActionPrevent, card.ScopeSelf, card.KindPlainStudent)))
	anna.Hand.Append(filler("Secchione"))
	anna.Hand.Append(card.New("Matricola", "", card.KindFreshman, card.TimingNever, false))

	require.NoError(t, h.engine.PlayFromHand(context.Background(), 0, card.KindAny, false))

	assert.True(t, h.out.Contains(`Anna cannot play "Secchione"`))
	assert.True(t, anna.PlayArea.ContainsName("Matricola"))
	assert.True(t, anna.Hand.ContainsName("Secchione"))
	assert.Len(t, h.in.Questions, 2)
}

func TestPlayFilterKindCardStaysInHand(t *testing.T) {
	h := newHarness(t, 1)
	anna := h.player(0)
	jolly := card.New("Jolly", "", card.KindAny, card.TimingNever, false)
	anna.Hand.Append(jolly)

	err := h.engine.PlayFromHand(context.Background(), 0, card.KindAny, false)
	require.Error(t, err)
	assert.True(t, gameerr.IsKind(err, gameerr.KindInvariant))
	assert.Equal(t, 0, anna.Hand.IndexOf(jolly.ID))
	assert.Equal(t, 0, h.table.discard.Count())
	assert.Empty(t, h.events)
}
