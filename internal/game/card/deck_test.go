package card

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func student(name string, kind Kind) Card {
	return New(name, "", kind, TimingNever, false)
}

func sampleDeck() *Deck {
	return NewDeck(
		student("Ada", KindFreshman),
		student("Bruno", KindPlainStudent),
		New("Caffè", "", KindBonus, TimingAlways, false, Effect{ActionShow, ScopeSelf, KindAny}),
		student("Dora", KindGraduand),
		New("Scudo", "", KindInstant, TimingNever, false, Effect{ActionBlock, ScopeSelf, KindMalus}),
	)
}

func TestAppendAndTakeAdjustCount(t *testing.T) {
	d := sampleDeck()
	before := d.Count()

	d.Append(student("Elio", KindFreshman))
	assert.Equal(t, before+1, d.Count())

	c, err := d.Take(2)
	require.NoError(t, err)
	assert.Equal(t, "Caffè", c.Name)
	assert.Equal(t, before, d.Count())
	assert.False(t, d.ContainsName("Caffè"))
}

func TestTakeOutOfRangeIsInvariant(t *testing.T) {
	d := sampleDeck()

	_, err := d.Take(d.Count())
	require.Error(t, err)
	assert.True(t, gameerr.IsKind(err, gameerr.KindInvariant))

	_, err = (&Deck{}).At(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deck is empty")
}

func TestShufflePreservesMultiset(t *testing.T) {
	d := sampleDeck()
	for i := 0; i < 20; i++ {
		d.Append(student("Extra", KindPlainStudent))
	}
	ids := func(cards []Card) []string {
		out := make([]string, len(cards))
		for i, c := range cards {
			out[i] = c.ID
		}
		sort.Strings(out)
		return out
	}
	original := d.Cards()

	d.Shuffle(rand.New(rand.NewPCG(7, 11)))

	shuffled := d.Cards()
	require.Len(t, shuffled, len(original))
	assert.Equal(t, ids(original), ids(shuffled))
	assert.NotEqual(t, original, shuffled)
}

func TestShuffleSingleCardIsNoop(t *testing.T) {
	d := NewDeck(student("Solo", KindFreshman))
	d.Shuffle(rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, 1, d.Count())
}

func TestSplitByKindKeepsOrder(t *testing.T) {
	d := NewDeck(
		student("A", KindFreshman),
		student("B", KindPlainStudent),
		student("C", KindFreshman),
		student("D", KindGraduand),
	)

	freshmen := d.SplitByKind(KindFreshman)

	names := func(deck *Deck) []string {
		var out []string
		for _, c := range deck.Cards() {
			out = append(out, c.Name)
		}
		return out
	}
	assert.Equal(t, []string{"A", "C"}, names(freshmen))
	assert.Equal(t, []string{"B", "D"}, names(d))
}

func TestStudentSupertypeMatching(t *testing.T) {
	assert.True(t, KindFreshman.Matches(KindStudent))
	assert.True(t, KindGraduand.Matches(KindStudent))
	assert.False(t, KindBonus.Matches(KindStudent))
	assert.True(t, KindBonus.Matches(KindAny))
	assert.True(t, KindMalus.Matches(KindWildcard))
	assert.False(t, KindStudent.Matches(KindFreshman))

	d := sampleDeck()
	assert.Equal(t, 3, d.CountKind(KindStudent))
	assert.True(t, d.ContainsKind(KindInstant))
	assert.False(t, d.ContainsKind(KindSpell))
}

func TestAnyIsOnlyAFilterKind(t *testing.T) {
	assert.False(t, KindAny.Playable())
	assert.False(t, KindWildcard.Playable())
	assert.False(t, Kind(42).Playable())
	for _, k := range []Kind{KindStudent, KindFreshman, KindPlainStudent, KindGraduand, KindBonus, KindMalus, KindSpell, KindInstant} {
		assert.True(t, k.Playable(), k.String())
	}
}

func TestContainsEffectWildcards(t *testing.T) {
	d := sampleDeck()

	assert.True(t, d.ContainsEffect(ActionShow, ScopeSelf, KindAny))
	assert.True(t, d.ContainsEffect(ActionBlock, ScopeWildcard, KindWildcard))
	assert.True(t, d.ContainsEffect(ActionWildcard, ScopeSelf, KindMalus))
	assert.False(t, d.ContainsEffect(ActionBlock, ScopeSelf, KindBonus))
	assert.False(t, d.ContainsEffect(ActionWinBlocker, ScopeWildcard, KindWildcard))
}

func TestMaterializeCopiesAreIndependent(t *testing.T) {
	base := New("Ripetente", "", KindPlainStudent, TimingOnPlayImmediate, false, Effect{ActionDraw, ScopeSelf, KindAny})
	d := Materialize([]Template{{Quantity: 3, Card: base}, {Quantity: 0, Card: base}})

	require.Equal(t, 3, d.Count())
	seen := map[string]bool{}
	for _, c := range d.Cards() {
		assert.Equal(t, "Ripetente", c.Name)
		assert.NotEqual(t, base.ID, c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 3)

	first, err := d.At(0)
	require.NoError(t, err)
	first.Effects[0].Action = ActionSwap
	second, err := d.At(1)
	require.NoError(t, err)
	assert.Equal(t, ActionDraw, second.Effects[0].Action)
}

func TestSwapExchangesContents(t *testing.T) {
	a := NewDeck(student("A", KindFreshman))
	b := NewDeck(student("B", KindFreshman), student("C", KindFreshman))

	Swap(a, b)

	assert.Equal(t, 2, a.Count())
	assert.Equal(t, 1, b.Count())
	assert.True(t, b.ContainsName("A"))
}

func TestPushPutsCardOnTop(t *testing.T) {
	d := sampleDeck()
	top := student("Elio", KindFreshman)
	d.Push(top)

	c, err := d.At(0)
	require.NoError(t, err)
	assert.Equal(t, top.ID, c.ID)
	assert.Equal(t, 0, d.IndexOf(top.ID))

	var empty Deck
	empty.Push(top)
	assert.Equal(t, 1, empty.Count())
}
