package rules

import (
	"testing"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var drawSelf = card.Effect{Action: card.ActionDraw, Scope: card.ScopeSelf, Kind: card.KindAny}

func TestCollectTriggersOrder(t *testing.T) {
	p := player.New("Anna")
	p.BonusMalus.Append(card.New("Borsa di studio", "", card.KindBonus, card.TimingOnTurnStart, false, drawSelf))
	p.PlayArea.Append(card.New("Secchione", "", card.KindPlainStudent, card.TimingOnTurnStart, false, drawSelf))
	p.PlayArea.Append(card.New("Pigro", "", card.KindPlainStudent, card.TimingNever, false, drawSelf))
	p.PlayArea.Append(card.New("Laureando", "", card.KindGraduand, card.TimingOnTurnStart, false, drawSelf))

	q := CollectTriggers(p, 2, card.TimingOnTurnStart)
	require.Equal(t, 3, q.Len())

	var names []string
	for tr, ok := q.Next(); ok; tr, ok = q.Next() {
		assert.Equal(t, 2, tr.Owner)
		names = append(names, tr.SourceName)
	}
	assert.Equal(t, []string{"Secchione", "Laureando", "Borsa di studio"}, names)
}

func TestCollectTriggersSkipsCardsWithoutEffects(t *testing.T) {
	p := player.New("Anna")
	p.PlayArea.Append(card.New("Matricola", "", card.KindFreshman, card.TimingOnTurnStart, false))

	assert.Equal(t, 0, CollectTriggers(p, 0, card.TimingOnTurnStart).Len())
}

func TestTriggerSkipsRemovedSource(t *testing.T) {
	p := player.New("Anna")
	p.PlayArea.Append(card.New("Secchione", "", card.KindPlainStudent, card.TimingOnTurnStart, false, drawSelf))
	q := CollectTriggers(p, 0, card.TimingOnTurnStart)

	tr, ok := q.Next()
	require.True(t, ok)
	_, err := p.PlayArea.Take(0)
	require.NoError(t, err)

	_, found := tr.Locate(p)
	assert.False(t, found)
}

func TestNilQueue(t *testing.T) {
	var q *TriggerQueue
	assert.Equal(t, 0, q.Len())
	_, ok := q.Next()
	assert.False(t, ok)
}
