package targeting

import (
	"context"
	"testing"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/interact"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ring() *player.Ring {
	return player.NewRing(player.New("Anna"), player.New("Bea"), player.New("Carlo"), player.New("Dario"))
}

func TestSelectScopes(t *testing.T) {
	ctx := context.Background()
	r := ring()

	self, err := Select(ctx, nil, r, 1, card.ScopeSelf, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, self.Targets)
	assert.Empty(t, self.Blockers)

	others, err := Select(ctx, nil, r, 1, card.ScopeAllOthers, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 0}, others.Targets)
	assert.Equal(t, []int{2, 3, 0}, others.Blockers)

	everyone, err := Select(ctx, nil, r, 1, card.ScopeEveryone, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 0}, everyone.Targets)
	assert.Equal(t, []int{2, 3, 0}, everyone.Blockers)

	for _, p := range []Plan{self, others, everyone} {
		assert.NoError(t, Validate(p, r))
	}
}

func TestChosenOpponentIsPinnedPerCard(t *testing.T) {
	ctx := context.Background()
	r := ring()
	in := interact.NewScripted(2) // second candidate after Anna: Carlo

	var pin Pin
	first, err := Select(ctx, in, r, 0, card.ScopeChosenOpponent, &pin)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, first.Targets)
	assert.Equal(t, []int{2}, first.Blockers)

	second, err := Select(ctx, in, r, 0, card.ScopeChosenOpponent, &pin)
	require.NoError(t, err, "pinned target must not prompt again")
	assert.Equal(t, first.Targets, second.Targets)
	assert.Len(t, in.Questions, 1)
	assert.NoError(t, Validate(second, r))
}

func TestSelectRejectsInconsistentPlans(t *testing.T) {
	ctx := context.Background()
	r := ring()

	_, err := Select(ctx, nil, r, 9, card.ScopeSelf, nil)
	assert.True(t, gameerr.IsKind(err, gameerr.KindInvariant))

	var pin Pin
	pin.Set(0)
	_, err = Select(ctx, nil, r, 0, card.ScopeChosenOpponent, &pin)
	assert.True(t, gameerr.IsKind(err, gameerr.KindInvariant), "a card cannot pin its own owner")
}

func TestForEachTargetStopsOnError(t *testing.T) {
	plan := Plan{Targets: []int{2, 3, 0}}
	var seen []int
	err := plan.ForEachTarget(func(seat int) error {
		seen = append(seen, seat)
		if seat == 3 {
			return assert.AnError
		}
		return nil
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []int{2, 3}, seen)
}

func TestValidateRejectsBadPlans(t *testing.T) {
	r := ring()
	assert.Error(t, Validate(Plan{Scope: card.ScopeChosenOpponent, Owner: 0, Targets: []int{0}}, r))
	assert.Error(t, Validate(Plan{Scope: card.ScopeSelf, Owner: 0, Targets: []int{7}}, r))
	assert.Error(t, Validate(Plan{Scope: card.ScopeAllOthers, Owner: 0, Targets: []int{1}, Blockers: []int{0}}, r))
}

func TestSwapNeedsSingleOpponent(t *testing.T) {
	assert.True(t, RequiresSingleOpponent(card.ActionSwap, card.ScopeEveryone))
	assert.True(t, RequiresSingleOpponent(card.ActionSwap, card.ScopeAllOthers))
	assert.False(t, RequiresSingleOpponent(card.ActionSwap, card.ScopeChosenOpponent))
	assert.False(t, RequiresSingleOpponent(card.ActionSteal, card.ScopeEveryone))
}
