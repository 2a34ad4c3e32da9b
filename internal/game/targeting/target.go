package targeting

import (
	"context"
	"fmt"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/player"
)

// Pin remembers the opponent chosen for a card, so every ChosenOpponent
// effect of the same card hits the same player.
type Pin struct {
	seat int
	set  bool
}

// Seat returns the pinned seat.
func (p *Pin) Seat() (int, bool) {
	if p == nil {
		return -1, false
	}
	return p.seat, p.set
}

// Set pins seat.
func (p *Pin) Set(seat int) {
	p.seat = seat
	p.set = true
}

// Plan is the outcome of target selection for one effect.
type Plan struct {
	Scope card.Scope
	Owner int
	// Targets receive the effect, in application order.
	Targets []int
	// Blockers are offered a chance to block before anything applies.
	Blockers []int
}

// Select resolves scope into a plan. ChosenOpponent asks the owner once per
// card; later calls reuse pin.
func Select(ctx context.Context, in player.IntAsker, r *player.Ring, owner int, scope card.Scope, pin *Pin) (Plan, error) {
	plan := Plan{Scope: scope, Owner: owner}
	switch scope {
	case card.ScopeSelf:
		plan.Targets = []int{owner}
	case card.ScopeChosenOpponent:
		seat, ok := pin.Seat()
		if !ok {
			chosen, err := player.ChoosePlayer(ctx, in, r, owner, false)
			if err != nil {
				return Plan{}, fmt.Errorf("select opponent: %w", err)
			}
			seat = chosen
			if pin != nil {
				pin.Set(seat)
			}
		}
		plan.Targets = []int{seat}
		plan.Blockers = []int{seat}
	case card.ScopeAllOthers:
		plan.Targets = r.Others(owner)
		plan.Blockers = r.Others(owner)
	case card.ScopeEveryone:
		plan.Targets = r.From(owner, true)
		plan.Blockers = r.Others(owner)
	default:
		return Plan{}, fmt.Errorf("select targets: unsupported scope %s", scope)
	}
	if err := Validate(plan, r); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// ForEachTarget calls fn for every target in order and stops at the first
// error.
func (p Plan) ForEachTarget(fn func(seat int) error) error {
	for _, seat := range p.Targets {
		if err := fn(seat); err != nil {
			return err
		}
	}
	return nil
}
