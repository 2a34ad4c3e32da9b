package targeting

import (
	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/player"
)

// Validate checks that a plan only names seated players and fits its scope.
func Validate(p Plan, r *player.Ring) error {
	const op = "targeting.validate"
	for _, seat := range append(append([]int(nil), p.Targets...), p.Blockers...) {
		if _, err := r.Player(seat); err != nil {
			return err
		}
	}
	for _, seat := range p.Blockers {
		if seat == p.Owner {
			return gameerr.Invariant(op, "owner %d cannot block their own card", seat)
		}
	}
	switch p.Scope {
	case card.ScopeSelf:
		if len(p.Targets) != 1 || p.Targets[0] != p.Owner {
			return gameerr.Invariant(op, "self scope must target the owner only")
		}
	case card.ScopeChosenOpponent:
		if len(p.Targets) != 1 || p.Targets[0] == p.Owner {
			return gameerr.Invariant(op, "chosen opponent must be a single other player")
		}
	case card.ScopeAllOthers:
		if len(p.Targets) != r.Count()-1 {
			return gameerr.Invariant(op, "all others must target %d players, got %d", r.Count()-1, len(p.Targets))
		}
	case card.ScopeEveryone:
		if len(p.Targets) != r.Count() || p.Targets[0] != p.Owner {
			return gameerr.Invariant(op, "everyone must start from the owner and cover the ring")
		}
	}
	return nil
}

// RequiresSingleOpponent reports whether action a only makes sense against
// one player at a time.
func RequiresSingleOpponent(a card.Action, scope card.Scope) bool {
	return a == card.ActionSwap && (scope == card.ScopeAllOthers || scope == card.ScopeEveryone)
}
