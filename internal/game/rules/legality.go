package rules

import (
	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/player"
)

// StudentsToWin is the number of students a play-area needs for victory.
const StudentsToWin = 6

// MaxHandSize is the hand limit enforced at end of turn.
const MaxHandSize = 5

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal  bool
	Reason string
}

// prevents reports whether a Prevent effect in front of p covers kind k.
// A Student filter covers the three student subtypes.
func prevents(p *player.Player, k card.Kind, requireAlways bool) bool {
	for _, area := range []*card.Deck{p.PlayArea, p.BonusMalus} {
		for _, c := range area.Cards() {
			if requireAlways && c.Timing != card.TimingAlways {
				continue
			}
			for _, e := range c.Effects {
				if e.Action == card.ActionPrevent && e.Scope == card.ScopeSelf && k.Matches(e.Kind) {
					return true
				}
			}
		}
	}
	return false
}

// CheckPlay reports whether p may play c from hand.
func CheckPlay(p *player.Player, c card.Card) LegalityResult {
	if prevents(p, c.Kind, false) {
		return LegalityResult{Reason: "a card in play prevents playing " + c.Kind.String() + " cards"}
	}
	return LegalityResult{Legal: true}
}

// CanPlay reports whether p may play c from hand.
func CanPlay(p *player.Player, c card.Card) bool {
	return CheckPlay(p, c).Legal
}

// PlayableIndexes returns the hand positions p may play that satisfy filter.
func PlayableIndexes(p *player.Player, filter card.Kind) []int {
	return p.Hand.Filter(func(c card.Card) bool {
		return c.Kind.Matches(filter) && CanPlay(p, c)
	})
}

// CountPlayable returns how many cards in p's hand could be played under
// filter.
func CountPlayable(p *player.Player, filter card.Kind) int {
	return len(PlayableIndexes(p, filter))
}

// blocks reports whether instant i can counter a card of kind k.
func blocks(i card.Card, k card.Kind) bool {
	if i.Kind != card.KindInstant {
		return false
	}
	for _, e := range i.Effects {
		if e.Action == card.ActionBlock && e.Scope == card.ScopeSelf && k.Matches(e.Kind) {
			return true
		}
	}
	return false
}

// BlockingIndexes returns the hand positions of instants p could use to
// block c.
func BlockingIndexes(p *player.Player, c card.Card) []int {
	return p.Hand.Filter(func(i card.Card) bool { return blocks(i, c.Kind) })
}

// CheckBlock reports whether p is able to block the effects of c.
func CheckBlock(p *player.Player, c card.Card) LegalityResult {
	if len(BlockingIndexes(p, c)) == 0 {
		return LegalityResult{Reason: "no instant able to block " + c.Name}
	}
	if prevents(p, card.KindInstant, true) {
		return LegalityResult{Reason: "a card in play prevents playing instants"}
	}
	return LegalityResult{Legal: true}
}

// CanBlock reports whether p is able to block the effects of c.
func CanBlock(p *player.Player, c card.Card) bool {
	return CheckBlock(p, c).Legal
}

// HandVisible reports whether p must show their hand to the other players.
func HandVisible(p *player.Player) bool {
	return p.HasEffect(card.ActionShow, card.ScopeSelf, card.KindAny)
}

// WinBlocked reports whether a bonus/malus card keeps p from winning.
func WinBlocked(p *player.Player) bool {
	return p.BonusMalus.ContainsEffect(card.ActionWinBlocker, card.ScopeSelf, card.KindStudent) ||
		p.BonusMalus.ContainsEffect(card.ActionWinBlocker, card.ScopeSelf, card.KindAny)
}

// HasWon reports whether p satisfies the victory condition.
func HasWon(p *player.Player) bool {
	if WinBlocked(p) {
		return false
	}
	return p.Students() >= StudentsToWin
}
