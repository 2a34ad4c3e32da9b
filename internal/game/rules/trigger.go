package rules

import (
	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/player"
)

// Trigger is a pending activation of a card's effects.
type Trigger struct {
	SourceID   string
	SourceName string
	Owner      int
	Timing     card.Timing
}

// TriggerQueue holds triggers in firing order. It is a snapshot: cards that
// leave their area before their turn comes are skipped by the caller.
type TriggerQueue struct {
	items []Trigger
}

// CollectTriggers snapshots the cards in front of p that fire on timing.
// The play-area comes first, then the bonus/malus-area.
func CollectTriggers(p *player.Player, seat int, timing card.Timing) *TriggerQueue {
	q := &TriggerQueue{}
	for _, area := range []*card.Deck{p.PlayArea, p.BonusMalus} {
		for _, c := range area.Cards() {
			if !c.FiresOn(timing) {
				continue
			}
			q.items = append(q.items, Trigger{
				SourceID:   c.ID,
				SourceName: c.Name,
				Owner:      seat,
				Timing:     timing,
			})
		}
	}
	return q
}

// Len returns the number of pending triggers.
func (q *TriggerQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Next pops the oldest trigger.
func (q *TriggerQueue) Next() (Trigger, bool) {
	if q.Len() == 0 {
		return Trigger{}, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// Locate finds the trigger's source card in front of p. ok is false when
// the card has left both areas.
func (t Trigger) Locate(p *player.Player) (card.Card, bool) {
	for _, area := range []*card.Deck{p.PlayArea, p.BonusMalus} {
		if i := area.IndexOf(t.SourceID); i >= 0 {
			c, err := area.At(i)
			if err != nil {
				return card.Card{}, false
			}
			return c, true
		}
	}
	return card.Card{}, false
}
