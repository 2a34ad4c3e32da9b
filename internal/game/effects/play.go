package effects

import (
	"context"
	"fmt"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/interact"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/magefree/unstable-students/internal/game/rules"
	"go.uber.org/zap"
)

// PlayFromHand lets the player at seat play one card of kind filter from
// their hand. The player is asked again until the choice is playable.
func (e *Engine) PlayFromHand(ctx context.Context, seat int, filter card.Kind, show bool) error {
	const op = "effects.play"
	p, err := e.table.Ring().Player(seat)
	if err != nil {
		return err
	}
	if rules.CountPlayable(p, filter) == 0 {
		return gameerr.Rule(op, "%s has no playable card", p.Name)
	}

	e.out.ShowDeck("Hand of "+p.Name, p.Hand, false)
	var idx int
	for {
		i, err := interact.ChooseCard(ctx, e.in, fmt.Sprintf("%s, choose a card to play", p.Name), p.Hand.Count())
		if err != nil {
			return err
		}
		c, err := p.Hand.At(i)
		if err != nil {
			return err
		}
		if res := rules.CheckPlay(p, c); !res.Legal {
			e.out.Message(interact.LevelWarning, fmt.Sprintf("%s cannot play %q: %s.", p.Name, c.Name, res.Reason))
			continue
		}
		if !c.Kind.Playable() {
			return gameerr.Invariant(op, "card %q has unplayable kind %s", c.Name, c.Kind)
		}
		if !c.Kind.Matches(filter) {
			e.out.Message(interact.LevelWarning, fmt.Sprintf("%s must play a card of kind %s.", p.Name, filter))
			continue
		}
		idx = i
		break
	}

	c, err := p.Hand.Take(idx)
	if err != nil {
		return err
	}
	e.publish(rules.EventCardPlayed, p.Name, "", c, "")
	e.logger.Debug("card played",
		zap.String("player", p.Name),
		zap.String("card", c.Name),
		zap.Stringer("kind", c.Kind))
	if show {
		e.out.Message(interact.LevelSuccess, fmt.Sprintf("%s played a card.", p.Name))
		e.out.ShowCard(c)
	}

	switch {
	case c.Kind.IsStudent():
		return e.enterPlayArea(ctx, seat, p, c)
	case c.Kind.IsArea():
		return e.assignBonusMalus(ctx, seat, c)
	case c.Kind == card.KindSpell:
		if err := e.Resolve(ctx, seat, c, card.TimingOnPlayImmediate); err != nil {
			return err
		}
		e.table.Discard(c)
		return nil
	case c.Kind == card.KindInstant:
		e.table.Discard(c)
		return nil
	default:
		p.Hand.Append(c)
		return gameerr.Invariant(op, "card %q has unplayable kind %s", c.Name, c.Kind)
	}
}

func (e *Engine) enterPlayArea(ctx context.Context, seat int, p *player.Player, c card.Card) error {
	if p.PlayArea.ContainsName(c.Name) {
		e.waste(p, c)
		return nil
	}
	p.PlayArea.Append(c)
	return e.Resolve(ctx, seat, c, card.TimingOnPlayImmediate)
}

// assignBonusMalus gives a bonus or malus to any player, the owner included.
// Another player may block it, in which case the card is discarded.
func (e *Engine) assignBonusMalus(ctx context.Context, seat int, c card.Card) error {
	ring := e.table.Ring()
	e.out.Message(interact.LevelInfo, fmt.Sprintf("Choose who receives %q.", c.Name))
	target, err := player.ChoosePlayer(ctx, e.in, ring, seat, true)
	if err != nil {
		return err
	}
	tp := ring.MustPlayer(target)

	if tp.BonusMalus.ContainsName(c.Name) {
		e.waste(tp, c)
		return nil
	}

	if target != seat {
		blocked, err := e.offerBlocks(ctx, []int{target}, c)
		if err != nil {
			return err
		}
		if blocked {
			e.table.Discard(c)
			e.publish(rules.EventCardDiscarded, ring.MustPlayer(seat).Name, tp.Name, c, "blocked")
			return nil
		}
	}

	tp.BonusMalus.Append(c)
	return e.Resolve(ctx, seat, c, card.TimingOnPlayImmediate)
}
