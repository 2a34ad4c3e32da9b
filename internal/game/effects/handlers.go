package effects

import (
	"context"
	"fmt"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/interact"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/magefree/unstable-students/internal/game/rules"
	"github.com/magefree/unstable-students/internal/game/targeting"
	"go.uber.org/zap"
)

func (e *Engine) seat(seat int) *player.Player {
	return e.table.Ring().MustPlayer(seat)
}

// nothing tells the table the effect had nothing to act on.
func (e *Engine) nothing(p *player.Player, verb string) {
	e.out.Message(interact.LevelWarning, fmt.Sprintf("%s has nothing to %s.", p.Name, verb))
}

func (e *Engine) play(ctx context.Context, a activation, target int) error {
	tp := e.seat(target)
	if rules.CountPlayable(tp, a.effect.Kind) == 0 {
		e.out.Message(interact.LevelWarning, fmt.Sprintf("%s has no playable card.", tp.Name))
		return nil
	}
	return e.PlayFromHand(ctx, target, a.effect.Kind, true)
}

func (e *Engine) discard(ctx context.Context, a activation, target int) error {
	tp := e.seat(target)
	if tp.Hand.Empty() {
		e.nothing(tp, "discard")
		return nil
	}

	e.out.ShowDeck("Hand of "+tp.Name, tp.Hand, false)
	i, err := interact.ChooseCard(ctx, e.in, fmt.Sprintf("%s, choose a card to discard", tp.Name), tp.Hand.Count())
	if err != nil {
		return err
	}
	c, err := tp.Hand.Take(i)
	if err != nil {
		return err
	}
	e.table.Discard(c)

	e.out.Message(interact.LevelInfo, fmt.Sprintf("%s discarded a card.", tp.Name))
	e.out.ShowCard(c)
	e.publish(rules.EventCardDiscarded, e.seat(a.owner).Name, tp.Name, c, "")
	return nil
}

// slot locates a card in one of a player's areas.
type slot struct {
	area *card.Deck
	card card.Card
}

// candidates lists the cards in front of p that an Eliminate or Steal with
// the given kind filter may select. The play-area comes first.
func candidates(p *player.Player, filter card.Kind, op string) ([]slot, error) {
	var areas []*card.Deck
	switch {
	case filter == card.KindAny || filter == card.KindWildcard:
		areas = []*card.Deck{p.PlayArea, p.BonusMalus}
	case filter.IsStudent():
		areas = []*card.Deck{p.PlayArea}
	case filter.IsArea():
		areas = []*card.Deck{p.BonusMalus}
	default:
		return nil, gameerr.Rule(op, "card kind %s is not valid for this effect", filter)
	}

	var out []slot
	for _, area := range areas {
		for _, c := range area.Cards() {
			if c.Kind.Matches(filter) {
				out = append(out, slot{area: area, card: c})
			}
		}
	}
	return out, nil
}

// pick shows the candidates and removes the chosen one from its area.
func (e *Engine) pick(ctx context.Context, chooser *player.Player, owner *player.Player, slots []slot, verb string) (card.Card, error) {
	cards := make([]card.Card, len(slots))
	for i, s := range slots {
		cards[i] = s.card
	}
	e.out.ShowDeck("Cards of "+owner.Name, card.NewDeck(cards...), false)

	k, err := interact.ChooseCard(ctx, e.in, fmt.Sprintf("%s, choose a card to %s", chooser.Name, verb), len(slots))
	if err != nil {
		return card.Card{}, err
	}
	chosen := slots[k]
	idx := chosen.area.IndexOf(chosen.card.ID)
	if idx < 0 {
		return card.Card{}, gameerr.Invariant("effects.pick", "card %q vanished from %s's area", chosen.card.Name, owner.Name)
	}
	return chosen.area.Take(idx)
}

func (e *Engine) eliminate(ctx context.Context, a activation, target int) error {
	tp := e.seat(target)
	slots, err := candidates(tp, a.effect.Kind, "effects.eliminate")
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		e.nothing(tp, "eliminate")
		return nil
	}

	c, err := e.pick(ctx, tp, tp, slots, "eliminate")
	if err != nil {
		return err
	}
	e.table.Discard(c)

	e.out.Message(interact.LevelInfo, fmt.Sprintf("%s lost %q.", tp.Name, c.Name))
	e.out.ShowCard(c)
	e.publish(rules.EventCardEliminated, e.seat(a.owner).Name, tp.Name, c, "")

	return e.Resolve(ctx, target, c, card.TimingOnRemoved)
}

func (e *Engine) steal(ctx context.Context, a activation, target int) error {
	actor := e.seat(a.owner)
	tp := e.seat(target)
	slots, err := candidates(tp, a.effect.Kind, "effects.steal")
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		e.nothing(tp, "steal")
		return nil
	}

	c, err := e.pick(ctx, actor, tp, slots, "steal")
	if err != nil {
		return err
	}
	e.out.Message(interact.LevelSuccess, fmt.Sprintf("%s stole %q from %s.", actor.Name, c.Name, tp.Name))
	e.out.ShowCard(c)
	e.publish(rules.EventCardStolen, actor.Name, tp.Name, c, "")

	if err := e.Resolve(ctx, target, c, card.TimingOnRemoved); err != nil {
		return err
	}

	dest := actor.AreaFor(c.Kind)
	if dest == nil {
		return gameerr.Invariant("effects.steal", "card %q of kind %s has no area", c.Name, c.Kind)
	}
	if dest.ContainsName(c.Name) {
		e.waste(actor, c)
		return nil
	}
	dest.Append(c)
	return e.Resolve(ctx, a.owner, c, card.TimingOnPlayImmediate)
}

// waste sends a card that would duplicate a name in an area to the discard
// pool.
func (e *Engine) waste(p *player.Player, c card.Card) {
	e.out.Message(interact.LevelWarning, fmt.Sprintf("%s already has a card named %q. The card is discarded.", p.Name, c.Name))
	e.table.Discard(c)
	e.publish(rules.EventCardWasted, p.Name, "", c, "")
}

func (e *Engine) draw(_ context.Context, _ activation, target int) error {
	tp := e.seat(target)
	c, err := e.table.DrawOne(target)
	if err != nil {
		return err
	}
	e.out.Message(interact.LevelSuccess, fmt.Sprintf("%s drew a card.", tp.Name))
	e.out.ShowCard(c)
	return nil
}

func (e *Engine) take(ctx context.Context, a activation, target int) error {
	actor := e.seat(a.owner)
	tp := e.seat(target)
	if tp.Hand.Empty() {
		e.nothing(tp, "take")
		return nil
	}

	hidden := target != a.owner && !rules.HandVisible(tp)
	e.out.ShowDeck("Hand of "+tp.Name, tp.Hand, hidden)
	i, err := interact.ChooseCard(ctx, e.in, fmt.Sprintf("%s, choose a card to take from %s", actor.Name, tp.Name), tp.Hand.Count())
	if err != nil {
		return err
	}
	c, err := tp.Hand.Take(i)
	if err != nil {
		return err
	}
	actor.Hand.Append(c)

	e.out.Message(interact.LevelSuccess, fmt.Sprintf("%s took a card from %s.", actor.Name, tp.Name))
	e.out.ShowCard(c)
	e.publish(rules.EventCardTaken, actor.Name, tp.Name, c, "")
	return nil
}

func (e *Engine) swap(_ context.Context, a activation) error {
	if targeting.RequiresSingleOpponent(a.effect.Action, a.plan.Scope) {
		return gameerr.Rule("effects.swap", "hands cannot be swapped with %s", a.plan.Scope)
	}
	actor := e.seat(a.owner)
	return a.plan.ForEachTarget(func(target int) error {
		tp := e.seat(target)
		if target != a.owner {
			card.Swap(actor.Hand, tp.Hand)
		}
		e.out.Message(interact.LevelInfo, fmt.Sprintf("%s swapped hands with %s.", actor.Name, tp.Name))
		e.out.ShowDeck("New hand of "+actor.Name, actor.Hand, false)
		e.publish(rules.EventHandsSwapped, actor.Name, tp.Name, a.source, "")
		e.logger.Debug("hands swapped",
			zap.String("player", actor.Name),
			zap.String("target", tp.Name))
		return nil
	})
}
